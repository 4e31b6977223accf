package entity

import (
	"strings"
	"time"
)

type User struct {
	ID         int64
	Email      string
	Phone      string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contact returns the address the user is reached at for via.
// Email goes to the email address, every phone channel to the phone number.
func (u User) Contact(via string) string {
	if strings.EqualFold(strings.TrimSpace(via), "email") {
		return u.Email
	}
	return u.Phone
}

// UpdateUser changes the contact details of a user. Nil fields are kept.
// Changing either contact to a new value clears IsVerified.
type UpdateUser struct {
	ID        int64
	Email     *string
	Phone     *string
	UpdatedAt time.Time
}

type UserListFilter struct {
	// Search matches a substring of the email or the phone number.
	Search string
	Limit  int32
	Offset int32
}
