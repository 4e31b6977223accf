package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/goverify/internal/identity/entity"
)

type User struct {
	ID         int64     `json:"id,string"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toUser(u entity.User) User {
	return User{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type RegisterRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	// Via is one of email, sms or whatsapp.
	Via string `json:"via"`
}

type RegisterResponse struct {
	User   User   `json:"user"`
	SentTo string `json:"sent_to"`
}

func (RegisterResponse) Message() string { return "Registration created, verification code sent." }

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

type CodeSendRequest struct {
	Identifier string `json:"identifier"`
	Via        string `json:"via"`
}

// CodeSentResponse names the address to submit the code for.
type CodeSentResponse struct {
	SentTo string `json:"sent_to"`
}

func (CodeSentResponse) Message() string { return "Verification code sent." }

type CodeVerifyRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

type RegisterVerifyResponse struct {
	User User `json:"user"`
}

func (RegisterVerifyResponse) Message() string { return "Account verified." }

type LoginVerifyResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserListResponse struct {
	Users []User `json:"users"`

	total int64
	page  int32
	size  int32
}

func (r UserListResponse) Meta() map[string]any {
	return map[string]any{"total": r.total, "page": r.page, "size": r.size}
}

type UserUpdateRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) StatusCode() int { return http.StatusNoContent }
