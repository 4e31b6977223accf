package event

const UserVerifiedDestination string = "identity.user_verified"

type UserVerifiedMessage struct {
	UserID     int64  `json:"user_id,string"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	VerifiedAt int64  `json:"verified_at"`
}
