package inbound

type RequestCodeRequest struct {
	Identifier string `json:"identifier"`
	// Channel is one of email, sms or whatsapp. Empty infers it from the identifier.
	Channel string `json:"channel"`
}

type RequestCodeResponse struct {
	Channel          string `json:"channel,omitempty"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

func (RequestCodeResponse) Message() string {
	return "Verification code sent."
}

type SubmitCodeRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

type SubmitCodeResponse struct {
	Verified bool `json:"verified"`
}

func (SubmitCodeResponse) Message() string {
	return "Verification successful."
}
