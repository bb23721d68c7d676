package auth

// RefreshTokenRequest represents the request to refresh access token.
// The refresh_token cookie is used when the body omits it.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CallbackQuery is the provider redirect back to the API
type CallbackQuery struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
}

// SessionSignalRequest is a session lifecycle event pushed by the identity
// provider. An empty session_id addresses every session of the user.
type SessionSignalRequest struct {
	ID        string `json:"id" validate:"required"`
	UserID    string `json:"user_id" validate:"required,uuid"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	Live      bool   `json:"live"`
	Reason    string `json:"reason,omitempty" validate:"omitempty,oneof=logout expired revoked signed_out"`
}
