package auth

import "time"

// UserResponse represents user information in responses
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	OAuthProvider string     `json:"oauth_provider,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LoginURLResponse carries the provider authorization URL
type LoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AuthResponse represents the authentication response with tokens
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int           `json:"expires_in"` // seconds
	TokenType    string        `json:"token_type"` // "Bearer"
	User         *UserResponse `json:"user"`
}

// SessionStatusResponse answers the initial session check of a client
type SessionStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// SessionSignalResponse tells the provider whether the signal changed anything
type SessionSignalResponse struct {
	Applied bool `json:"applied"`
}
