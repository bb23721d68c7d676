package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is an account known to the identity provider.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	Role     UserRole  `json:"role" gorm:"type:varchar(50);default:'teacher';not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// OAuth fields
	OAuthProvider *string `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;type:varchar(50);index:idx_oauth"`
	OAuthID       *string `json:"oauth_id,omitempty" gorm:"column:oauth_id;type:varchar(255);index:idx_oauth"`

	AvatarURL       *string    `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false;not null"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserRole defines user roles
type UserRole string

const (
	RoleTeacher   UserRole = "teacher"
	RoleModerator UserRole = "moderator"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleTeacher, RoleModerator:
		return true
	}
	return false
}

// NewUser creates a new user with default values
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      RoleTeacher,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewOAuthUser creates a new user from OAuth provider
func NewOAuthUser(email, name, provider, oauthID string) *User {
	user := NewUser(email, name)
	user.OAuthProvider = &provider
	user.OAuthID = &oauthID
	user.IsEmailVerified = true
	return user
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Name == "" {
		return ErrInvalidName
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}
