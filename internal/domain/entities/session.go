package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Session is one signed-in device of a user.
type Session struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string     `json:"-" gorm:"column:refresh_token_hash;type:varchar(64);uniqueIndex;not null"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"type:timestamp;not null;index"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty" gorm:"type:timestamp"`
	EndReason        *string    `json:"end_reason,omitempty" gorm:"type:varchar(50)"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty" gorm:"type:timestamp"`

	IPAddress *string `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	UserAgent *string `json:"user_agent,omitempty" gorm:"type:text"`
}

// NewSession creates a new session
func NewSession(userID uuid.UUID, expiresAt time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// HashRefreshToken returns the stored form of a refresh token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SetRefreshToken stores the hash of token.
func (s *Session) SetRefreshToken(token string) {
	s.RefreshTokenHash = HashRefreshToken(token)
}

// MatchesRefreshToken reports whether token is the current refresh token.
func (s *Session) MatchesRefreshToken(token string) bool {
	return s.RefreshTokenHash != "" && s.RefreshTokenHash == HashRefreshToken(token)
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if session is valid (not expired and not revoked)
func (s *Session) IsValid() bool {
	if s == nil {
		return false
	}
	return !s.IsExpired() && s.RevokedAt == nil
}

// Revoke ends the session with a reason.
func (s *Session) Revoke(reason string) {
	now := time.Now()
	s.RevokedAt = &now
	s.EndReason = &reason
}

func (s *Session) UpdateLastUsed() {
	now := time.Now()
	s.LastUsedAt = &now
}

// WithDeviceInfo adds device information
func (s *Session) WithDeviceInfo(ip, userAgent string) *Session {
	s.IPAddress = &ip
	s.UserAgent = &userAgent
	return s
}
