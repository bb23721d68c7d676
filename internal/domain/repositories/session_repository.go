package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)

	// FindByUserID finds all live sessions for a user
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error)

	// RotateRefreshToken replaces the stored refresh token hash and expiry
	RotateRefreshToken(ctx context.Context, sessionID uuid.UUID, tokenHash string, expiresAt time.Time) error

	// UpdateLastUsed updates the last used timestamp
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	// Revoke revokes a session. Revoking an already revoked session is a no-op.
	Revoke(ctx context.Context, sessionID uuid.UUID, reason string) error

	// RevokeAllByUserID revokes all sessions for a user
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, reason string) error

	// FindExpired returns unrevoked sessions whose expiry is before the given time
	FindExpired(ctx context.Context, before time.Time, limit int) ([]*entities.Session, error)

	// CleanupOldSessions removes old revoked or expired sessions
	CleanupOldSessions(ctx context.Context, before time.Time) (int64, error)
}
