package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// SessionRepository implements the session repository interface using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID finds a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	var session entities.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return &session, nil
}

// FindByUserID finds all live sessions for a user
func (r *SessionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	var sessions []*entities.Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to find sessions by user ID: %w", err)
	}
	return sessions, nil
}

// RotateRefreshToken stores a new refresh token hash for a live session
func (r *SessionRepository) RotateRefreshToken(ctx context.Context, sessionID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"refresh_token_hash": tokenHash,
			"expires_at":         expiresAt,
			"last_used_at":       now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrSessionNotFound
	}
	return nil
}

// UpdateLastUsed updates the last used timestamp
func (r *SessionRepository) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ?", sessionID).
		Update("last_used_at", time.Now()).Error; err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}
	return nil
}

// Revoke revokes a session
func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID, reason string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at": time.Now(),
			"end_reason": reason,
		}).Error; err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAllByUserID revokes all sessions for a user
func (r *SessionRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, reason string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{
			"revoked_at": time.Now(),
			"end_reason": reason,
		}).Error; err != nil {
		return fmt.Errorf("failed to revoke all sessions: %w", err)
	}
	return nil
}

// FindExpired lists unrevoked sessions that expired before the given time
func (r *SessionRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]*entities.Session, error) {
	var sessions []*entities.Session
	if err := r.db.WithContext(ctx).
		Where("revoked_at IS NULL AND expires_at < ?", before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to find expired sessions: %w", err)
	}
	return sessions, nil
}

// CleanupOldSessions removes old revoked or expired sessions
func (r *SessionRepository) CleanupOldSessions(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(revoked_at IS NOT NULL AND revoked_at < ?) OR expires_at < ?", before, before).
		Delete(&entities.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
