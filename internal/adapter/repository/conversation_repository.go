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

// ConversationRepository implements the conversation repository interface using GORM
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *entities.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	var conversation entities.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation by ID: %w", err)
	}
	return &conversation, nil
}

// ListByTeacher lists conversations where the teacher is either member
func (r *ConversationRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit int) ([]*entities.Conversation, error) {
	var conversations []*entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("teacher1_id = ? OR teacher2_id = ?", teacherID, teacherID).
		Order("scheduled_at DESC").
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) SetRoomName(ctx context.Context, id uuid.UUID, roomName string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"room_name":  roomName,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to set room name: %w", err)
	}
	return nil
}

// CompleteEndedBefore completes scheduled chats whose 20 minutes ended before cutoff
func (r *ConversationRepository) CompleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("status = ? AND scheduled_at < ?", entities.ConversationScheduled, cutoff.Add(-entities.ConversationDuration)).
		Updates(map[string]interface{}{
			"status":     entities.ConversationCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to complete conversations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
