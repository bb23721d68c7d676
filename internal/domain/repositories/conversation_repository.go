package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// ConversationRepository defines data access for connect chats
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entities.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit int) ([]*entities.Conversation, error)
	SetRoomName(ctx context.Context, id uuid.UUID, roomName string) error

	// CompleteEndedBefore marks scheduled chats that ended before cutoff as completed
	CompleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
