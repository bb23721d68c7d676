package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConversationStatus is the lifecycle state of a connect chat.
type ConversationStatus string

const (
	ConversationScheduled ConversationStatus = "scheduled"
	ConversationCompleted ConversationStatus = "completed"
	ConversationCancelled ConversationStatus = "cancelled"
)

// ConversationDuration is the length of a connect chat.
const ConversationDuration = 20 * time.Minute

// Conversation is a scheduled 20-minute chat between two teachers.
type Conversation struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Teacher1ID      uuid.UUID          `json:"teacher1_id" gorm:"column:teacher1_id;type:uuid;not null;index"`
	Teacher2ID      uuid.UUID          `json:"teacher2_id" gorm:"column:teacher2_id;type:uuid;not null;index"`
	Status          ConversationStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	ScheduledAt     time.Time          `json:"scheduled_at" gorm:"type:timestamp;not null"`
	MeetingLink     *string            `json:"meeting_link,omitempty" gorm:"type:varchar(500)"`
	CalendarEventID *string            `json:"calendar_event_id,omitempty" gorm:"type:varchar(255)"`
	RoomName        *string            `json:"room_name,omitempty" gorm:"type:varchar(255)"`
	Metadata        datatypes.JSON     `json:"metadata,omitempty" gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func NewConversation(requester, invitee uuid.UUID, scheduledAt time.Time) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:          uuid.New(),
		Teacher1ID:  requester,
		Teacher2ID:  invitee,
		Status:      ConversationScheduled,
		ScheduledAt: scheduledAt.UTC(),
		Metadata:    datatypes.JSON("{}"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EndsAt is the scheduled end of the chat.
func (c *Conversation) EndsAt() time.Time {
	return c.ScheduledAt.Add(ConversationDuration)
}

func (c *Conversation) HasMember(userID uuid.UUID) bool {
	return c.Teacher1ID == userID || c.Teacher2ID == userID
}

// Other returns the member that is not userID.
func (c *Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.Teacher1ID == userID {
		return c.Teacher2ID
	}
	return c.Teacher1ID
}

// DefaultRoomName is the LiveKit room used for the chat.
func (c *Conversation) DefaultRoomName() string {
	return "conv-" + c.ID.String()
}
