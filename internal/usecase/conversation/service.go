// Package conversation schedules 20-minute chats between two teachers and
// admits members to the chat's video room.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/infrastructure/external/calendar"
	"github.com/sideby/teachconnect/internal/infrastructure/external/livekit"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

const (
	eventDescription = "A 20-minute conversation between teachers on sideby."

	defaultListLimit = 50
	// slack before a start time counts as in the past
	pastTolerance = time.Minute
	// a join token stays valid this long past the scheduled end
	joinGrace = 10 * time.Minute
)

// EventScheduler creates calendar events. Implemented by calendar.Client.
type EventScheduler interface {
	CreateEvent(ctx context.Context, req calendar.EventRequest) (*calendar.Event, error)
}

// Scheduled is a newly booked chat.
type Scheduled struct {
	Conversation *entities.Conversation
	MeetingLink  string
	EventID      string
}

// JoinInfo admits one member to the chat room.
type JoinInfo struct {
	Room      string
	Token     string
	ServerURL string
}

type Service struct {
	conversations repositories.ConversationRepository
	teachers      repositories.TeacherRepository
	users         repositories.UserRepository
	events        EventScheduler
	rooms         livekit.RoomService
	now           func() time.Time
	logger        *zap.Logger
}

// NewService wires the connect flow. events may be nil when no calendar
// credentials are configured; chats are then booked without an event.
func NewService(
	conversations repositories.ConversationRepository,
	teachers repositories.TeacherRepository,
	users repositories.UserRepository,
	events EventScheduler,
	rooms livekit.RoomService,
	logger *zap.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		teachers:      teachers,
		users:         users,
		events:        events,
		rooms:         rooms,
		now:           time.Now,
		logger:        logger,
	}
}

// Schedule books a chat between the caller and invitee.
func (s *Service) Schedule(ctx context.Context, requester *session.Identity, invitee uuid.UUID, scheduledAt time.Time) (*Scheduled, error) {
	if requester == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}
	if requester.UserID == invitee {
		return nil, usecaseErrors.ErrCannotConnectSelf
	}
	if scheduledAt.Before(s.now().Add(-pastTolerance)) {
		return nil, usecaseErrors.ErrScheduledInPast
	}

	a, err := s.teachers.FindByID(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrTeacherNotFound) {
			return nil, usecaseErrors.ErrProfileRequired
		}
		return nil, err
	}
	b, err := s.teachers.FindByID(ctx, invitee)
	if err != nil {
		if errors.Is(err, entities.ErrTeacherNotFound) {
			return nil, usecaseErrors.ErrTeacherNotFound
		}
		return nil, err
	}

	conv := entities.NewConversation(a.ID, b.ID, scheduledAt)
	result := &Scheduled{Conversation: conv}

	if s.events != nil {
		attendees, err := s.emails(ctx, a.ID, b.ID)
		if err != nil {
			return nil, err
		}
		event, err := s.events.CreateEvent(ctx, calendar.EventRequest{
			Summary:     fmt.Sprintf("20min Chat: %s & %s", a.FullName, b.FullName),
			Description: eventDescription,
			Start:       conv.ScheduledAt,
			Duration:    entities.ConversationDuration,
			Attendees:   attendees,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrCalendarFailed, err)
		}

		result.EventID = event.ID
		result.MeetingLink = event.HangoutLink
		if result.MeetingLink == "" {
			result.MeetingLink = event.HTMLLink
		}
		conv.CalendarEventID = &result.EventID
		if result.MeetingLink != "" {
			conv.MeetingLink = &result.MeetingLink
		}
		if meta, err := json.Marshal(map[string]string{"calendar_html_link": event.HTMLLink}); err == nil {
			conv.Metadata = datatypes.JSON(meta)
		}
	}

	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Conversation scheduled",
			zap.String("conversation_id", conv.ID.String()),
			zap.Time("scheduled_at", conv.ScheduledAt),
			zap.Bool("calendar_event", result.EventID != ""),
		)
	}
	return result, nil
}

func (s *Service) emails(ctx context.Context, ids ...uuid.UUID) ([]string, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %w", err)
	}
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Email)
	}
	return out, nil
}

// List returns the caller's chats, latest slot first.
func (s *Service) List(ctx context.Context, identity *session.Identity) ([]*entities.Conversation, error) {
	if identity == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}
	return s.conversations.ListByTeacher(ctx, identity.UserID, defaultListLimit)
}

// Join opens (idempotently) the chat room and returns a token for the caller.
func (s *Service) Join(ctx context.Context, identity *session.Identity, id uuid.UUID) (*JoinInfo, error) {
	if identity == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}

	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrConversationNotFound) {
			return nil, usecaseErrors.ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.HasMember(identity.UserID) {
		return nil, usecaseErrors.ErrNotConversationMember
	}
	if conv.Status == entities.ConversationCancelled {
		return nil, usecaseErrors.ErrConversationClosed
	}

	roomName := conv.DefaultRoomName()
	if conv.RoomName != nil && *conv.RoomName != "" {
		roomName = *conv.RoomName
	}

	opts := livekit.DefaultRoomOptions()
	opts.Metadata = conv.ID.String()
	if _, err := s.rooms.EnsureRoom(ctx, roomName, opts); err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrRoomFailed, err)
	}
	if conv.RoomName == nil {
		if err := s.conversations.SetRoomName(ctx, conv.ID, roomName); err != nil {
			return nil, err
		}
	}

	name := identity.Email
	if t, err := s.teachers.FindByID(ctx, identity.UserID); err == nil && t.FullName != "" {
		name = t.FullName
	}

	validFor := conv.EndsAt().Add(joinGrace).Sub(s.now())
	if validFor < joinGrace {
		validFor = joinGrace
	}
	token, err := s.rooms.JoinToken(livekit.JoinGrant{
		Room:     roomName,
		Identity: identity.UserID.String(),
		Name:     name,
		ValidFor: validFor,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrRoomFailed, err)
	}

	return &JoinInfo{Room: roomName, Token: token, ServerURL: s.rooms.URL()}, nil
}
