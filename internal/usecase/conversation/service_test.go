package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/infrastructure/external/calendar"
	"github.com/sideby/teachconnect/internal/infrastructure/external/livekit"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

type fakeConversations struct {
	repositories.ConversationRepository
	byID  map[uuid.UUID]*entities.Conversation
	rooms map[uuid.UUID]string
}

func (f *fakeConversations) Create(_ context.Context, c *entities.Conversation) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConversations) FindByID(_ context.Context, id uuid.UUID) (*entities.Conversation, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, entities.ErrConversationNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversations) SetRoomName(_ context.Context, id uuid.UUID, name string) error {
	f.rooms[id] = name
	f.byID[id].RoomName = &name
	return nil
}

type fakeTeachers struct {
	repositories.TeacherRepository
	byID map[uuid.UUID]*entities.Teacher
}

func (f *fakeTeachers) FindByID(_ context.Context, id uuid.UUID) (*entities.Teacher, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, entities.ErrTeacherNotFound
}

type fakeUsers struct {
	repositories.UserRepository
	byID map[uuid.UUID]*entities.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error) {
	out := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		u, err := f.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeEvents struct {
	requests []calendar.EventRequest
	err      error
}

func (f *fakeEvents) CreateEvent(_ context.Context, req calendar.EventRequest) (*calendar.Event, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.Event{ID: "evt-1", HangoutLink: "https://meet.google.com/abc-defg-hij"}, nil
}

type fixture struct {
	conversations *fakeConversations
	teachers      *fakeTeachers
	users         *fakeUsers
	events        *fakeEvents
	rooms         livekit.RoomService
	a, b          *session.Identity
}

func newFixture() *fixture {
	f := &fixture{
		conversations: &fakeConversations{byID: map[uuid.UUID]*entities.Conversation{}, rooms: map[uuid.UUID]string{}},
		teachers:      &fakeTeachers{byID: map[uuid.UUID]*entities.Teacher{}},
		users:         &fakeUsers{byID: map[uuid.UUID]*entities.User{}},
		events:        &fakeEvents{},
		rooms:         livekit.NewRoomService("ws://localhost:7880", "devkey", "devsecret-devsecret-devsecret-00", true),
	}
	f.a = f.addTeacher("Ada Lovelace", "ada@school.org")
	f.b = f.addTeacher("Grace Hopper", "grace@school.org")
	return f
}

func (f *fixture) addTeacher(name, email string) *session.Identity {
	u := entities.NewUser(email, name)
	f.users.byID[u.ID] = u
	f.teachers.byID[u.ID] = entities.NewTeacher(u.ID, name)
	return &session.Identity{UserID: u.ID, Email: email}
}

func (f *fixture) service(events EventScheduler) *Service {
	return NewService(f.conversations, f.teachers, f.users, events, f.rooms, nil)
}

func TestScheduleCreatesCalendarEvent(t *testing.T) {
	f := newFixture()
	svc := f.service(f.events)
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)

	got, err := svc.Schedule(context.Background(), f.a, f.b.UserID, at)
	require.NoError(t, err)

	require.Len(t, f.events.requests, 1)
	req := f.events.requests[0]
	assert.Equal(t, "20min Chat: Ada Lovelace & Grace Hopper", req.Summary)
	assert.Equal(t, "A 20-minute conversation between teachers on sideby.", req.Description)
	assert.Equal(t, 20*time.Minute, req.Duration)
	assert.Equal(t, []string{"ada@school.org", "grace@school.org"}, req.Attendees)
	assert.True(t, req.Start.Equal(at))

	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", got.MeetingLink)
	assert.Equal(t, entities.ConversationScheduled, got.Conversation.Status)
	assert.Equal(t, f.a.UserID, got.Conversation.Teacher1ID)
	assert.Equal(t, f.b.UserID, got.Conversation.Teacher2ID)
	require.NotNil(t, got.Conversation.CalendarEventID)
	assert.Equal(t, "evt-1", *got.Conversation.CalendarEventID)
	assert.Contains(t, f.conversations.byID, got.Conversation.ID)
}

func TestScheduleWithoutCalendar(t *testing.T) {
	f := newFixture()
	got, err := f.service(nil).Schedule(context.Background(), f.a, f.b.UserID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got.EventID)
	assert.Nil(t, got.Conversation.MeetingLink)
}

func TestScheduleRejects(t *testing.T) {
	f := newFixture()
	svc := f.service(f.events)
	ctx := context.Background()
	later := time.Now().Add(time.Hour)
	stranger := &session.Identity{UserID: uuid.New()}

	_, err := svc.Schedule(ctx, f.a, f.a.UserID, later)
	assert.ErrorIs(t, err, usecaseErrors.ErrCannotConnectSelf)

	_, err = svc.Schedule(ctx, f.a, f.b.UserID, time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, usecaseErrors.ErrScheduledInPast)

	_, err = svc.Schedule(ctx, stranger, f.b.UserID, later)
	assert.ErrorIs(t, err, usecaseErrors.ErrProfileRequired)

	_, err = svc.Schedule(ctx, f.a, uuid.New(), later)
	assert.ErrorIs(t, err, usecaseErrors.ErrTeacherNotFound)

	_, err = svc.Schedule(ctx, nil, f.b.UserID, later)
	assert.ErrorIs(t, err, usecaseErrors.ErrNotAuthenticated)

	assert.Empty(t, f.conversations.byID)
}

func TestScheduleCalendarFailureStoresNothing(t *testing.T) {
	f := newFixture()
	f.events.err = &calendar.APIError{StatusCode: 403, Body: "forbidden"}

	_, err := f.service(f.events).Schedule(context.Background(), f.a, f.b.UserID, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, usecaseErrors.ErrCalendarFailed)
	assert.Empty(t, f.conversations.byID)
}

func TestJoin(t *testing.T) {
	f := newFixture()
	svc := f.service(nil)
	ctx := context.Background()

	booked, err := svc.Schedule(ctx, f.a, f.b.UserID, time.Now().Add(time.Minute))
	require.NoError(t, err)
	id := booked.Conversation.ID

	first, err := svc.Join(ctx, f.a, id)
	require.NoError(t, err)
	assert.Equal(t, "conv-"+id.String(), first.Room)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "ws://localhost:7880", first.ServerURL)
	assert.Equal(t, first.Room, f.conversations.rooms[id])

	second, err := svc.Join(ctx, f.b, id)
	require.NoError(t, err)
	assert.Equal(t, first.Room, second.Room)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestJoinRejects(t *testing.T) {
	f := newFixture()
	svc := f.service(nil)
	ctx := context.Background()

	booked, err := svc.Schedule(ctx, f.a, f.b.UserID, time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = svc.Join(ctx, &session.Identity{UserID: uuid.New()}, booked.Conversation.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrNotConversationMember)

	_, err = svc.Join(ctx, f.a, uuid.New())
	assert.ErrorIs(t, err, usecaseErrors.ErrConversationNotFound)

	f.conversations.byID[booked.Conversation.ID].Status = entities.ConversationCancelled
	_, err = svc.Join(ctx, f.a, booked.Conversation.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrConversationClosed)
}
