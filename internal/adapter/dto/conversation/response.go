package conversation

import "time"

// ConversationResponse represents a scheduled chat
type ConversationResponse struct {
	ID              string    `json:"id"`
	Teacher1ID      string    `json:"teacher1_id"`
	Teacher2ID      string    `json:"teacher2_id"`
	Status          string    `json:"status"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	EndsAt          time.Time `json:"ends_at"`
	MeetingLink     string    `json:"meeting_link,omitempty"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	RoomName        string    `json:"room_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// JoinResponse admits the caller to the chat's video room
type JoinResponse struct {
	Room      string `json:"room"`
	Token     string `json:"token"`
	ServerURL string `json:"server_url"`
}

// ScheduleResponse is returned when a chat is booked
type ScheduleResponse struct {
	Success      bool                  `json:"success"`
	MeetingLink  string                `json:"meetingLink,omitempty"`
	EventID      string                `json:"eventId,omitempty"`
	Conversation *ConversationResponse `json:"conversation"`
}
