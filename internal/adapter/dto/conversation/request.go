package conversation

import "time"

// ScheduleRequest books a chat with another teacher
type ScheduleRequest struct {
	TeacherID   string    `json:"teacher_id" validate:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}
