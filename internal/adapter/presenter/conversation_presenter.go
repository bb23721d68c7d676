package presenter

import (
	convDTO "github.com/sideby/teachconnect/internal/adapter/dto/conversation"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/usecase/conversation"
)

func ToConversationResponse(c *entities.Conversation) *convDTO.ConversationResponse {
	if c == nil {
		return nil
	}
	resp := &convDTO.ConversationResponse{
		ID:          c.ID.String(),
		Teacher1ID:  c.Teacher1ID.String(),
		Teacher2ID:  c.Teacher2ID.String(),
		Status:      string(c.Status),
		ScheduledAt: c.ScheduledAt,
		EndsAt:      c.EndsAt(),
		CreatedAt:   c.CreatedAt,
	}
	if c.MeetingLink != nil {
		resp.MeetingLink = *c.MeetingLink
	}
	if c.CalendarEventID != nil {
		resp.CalendarEventID = *c.CalendarEventID
	}
	if c.RoomName != nil {
		resp.RoomName = *c.RoomName
	}
	return resp
}

func ToConversationList(cs []*entities.Conversation) []*convDTO.ConversationResponse {
	out := make([]*convDTO.ConversationResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToConversationResponse(c))
	}
	return out
}

func ToJoinResponse(j *conversation.JoinInfo) *convDTO.JoinResponse {
	if j == nil {
		return nil
	}
	return &convDTO.JoinResponse{Room: j.Room, Token: j.Token, ServerURL: j.ServerURL}
}
