package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	convDTO "github.com/sideby/teachconnect/internal/adapter/dto/conversation"
	"github.com/sideby/teachconnect/internal/adapter/presenter"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	"github.com/sideby/teachconnect/internal/usecase/conversation"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

// ConversationService books chats and admits members to their rooms
type ConversationService interface {
	Schedule(ctx context.Context, requester *session.Identity, invitee uuid.UUID, scheduledAt time.Time) (*conversation.Scheduled, error)
	List(ctx context.Context, identity *session.Identity) ([]*entities.Conversation, error)
	Join(ctx context.Context, identity *session.Identity, id uuid.UUID) (*conversation.JoinInfo, error)
}

// Conversation serves the connect endpoints
type Conversation struct {
	svc    ConversationService
	logger *zap.Logger
}

func NewConversation(svc ConversationService, logger *zap.Logger) *Conversation {
	return &Conversation{svc: svc, logger: logger}
}

// Schedule POST /v1/conversations
func (h *Conversation) Schedule(c echo.Context) error {
	var req convDTO.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	booked, err := h.svc.Schedule(c.Request().Context(), middleware.Identity(c), uuid.MustParse(req.TeacherID), req.ScheduledAt)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, &convDTO.ScheduleResponse{
		Success:      true,
		MeetingLink:  booked.MeetingLink,
		EventID:      booked.EventID,
		Conversation: presenter.ToConversationResponse(booked.Conversation),
	})
}

// List GET /v1/conversations
func (h *Conversation) List(c echo.Context) error {
	convs, err := h.svc.List(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToConversationList(convs))
}

// Join POST /v1/conversations/:id/join
func (h *Conversation) Join(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	info, err := h.svc.Join(c.Request().Context(), middleware.Identity(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToJoinResponse(info))
}
