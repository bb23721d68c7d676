package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
)

// EventStream upgrades a request to the session notice channel
type EventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, userID, sessionID uuid.UUID) error
}

// Events pushes session notices to signed-in clients
type Events struct {
	stream EventStream
	logger *zap.Logger
}

func NewEvents(stream EventStream, logger *zap.Logger) *Events {
	return &Events{stream: stream, logger: logger}
}

// Subscribe blocks for the lifetime of the websocket
// GET /v1/events
func (h *Events) Subscribe(c echo.Context) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return HandleError(h.logger, c, usecaseErrors.ErrNotAuthenticated)
	}

	// the upgrader writes its own response on failure
	if err := h.stream.Serve(c.Response(), c.Request(), identity.UserID, identity.SessionID); err != nil && h.logger != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("user_id", identity.UserID.String()), zap.Error(err))
	}
	return nil
}
