package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/sideby/teachconnect/internal/adapter/dto/auth"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/pkg/signature"
)

const (
	SignatureHeader = "X-Signature"

	maxWebhookBody = 64 << 10
)

// SignalHandler applies identity provider session signals
type SignalHandler interface {
	Handle(ctx context.Context, sig session.Signal) (bool, error)
}

// WebhookHandler receives signed session events from the identity provider
type WebhookHandler struct {
	signals SignalHandler
	secret  string
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(signals SignalHandler, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{signals: signals, secret: secret, logger: logger}
}

// HandleSessionSignal verifies and applies one session event. Redelivered
// events are acknowledged without effect.
// POST /v1/auth/webhook
func (h *WebhookHandler) HandleSessionSignal(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err))
	}

	if !signature.VerifyHMAC(h.secret, body, c.Request().Header.Get(SignatureHeader)) {
		if h.logger != nil {
			h.logger.Warn("❌ Rejected session webhook", zap.String("ip", c.RealIP()))
		}
		return HandleError(h.logger, c, usecaseErrors.ErrInvalidSignature)
	}

	var req authDTO.SessionSignalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return HandleError(h.logger, c, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	sig := session.Signal{
		ID:     req.ID,
		UserID: uuid.MustParse(req.UserID),
		Live:   req.Live,
		Reason: req.Reason,
	}
	if req.SessionID != "" {
		sig.SessionID = uuid.MustParse(req.SessionID)
	}

	applied, err := h.signals.Handle(c.Request().Context(), sig)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("✅ Session webhook processed",
			zap.String("signal_id", sig.ID),
			zap.Bool("live", sig.Live),
			zap.Bool("applied", applied),
		)
	}
	return HandleSuccess(h.logger, c, &authDTO.SessionSignalResponse{Applied: applied})
}
