package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	suggestionDTO "github.com/sideby/teachconnect/internal/adapter/dto/suggestion"
	"github.com/sideby/teachconnect/internal/adapter/presenter"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	"github.com/sideby/teachconnect/internal/usecase/intake"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/internal/usecase/transcript"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

const transcriptField = "file"

// TranscriptProcessor runs an upload through intake and analysis
type TranscriptProcessor interface {
	Process(ctx context.Context, ownerKey string, file *intake.File) (*transcript.Result, error)
}

// SuggestionWorkflow is the pending suggestion review
type SuggestionWorkflow interface {
	View(ctx context.Context, key string) (*workflow.View, error)
	Toggle(ctx context.Context, key string, index int) (*workflow.View, error)
	Confirm(ctx context.Context, key string, author *session.Identity) ([]*entities.Post, error)
	Cancel(ctx context.Context, key string) error
	Adopt(ctx context.Context, from, to string) (bool, error)
}

// Transcript serves the upload and suggestion review endpoints
type Transcript struct {
	transcripts TranscriptProcessor
	workflow    SuggestionWorkflow
	cookies     CookieConfig
	logger      *zap.Logger
}

func NewTranscript(transcripts TranscriptProcessor, wf SuggestionWorkflow, cookies CookieConfig, logger *zap.Logger) *Transcript {
	return &Transcript{transcripts: transcripts, workflow: wf, cookies: cookies, logger: logger}
}

// Upload analyzes a transcript and opens its suggestions for review
// POST /v1/transcripts
func (h *Transcript) Upload(c echo.Context) error {
	key := h.ownerKey(c, true)

	var file *intake.File
	fh, err := c.FormFile(transcriptField)
	switch {
	case err == nil:
		src, err := fh.Open()
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		defer src.Close()
		file = &intake.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     src,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// intake reports the missing file
	default:
		return HandleError(h.logger, c, err)
	}

	result, err := h.transcripts.Process(c.Request().Context(), key, file)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToUploadResponse(result))
}

// Pending returns the review state
// GET /v1/suggestions
func (h *Transcript) Pending(c echo.Context) error {
	key := h.ownerKey(c, false)
	if key == "" {
		return HandleSuccess(h.logger, c, presenter.ToPendingResponse(nil))
	}
	view, err := h.workflow.View(c.Request().Context(), key)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPendingResponse(view))
}

// Toggle flips the selection of one suggestion
// POST /v1/suggestions/toggle
func (h *Transcript) Toggle(c echo.Context) error {
	var req suggestionDTO.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	view, err := h.workflow.Toggle(c.Request().Context(), h.ownerKey(c, false), *req.Index)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPendingResponse(view))
}

// Confirm publishes the selected suggestions as posts
// POST /v1/suggestions/confirm
func (h *Transcript) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := h.workflow.Confirm(ctx, h.ownerKey(c, false), middleware.Identity(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToConfirmResponse(posts))
}

// Cancel dismisses the pending suggestions
// DELETE /v1/suggestions
func (h *Transcript) Cancel(c echo.Context) error {
	if key := h.ownerKey(c, false); key != "" {
		if err := h.workflow.Cancel(c.Request().Context(), key); err != nil {
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, presenter.ToPendingResponse(nil))
}

// ownerKey keys the caller's pending set. Signed-in callers first adopt what
// they produced anonymously. create issues a workspace to anonymous callers
// that have none.
func (h *Transcript) ownerKey(c echo.Context, create bool) string {
	identity := middleware.Identity(c)

	workspace := ""
	if cookie, err := c.Cookie(WorkspaceCookie); err == nil {
		workspace = cookie.Value
	}

	if identity != nil {
		key := workflow.OwnerKey(identity, "")
		if workspace != "" {
			moved, err := h.workflow.Adopt(c.Request().Context(), workflow.OwnerKey(nil, workspace), key)
			switch {
			case err != nil:
				if h.logger != nil {
					h.logger.Warn("failed to adopt workspace suggestions", zap.String("owner", key), zap.Error(err))
				}
			case moved:
				DeleteCookie(c, h.cookies, WorkspaceCookie)
			}
		}
		return key
	}

	if workspace == "" && create {
		workspace = uuid.NewString()
		SetCookie(c, h.cookies, WorkspaceCookie, workspace, workspaceCookieAge)
	}
	return workflow.OwnerKey(nil, workspace)
}
