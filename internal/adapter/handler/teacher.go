package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	teacherDTO "github.com/sideby/teachconnect/internal/adapter/dto/teacher"
	"github.com/sideby/teachconnect/internal/adapter/presenter"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/internal/usecase/teacher"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

const avatarField = "avatar"

// TeacherService manages profiles and follows
type TeacherService interface {
	UpsertProfile(ctx context.Context, identity *session.Identity, in teacher.ProfileInput) (*entities.Teacher, error)
	Get(ctx context.Context, viewer *session.Identity, id uuid.UUID) (*teacher.Profile, error)
	Discover(ctx context.Context, query string, limit int) ([]*entities.Teacher, error)
	UploadAvatar(ctx context.Context, identity *session.Identity, avatar teacher.Avatar) (string, error)
	Follow(ctx context.Context, identity *session.Identity, target uuid.UUID) error
	Unfollow(ctx context.Context, identity *session.Identity, target uuid.UUID) error
	ApplySuggestion(ctx context.Context, identity *session.Identity, ownerKey string) (*entities.Teacher, error)
}

// Teacher serves profile, avatar and follow endpoints
type Teacher struct {
	svc    TeacherService
	logger *zap.Logger
}

func NewTeacher(svc TeacherService, logger *zap.Logger) *Teacher {
	return &Teacher{svc: svc, logger: logger}
}

// UpsertMe creates or replaces the caller's profile
// PUT /v1/teachers/me
func (h *Teacher) UpsertMe(c echo.Context) error {
	var req teacherDTO.UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.svc.UpsertProfile(c.Request().Context(), middleware.Identity(c), teacher.ProfileInput{
		FullName:        req.FullName,
		Title:           req.Title,
		School:          req.School,
		ExperienceYears: req.ExperienceYears,
		Subjects:        req.Subjects,
		Bio:             req.Bio,
		Stance:          req.Stance,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTeacherResponse(t))
}

// Get returns one profile with follow counts
// GET /v1/teachers/:id
func (h *Teacher) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	p, err := h.svc.Get(c.Request().Context(), middleware.Identity(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToProfileResponse(p))
}

// Discover searches teachers
// GET /v1/teachers
func (h *Teacher) Discover(c echo.Context) error {
	var q teacherDTO.DiscoverQuery
	if err := c.Bind(&q); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&q); err != nil {
		return HandleError(h.logger, c, err)
	}

	ts, err := h.svc.Discover(c.Request().Context(), q.Query, q.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTeacherList(ts))
}

// UploadAvatar stores a profile image
// POST /v1/teachers/me/avatar
func (h *Teacher) UploadAvatar(c echo.Context) error {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		return HandleError(h.logger, c, usecaseErrors.ErrNoFileSelected)
	}
	if fh.Size > teacher.MaxAvatarBytes {
		return HandleError(h.logger, c, usecaseErrors.ErrImageTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer src.Close()

	url, err := h.svc.UploadAvatar(c.Request().Context(), middleware.Identity(c), teacher.Avatar{
		Name:    fh.Filename,
		Content: src,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &teacherDTO.AvatarResponse{AvatarURL: url})
}

// ApplySuggestion fills the profile from the last analyzed transcript
// POST /v1/teachers/me/apply-suggestion
func (h *Teacher) ApplySuggestion(c echo.Context) error {
	identity := middleware.Identity(c)
	t, err := h.svc.ApplySuggestion(c.Request().Context(), identity, workflow.OwnerKey(identity, ""))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTeacherResponse(t))
}

// Follow POST /v1/teachers/:id/follow
func (h *Teacher) Follow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.Follow(c.Request().Context(), middleware.Identity(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, map[string]bool{"following": true})
}

// Unfollow DELETE /v1/teachers/:id/follow
func (h *Teacher) Unfollow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.Unfollow(c.Request().Context(), middleware.Identity(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]bool{"following": false})
}

// pathID parses the :id route parameter
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}
