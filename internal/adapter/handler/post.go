package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/errors"
	commonDTO "github.com/sideby/teachconnect/internal/adapter/dto/common"
	postDTO "github.com/sideby/teachconnect/internal/adapter/dto/post"
	"github.com/sideby/teachconnect/internal/adapter/presenter"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	"github.com/sideby/teachconnect/internal/usecase/post"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

var errInvalidID = errors.ErrInvalidArgument("id must be a valid UUID")

// PostService is the feed and moderation surface
type PostService interface {
	List(ctx context.Context, viewer *session.Identity, page post.Page) ([]*entities.Post, error)
	Create(ctx context.Context, author *session.Identity, content string) (*entities.Post, error)
	Like(ctx context.Context, id uuid.UUID) (int, error)
	Pending(ctx context.Context, moderator *session.Identity, page post.Page) ([]*entities.Post, error)
	Approve(ctx context.Context, moderator *session.Identity, id uuid.UUID) error
}

// Post serves the feed endpoints
type Post struct {
	svc    PostService
	logger *zap.Logger
}

func NewPost(svc PostService, logger *zap.Logger) *Post {
	return &Post{svc: svc, logger: logger}
}

// List GET /v1/posts
func (h *Post) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	posts, err := h.svc.List(c.Request().Context(), middleware.Identity(c), page)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, pageOf(presenter.ToPostList(posts), page, len(posts)))
}

// Create POST /v1/posts
func (h *Post) Create(c echo.Context) error {
	var req postDTO.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	p, err := h.svc.Create(c.Request().Context(), middleware.Identity(c), req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToPostResponse(p))
}

// Like POST /v1/posts/:id/like
func (h *Post) Like(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	n, err := h.svc.Like(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &postDTO.LikeResponse{LikesCount: n})
}

// Pending lists posts waiting for approval
// GET /v1/admin/posts?status=pending
func (h *Post) Pending(c echo.Context) error {
	if status := c.QueryParam("status"); status != "" && status != "pending" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("status must be pending"))
	}
	page, err := bindPage(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	posts, err := h.svc.Pending(c.Request().Context(), middleware.Identity(c), page)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, pageOf(presenter.ToPostList(posts), page, len(posts)))
}

// Approve POST /v1/admin/posts/:id/approve
func (h *Post) Approve(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.Approve(c.Request().Context(), middleware.Identity(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]bool{"approved": true})
}

func bindPage(c echo.Context) (post.Page, error) {
	var q commonDTO.PageQuery
	if err := c.Bind(&q); err != nil {
		return post.Page{}, err
	}
	if err := c.Validate(&q); err != nil {
		return post.Page{}, err
	}
	return post.Page{Limit: q.Limit, Offset: q.Offset}, nil
}

func pageOf(items interface{}, page post.Page, count int) *commonDTO.ListResponse {
	return &commonDTO.ListResponse{
		Items:      items,
		Pagination: &commonDTO.PaginationResponse{Limit: page.Limit, Offset: page.Offset, Count: count},
	}
}
