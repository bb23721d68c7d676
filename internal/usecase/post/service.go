package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	posts  repositories.PostRepository
	logger *zap.Logger
}

func NewService(posts repositories.PostRepository, logger *zap.Logger) *Service {
	return &Service{posts: posts, logger: logger}
}

// Page selects a window of a listing.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// List returns approved posts, plus the viewer's own unapproved ones when
// signed in.
func (s *Service) List(ctx context.Context, viewer *session.Identity, page Page) ([]*entities.Post, error) {
	page = page.normalize()
	filter := repositories.PostFilter{Limit: page.Limit, Offset: page.Offset}
	if viewer != nil {
		id := viewer.UserID
		filter.ViewerID = &id
	}
	return s.posts.List(ctx, filter)
}

// Create stores a manual short post awaiting approval.
func (s *Service) Create(ctx context.Context, author *session.Identity, content string) (*entities.Post, error) {
	if author == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, usecaseErrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > entities.MaxShortPostLength {
		return nil, fmt.Errorf("%w: short posts are limited to %d characters", usecaseErrors.ErrInvalidInput, entities.MaxShortPostLength)
	}

	p := entities.NewPost(author.UserID, content, entities.PostTypeShort, false)
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Like increments the like count and returns the new value.
func (s *Service) Like(ctx context.Context, id uuid.UUID) (int, error) {
	n, err := s.posts.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrPostNotFound) {
			return 0, usecaseErrors.ErrPostNotFound
		}
		return 0, err
	}
	return n, nil
}

// Pending lists unapproved posts for moderators.
func (s *Service) Pending(ctx context.Context, moderator *session.Identity, page Page) ([]*entities.Post, error) {
	if err := requireModerator(moderator); err != nil {
		return nil, err
	}
	page = page.normalize()
	return s.posts.List(ctx, repositories.PostFilter{Pending: true, Limit: page.Limit, Offset: page.Offset})
}

// Approve makes a post visible to everyone.
func (s *Service) Approve(ctx context.Context, moderator *session.Identity, id uuid.UUID) error {
	if err := requireModerator(moderator); err != nil {
		return err
	}
	if err := s.posts.Approve(ctx, id); err != nil {
		if errors.Is(err, entities.ErrPostNotFound) {
			return usecaseErrors.ErrPostNotFound
		}
		return err
	}
	if s.logger != nil {
		s.logger.Info("Post approved",
			zap.String("post_id", id.String()),
			zap.String("moderator_id", moderator.UserID.String()),
		)
	}
	return nil
}

func requireModerator(identity *session.Identity) error {
	if identity == nil {
		return usecaseErrors.ErrNotAuthenticated
	}
	if !identity.IsModerator() {
		return usecaseErrors.ErrForbidden
	}
	return nil
}
