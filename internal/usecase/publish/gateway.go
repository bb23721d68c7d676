// Package publish stores confirmed post suggestions.
package publish

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

// Gateway writes confirmed suggestions as AI-generated, unapproved posts.
type Gateway struct {
	posts  repositories.PostRepository
	logger *zap.Logger
}

func NewGateway(posts repositories.PostRepository, logger *zap.Logger) *Gateway {
	return &Gateway{posts: posts, logger: logger}
}

// Publish stores one post per suggestion in a single batch, authored by author.
// The identity check happens before anything is written.
func (g *Gateway) Publish(ctx context.Context, author *session.Identity, suggestions []entities.PostSuggestion) ([]*entities.Post, error) {
	if author == nil || author.UserID == uuid.Nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}
	if len(suggestions) == 0 {
		return nil, usecaseErrors.ErrEmptySelection
	}

	posts := make([]*entities.Post, 0, len(suggestions))
	for i, s := range suggestions {
		post := entities.NewPost(author.UserID, s.Content, s.PostType, true)
		if err := post.Validate(); err != nil {
			return nil, fmt.Errorf("%w: suggestion %d: %v", usecaseErrors.ErrInvalidInput, i, err)
		}
		posts = append(posts, post)
	}

	if err := g.posts.CreateBatch(ctx, posts); err != nil {
		if g.logger != nil {
			g.logger.Error("failed to publish posts",
				zap.String("teacher_id", author.UserID.String()),
				zap.Int("count", len(posts)),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrPersistenceFailed, err)
	}

	if g.logger != nil {
		g.logger.Info("posts published",
			zap.String("teacher_id", author.UserID.String()),
			zap.Int("count", len(posts)),
		)
	}
	return posts, nil
}
