package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// PostFilter selects posts for listing.
type PostFilter struct {
	// ViewerID, when set, also includes the viewer's own unapproved posts.
	ViewerID *uuid.UUID
	// Pending lists only unapproved posts (moderation view).
	Pending bool
	Limit   int
	Offset  int
}

// PostRepository defines data access for posts
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error

	// CreateBatch inserts all posts in one transaction. Either every post is
	// stored or none is.
	CreateBatch(ctx context.Context, posts []*entities.Post) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*entities.Post, error)
	Approve(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)
}
