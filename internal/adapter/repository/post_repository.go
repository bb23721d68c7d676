package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
)

const defaultPostLimit = 50

// PostRepository implements the post repository interface using GORM
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a single post
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// CreateBatch inserts posts atomically
func (r *PostRepository) CreateBatch(ctx context.Context, posts []*entities.Post) error {
	if len(posts) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Author").Create(posts).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	return nil
}

// FindByID finds a post by ID
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Post, error) {
	var post entities.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}
	return &post, nil
}

// List returns posts visible under filter, newest first
func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*entities.Post, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPostLimit
	}

	q := r.db.WithContext(ctx).Preload("Author")
	switch {
	case filter.Pending:
		q = q.Where("is_approved = ?", false)
	case filter.ViewerID != nil:
		q = q.Where("is_approved = ? OR (teacher_id = ? AND is_approved = ?)", true, *filter.ViewerID, false)
	default:
		q = q.Where("is_approved = ?", true)
	}

	var posts []*entities.Post
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Approve flips the approval flag
func (r *PostRepository) Approve(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved": true,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to approve post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrPostNotFound
	}
	return nil
}

// IncrementLikes adds one like and returns the new count
func (r *PostRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	var post entities.Post
	result := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "likes_count"}}}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to like post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, entities.ErrPostNotFound
	}
	return post.LikesCount, nil
}
