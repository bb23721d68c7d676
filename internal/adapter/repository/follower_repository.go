package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// FollowerRepository implements the follower repository interface using GORM
type FollowerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

// Create stores a follow; duplicates map to ErrFollowAlreadyExists
func (r *FollowerRepository) Create(ctx context.Context, follow *entities.Follower) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrFollowAlreadyExists
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes a follow
func (r *FollowerRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entities.Follower{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrFollowNotFound
	}
	return nil
}

// Exists reports whether followerID follows followingID
func (r *FollowerRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return count > 0, nil
}

// Stats counts followers and followings of a teacher
func (r *FollowerRepository) Stats(ctx context.Context, teacherID uuid.UUID) (*entities.FollowStats, error) {
	stats := &entities.FollowStats{}
	if err := r.db.WithContext(ctx).
		Model(&entities.Follower{}).
		Where("following_id = ?", teacherID).
		Count(&stats.Followers).Error; err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Follower{}).
		Where("follower_id = ?", teacherID).
		Count(&stats.Following).Error; err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	return stats, nil
}
