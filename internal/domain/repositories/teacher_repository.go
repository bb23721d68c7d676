package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// TeacherRepository defines data access for teacher profiles
type TeacherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Teacher, error)

	// Upsert creates the profile or replaces its editable fields
	Upsert(ctx context.Context, teacher *entities.Teacher) error

	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error

	// Search matches query against full name, school and subjects. An empty
	// query lists the newest profiles.
	Search(ctx context.Context, query string, limit int) ([]*entities.Teacher, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// FollowerRepository defines data access for follows
type FollowerRepository interface {
	// Create returns entities.ErrFollowAlreadyExists on a duplicate pair
	Create(ctx context.Context, follow *entities.Follower) error

	// Delete returns entities.ErrFollowNotFound when nothing was removed
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error

	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Stats(ctx context.Context, teacherID uuid.UUID) (*entities.FollowStats, error)
}
