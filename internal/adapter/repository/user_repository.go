package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// UserRepository is the gorm store for accounts
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id", "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email", "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.User, error) {
	return r.first(ctx, "oauth identity", "oauth_provider = ? AND oauth_id = ?", provider, oauthID)
}

// FindByIDs loads every user of ids with one query
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*entities.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.User, len(rows))
	for _, u := range rows {
		byID[u.ID] = u
	}
	users := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", entities.ErrUserNotFound, id)
		}
		users = append(users, u)
	}
	return users, nil
}

// Update saves every column of user, including last_login_at
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, by, query string, args ...interface{}) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", by, err)
	}
	return &user, nil
}
