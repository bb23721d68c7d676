package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sideby/teachconnect/internal/domain/entities"
)

// UserRepository stores accounts. Lookups return entities.ErrUserNotFound
// when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByIDs returns the users in the order of ids and fails when any is missing
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindByOAuth finds the account linked to a provider identity
	FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.User, error)

	Update(ctx context.Context, user *entities.User) error
}
