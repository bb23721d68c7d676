// Package session resolves the acting identity of a request and reacts to
// "session ended" signals from the identity provider.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// Identity is the signed-in user acting on a request.
type Identity struct {
	UserID    uuid.UUID         `json:"user_id"`
	SessionID uuid.UUID         `json:"session_id"`
	Email     string            `json:"email"`
	Role      entities.UserRole `json:"role"`
}

func (i *Identity) IsModerator() bool {
	return i != nil && i.Role == entities.RoleModerator
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or nil.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}

// ChangeKind tells whether a session started or ended.
type ChangeKind string

const (
	ChangeEstablished ChangeKind = "established"
	ChangeEnded       ChangeKind = "ended"
)

// Change is delivered to OnChange subscribers.
type Change struct {
	Kind      ChangeKind
	UserID    uuid.UUID
	SessionID uuid.UUID
	Reason    string
}

// Provider exposes the current identity and session changes to dependents.
type Provider interface {
	// Current returns the identity of the request carried by ctx, or nil.
	Current(ctx context.Context) *Identity
	// OnChange registers fn and returns a function that removes it.
	OnChange(fn func(Change)) (unsubscribe func())
}
