package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/infrastructure/cache"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/pkg/jwt"
)

// End reasons
const (
	ReasonLogout    = "logout"
	ReasonExpired   = "expired"
	ReasonRevoked   = "revoked"
	ReasonSignedOut = "signed_out"
)

const (
	liveKeyPrefix   = "session:live:"
	signalKeyPrefix = "session:signal:"

	defaultLiveTTL  = 5 * time.Minute
	signalLedgerTTL = 48 * time.Hour
	landingRedirect = "/"
	noticeTypeEnded = "session_ended"
)

// Signal is a session change pushed by the identity provider or the scheduler.
// Live=false is the only signal that ends anything.
type Signal struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	Live      bool      `json:"live"`
	Reason    string    `json:"reason"`
}

// Notice is pushed to the user's open clients when a session ends.
type Notice struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Redirect    string `json:"redirect"`
	Reason      string `json:"reason"`
}

// NoticeFor builds the notice shown for an end reason.
func NoticeFor(reason string) Notice {
	n := Notice{
		Type:        noticeTypeEnded,
		Title:       "Session ended",
		Description: "Please sign in to continue.",
		Redirect:    landingRedirect,
		Reason:      reason,
	}
	if reason == ReasonExpired {
		n.Title = "Session Error"
		n.Description = "Your session has expired. Please sign in again."
	}
	return n
}

// Purger drops per-user artifacts such as pending suggestions.
type Purger interface {
	Discard(ctx context.Context, key string) error
}

// Notifier delivers a notice to the open clients of a session, or of every
// session of the user when sessionID is uuid.Nil.
type Notifier interface {
	Notify(userID, sessionID uuid.UUID, notice Notice) int
}

// Manager resolves identities from access tokens and ends sessions.
type Manager struct {
	tokens      *jwt.Manager
	sessionRepo repositories.SessionRepository
	store       cache.Store
	purger      Purger
	notifier    Notifier
	liveTTL     time.Duration
	logger      *zap.Logger

	mu        sync.RWMutex
	listeners map[int]func(Change)
	nextID    int
}

func NewManager(
	tokens *jwt.Manager,
	sessionRepo repositories.SessionRepository,
	store cache.Store,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		tokens:      tokens,
		sessionRepo: sessionRepo,
		store:       store,
		liveTTL:     defaultLiveTTL,
		logger:      logger,
		listeners:   make(map[int]func(Change)),
	}
}

// SetPurger wires the component whose per-user state is dropped on session end.
func (m *Manager) SetPurger(p Purger) { m.purger = p }

// SetNotifier wires the push channel to open clients.
func (m *Manager) SetNotifier(n Notifier) { m.notifier = n }

// Current implements Provider.
func (m *Manager) Current(ctx context.Context) *Identity {
	return FromContext(ctx)
}

// OnChange implements Provider.
func (m *Manager) OnChange(fn func(Change)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) emit(c Change) {
	m.mu.RLock()
	fns := make([]func(Change), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Resolve validates an access token and checks that its session is still live.
// A token whose session was revoked or expired yields ErrSessionLost.
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, usecaseErrors.ErrUnauthorized
	}

	claims, err := m.tokens.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, usecaseErrors.ErrTokenExpired
		}
		return nil, usecaseErrors.ErrTokenInvalid
	}

	identity := &Identity{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Email:     claims.Email,
		Role:      entities.UserRole(claims.Role),
	}

	if _, err := m.store.Get(ctx, liveKeyPrefix+claims.SessionID.String()); err == nil {
		return identity, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) && m.logger != nil {
		m.logger.Warn("session cache unavailable", zap.Error(err))
	}

	sess, err := m.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, usecaseErrors.ErrSessionLost
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.UserID != claims.UserID || !sess.IsValid() {
		return nil, usecaseErrors.ErrSessionLost
	}

	ttl := m.liveTTL
	if remaining := time.Until(sess.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if err := m.store.Set(ctx, liveKeyPrefix+sess.ID.String(), []byte(sess.UserID.String()), ttl); err != nil && m.logger != nil {
		m.logger.Warn("failed to cache live session", zap.Error(err))
	}
	return identity, nil
}

// Established records a new session and informs subscribers.
func (m *Manager) Established(userID, sessionID uuid.UUID) {
	m.emit(Change{Kind: ChangeEstablished, UserID: userID, SessionID: sessionID})
}

// Handle processes one signal. An ended signal is applied at most once per
// signal ID; the returned bool reports whether this call applied it.
func (m *Manager) Handle(ctx context.Context, sig Signal) (bool, error) {
	if sig.Live {
		m.Established(sig.UserID, sig.SessionID)
		return true, nil
	}
	if sig.ID == "" || sig.UserID == uuid.Nil {
		return false, usecaseErrors.ErrInvalidInput
	}

	first, err := m.store.SetNX(ctx, signalKeyPrefix+sig.ID, []byte(sig.Reason), signalLedgerTTL)
	if err != nil {
		return false, fmt.Errorf("failed to record session signal: %w", err)
	}
	if !first {
		if m.logger != nil {
			m.logger.Debug("duplicate session signal ignored", zap.String("signal_id", sig.ID))
		}
		return false, nil
	}

	reason := sig.Reason
	if reason == "" {
		reason = ReasonSignedOut
	}
	if err := m.end(ctx, sig.UserID, sig.SessionID, reason); err != nil {
		// let the provider redeliver
		if derr := m.store.Delete(context.WithoutCancel(ctx), signalKeyPrefix+sig.ID); derr != nil && m.logger != nil {
			m.logger.Warn("failed to release session signal, redelivery will be ignored",
				zap.String("signal_id", sig.ID),
				zap.Error(derr),
			)
		}
		return false, err
	}
	return true, nil
}

// Logout ends the caller's own session through the same path as a signal.
func (m *Manager) Logout(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return usecaseErrors.ErrNotAuthenticated
	}
	_, err := m.Handle(ctx, Signal{
		ID:        "logout:" + identity.SessionID.String(),
		UserID:    identity.UserID,
		SessionID: identity.SessionID,
		Reason:    ReasonLogout,
	})
	return err
}

// end revokes the session (every session of the user when sessionID is nil),
// drops cached artifacts, notifies open clients and informs subscribers.
func (m *Manager) end(ctx context.Context, userID, sessionID uuid.UUID, reason string) error {
	if sessionID == uuid.Nil {
		live, err := m.sessionRepo.FindByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if err := m.sessionRepo.RevokeAllByUserID(ctx, userID, reason); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		for _, s := range live {
			m.forget(ctx, s.ID)
		}
	} else {
		if err := m.sessionRepo.Revoke(ctx, sessionID, reason); err != nil && !errors.Is(err, entities.ErrSessionNotFound) {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
		m.forget(ctx, sessionID)
	}

	remaining, err := m.sessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(remaining) == 0 && m.purger != nil {
		if err := m.purger.Discard(ctx, userID.String()); err != nil && m.logger != nil {
			m.logger.Warn("failed to discard pending suggestions", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	delivered := 0
	if m.notifier != nil {
		delivered = m.notifier.Notify(userID, sessionID, NoticeFor(reason))
	}

	if m.logger != nil {
		m.logger.Info("session ended",
			zap.String("user_id", userID.String()),
			zap.String("session_id", sessionID.String()),
			zap.String("reason", reason),
			zap.Int("clients_notified", delivered),
		)
	}

	m.emit(Change{Kind: ChangeEnded, UserID: userID, SessionID: sessionID, Reason: reason})
	return nil
}

func (m *Manager) forget(ctx context.Context, sessionID uuid.UUID) {
	if err := m.store.Delete(ctx, liveKeyPrefix+sessionID.String()); err != nil && m.logger != nil {
		m.logger.Warn("failed to drop cached session", zap.Error(err))
	}
}
