// Package workflow holds pending post suggestions until the user confirms or
// dismisses them.
//
// A pending set lives in the cache store under its owner's key:
//
//	idle -> pending(suggestions, selection) -> confirmed | cancelled -> idle
//
// While a confirmation is in flight the owner's lock is held and further
// confirmations or selection changes are refused.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/cache"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

// Phase is the workflow state visible to clients.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePending    Phase = "pending"
	PhaseConfirming Phase = "confirming"
)

const (
	pendingKeyPrefix = "workflow:pending:"
	profileKeyPrefix = "workflow:profile:"
	lockKeyPrefix    = "workflow:lock:"

	DefaultPendingTTL = 24 * time.Hour
	DefaultConfirmTTL = 30 * time.Second
)

// Gateway persists confirmed suggestions.
type Gateway interface {
	Publish(ctx context.Context, author *session.Identity, suggestions []entities.PostSuggestion) ([]*entities.Post, error)
}

// OwnerKey keys a pending set by user, or by anonymous workspace when signed out.
func OwnerKey(identity *session.Identity, workspaceID string) string {
	if identity != nil && identity.UserID != uuid.Nil {
		return identity.UserID.String()
	}
	if workspaceID == "" {
		return ""
	}
	return "anon:" + workspaceID
}

// pendingSet is the stored form of a pending suggestion list.
type pendingSet struct {
	Generation  string                    `json:"generation"`
	Suggestions []entities.PostSuggestion `json:"suggestions"`
	Selection   []int                     `json:"selection"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (p *pendingSet) selected(i int) bool {
	idx := sort.SearchInts(p.Selection, i)
	return idx < len(p.Selection) && p.Selection[idx] == i
}

func (p *pendingSet) toggle(i int) {
	idx := sort.SearchInts(p.Selection, i)
	if idx < len(p.Selection) && p.Selection[idx] == i {
		p.Selection = append(p.Selection[:idx], p.Selection[idx+1:]...)
		return
	}
	p.Selection = append(p.Selection, 0)
	copy(p.Selection[idx+1:], p.Selection[idx:])
	p.Selection[idx] = i
}

// chosen returns the selected suggestions in their original order.
func (p *pendingSet) chosen() []entities.PostSuggestion {
	out := make([]entities.PostSuggestion, 0, len(p.Selection))
	for _, i := range p.Selection {
		out = append(out, p.Suggestions[i])
	}
	return out
}

// Item is one suggestion as presented for selection.
type Item struct {
	Index    int               `json:"index"`
	Content  string            `json:"content"`
	PostType entities.PostType `json:"post_type"`
	Selected bool              `json:"selected"`
}

// View is the presentation of an owner's workflow state.
type View struct {
	Phase    Phase                       `json:"phase"`
	Short    []Item                      `json:"short"`
	Article  []Item                      `json:"article"`
	Selected int                         `json:"selected"`
	Total    int                         `json:"total"`
	Profile  *entities.ProfileSuggestion `json:"profile,omitempty"`
}

// Service runs the confirmation workflow on top of a cache store.
type Service struct {
	store      cache.Store
	gateway    Gateway
	pendingTTL time.Duration
	confirmTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger

	// owners with a lock held by this process; the store lock can lapse
	// while a gateway call is still running
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(store cache.Store, gateway Gateway, pendingTTL, confirmTTL time.Duration, logger *zap.Logger) *Service {
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	if confirmTTL <= 0 {
		confirmTTL = DefaultConfirmTTL
	}
	return &Service{
		store:      store,
		gateway:    gateway,
		pendingTTL: pendingTTL,
		confirmTTL: confirmTTL,
		now:        time.Now,
		logger:     logger,
		inflight:   make(map[string]struct{}),
	}
}

// Begin replaces any pending set of key with the post suggestions in
// suggestions, with nothing selected. The profile suggestion is kept for later
// use. Without post suggestions the workflow stays idle.
func (s *Service) Begin(ctx context.Context, key string, suggestions []entities.Suggestion) (*View, error) {
	if key == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}
	posts, profile := entities.SplitSuggestions(suggestions)

	if profile != nil {
		if err := s.putJSON(ctx, profileKeyPrefix+key, profile); err != nil {
			return nil, err
		}
	}

	if len(posts) == 0 {
		if err := s.store.Delete(ctx, pendingKeyPrefix+key); err != nil {
			return nil, fmt.Errorf("failed to clear pending suggestions: %w", err)
		}
		return s.View(ctx, key)
	}

	set := &pendingSet{
		Generation:  uuid.NewString(),
		Suggestions: posts,
		Selection:   []int{},
		CreatedAt:   s.now(),
	}
	if err := s.putJSON(ctx, pendingKeyPrefix+key, set); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Debug("pending suggestions stored", zap.String("owner", key), zap.Int("count", len(posts)))
	}
	return s.View(ctx, key)
}

// View returns the current state of key.
func (s *Service) View(ctx context.Context, key string) (*View, error) {
	set, err := s.loadPending(ctx, key)
	if err != nil {
		return nil, err
	}
	profile, err := s.Profile(ctx, key)
	if err != nil {
		return nil, err
	}

	view := &View{Phase: PhaseIdle, Short: []Item{}, Article: []Item{}, Profile: profile}
	if set == nil {
		return view, nil
	}

	view.Phase = PhasePending
	if s.locked(ctx, key) {
		view.Phase = PhaseConfirming
	}
	view.Total = len(set.Suggestions)
	view.Selected = len(set.Selection)
	for i, sug := range set.Suggestions {
		item := Item{Index: i, Content: sug.Content, PostType: sug.PostType, Selected: set.selected(i)}
		if sug.PostType == entities.PostTypeArticle {
			view.Article = append(view.Article, item)
		} else {
			view.Short = append(view.Short, item)
		}
	}
	return view, nil
}

// Toggle flips the selection of the suggestion at index.
func (s *Service) Toggle(ctx context.Context, key string, index int) (*View, error) {
	held, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer held.release()

	set, err := s.loadPending(ctx, key)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, usecaseErrors.ErrNoPendingSuggestions
	}
	if index < 0 || index >= len(set.Suggestions) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", usecaseErrors.ErrSelectionOutOfRange, index, len(set.Suggestions))
	}

	set.toggle(index)
	if err := s.putJSON(ctx, pendingKeyPrefix+key, set); err != nil {
		return nil, err
	}

	held.release()
	return s.View(ctx, key)
}

// Confirm publishes the selected suggestions. The pending set is cleared only
// after the gateway succeeds, and only if it was not replaced meanwhile.
func (s *Service) Confirm(ctx context.Context, key string, author *session.Identity) ([]*entities.Post, error) {
	set, err := s.loadPending(ctx, key)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, usecaseErrors.ErrNoPendingSuggestions
	}
	if len(set.Selection) == 0 {
		return nil, usecaseErrors.ErrEmptySelection
	}

	held, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer held.release()

	// selection may have changed before the lock was taken
	set, err = s.loadPending(ctx, key)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, usecaseErrors.ErrNoPendingSuggestions
	}
	if len(set.Selection) == 0 {
		return nil, usecaseErrors.ErrEmptySelection
	}

	// the write must finish before the store lock lapses
	publishCtx, cancel := context.WithDeadline(ctx, held.expires)
	defer cancel()

	posts, err := s.gateway.Publish(publishCtx, author, set.chosen())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("confirmation failed, suggestions kept",
				zap.String("owner", key),
				zap.Int("selected", len(set.Selection)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	current, err := s.loadPending(ctx, key)
	if err == nil && current != nil && current.Generation == set.Generation {
		if err := s.store.Delete(ctx, pendingKeyPrefix+key); err != nil && s.logger != nil {
			s.logger.Warn("failed to clear confirmed suggestions", zap.String("owner", key), zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("suggestions confirmed", zap.String("owner", key), zap.Int("published", len(posts)))
	}
	return posts, nil
}

// Cancel dismisses the pending set without persisting anything.
func (s *Service) Cancel(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, pendingKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to cancel pending suggestions: %w", err)
	}
	return nil
}

// Discard drops every artifact of key. It implements session.Purger.
func (s *Service) Discard(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, pendingKeyPrefix+key, profileKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to discard workflow state: %w", err)
	}
	return nil
}

// Adopt moves the pending set and profile suggestion of from to an owner
// that has none, such as an anonymous workspace to a user who just signed in.
// It reports whether from was emptied; when to already has a pending set
// nothing moves and from keeps its state.
func (s *Service) Adopt(ctx context.Context, from, to string) (bool, error) {
	if from == "" || to == "" || from == to {
		return false, nil
	}
	existing, err := s.loadPending(ctx, to)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	for _, prefix := range []string{pendingKeyPrefix, profileKeyPrefix} {
		data, err := s.store.Take(ctx, prefix+from)
		if errors.Is(err, cache.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to read workflow state: %w", err)
		}
		if err := s.store.Set(ctx, prefix+to, data, s.pendingTTL); err != nil {
			return false, fmt.Errorf("failed to move workflow state: %w", err)
		}
	}
	return true, nil
}

// Profile returns the last profile suggestion of key, or nil.
func (s *Service) Profile(ctx context.Context, key string) (*entities.ProfileSuggestion, error) {
	data, err := s.store.Get(ctx, profileKeyPrefix+key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile suggestion: %w", err)
	}
	var p entities.ProfileSuggestion
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile suggestion: %w", err)
	}
	return &p, nil
}

func (s *Service) loadPending(ctx context.Context, key string) (*pendingSet, error) {
	data, err := s.store.Get(ctx, pendingKeyPrefix+key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending suggestions: %w", err)
	}
	var set pendingSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode pending suggestions: %w", err)
	}
	return &set, nil
}

func (s *Service) putJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode workflow state: %w", err)
	}
	if err := s.store.Set(ctx, key, data, s.pendingTTL); err != nil {
		return fmt.Errorf("failed to store workflow state: %w", err)
	}
	return nil
}

// heldLock is one acquisition of an owner's lock.
type heldLock struct {
	expires time.Time
	release func()
}

// lock takes the owner's lock. Release is safe to call twice and never
// removes a lock taken by someone else after this one lapsed.
func (s *Service) lock(ctx context.Context, key string) (*heldLock, error) {
	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return nil, usecaseErrors.ErrConfirmInFlight
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	unmark := func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}

	token := []byte(uuid.NewString())
	expires := time.Now().Add(s.confirmTTL)
	ok, err := s.store.SetNX(ctx, lockKeyPrefix+key, token, s.confirmTTL)
	if err != nil {
		unmark()
		return nil, fmt.Errorf("failed to lock workflow: %w", err)
	}
	if !ok {
		unmark()
		return nil, usecaseErrors.ErrConfirmInFlight
	}

	var once sync.Once
	return &heldLock{
		expires: expires,
		release: func() {
			once.Do(func() {
				defer unmark()
				if _, err := s.store.DeleteIfEqual(context.WithoutCancel(ctx), lockKeyPrefix+key, token); err != nil && s.logger != nil {
					s.logger.Warn("failed to release workflow lock", zap.String("owner", key), zap.Error(err))
				}
			})
		},
	}, nil
}

func (s *Service) locked(ctx context.Context, key string) bool {
	s.mu.Lock()
	_, busy := s.inflight[key]
	s.mu.Unlock()
	if busy {
		return true
	}
	_, err := s.store.Get(ctx, lockKeyPrefix+key)
	return err == nil
}
