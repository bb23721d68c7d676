package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/infrastructure/external/oauth"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/pkg/jwt"
)

// Lifecycle is the part of session.Manager the auth flow drives.
type Lifecycle interface {
	Resolve(ctx context.Context, token string) (*session.Identity, error)
	Established(userID, sessionID uuid.UUID)
	Handle(ctx context.Context, sig session.Signal) (bool, error)
	Logout(ctx context.Context, identity *session.Identity) error
}

// OAuthService handles sign-in through the identity provider and the
// token pair issued for each session
type OAuthService struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	provider     oauth.Provider
	stateManager *oauth.StateManager
	jwtManager   *jwt.Manager
	lifecycle    Lifecycle
	logger       *zap.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	provider oauth.Provider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
	lifecycle Lifecycle,
	logger *zap.Logger,
) *OAuthService {
	return &OAuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		provider:     provider,
		stateManager: stateManager,
		jwtManager:   jwtManager,
		lifecycle:    lifecycle,
		logger:       logger,
	}
}

// AuthURL is the provider redirect for a new sign-in
type AuthURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// Device describes the client a session is issued to
type Device struct {
	IP        string
	UserAgent string
}

// AuthResult is a signed-in user with a fresh token pair
type AuthResult struct {
	User         *entities.User
	SessionID    uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// SessionStatus is the result of initial session resolution
type SessionStatus struct {
	Authenticated bool
	User          *entities.User
}

// LoginURL generates the provider authorization URL with a one-time state
func (s *OAuthService) LoginURL(ctx context.Context) (*AuthURL, error) {
	state, err := s.stateManager.GenerateState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	return &AuthURL{URL: s.provider.AuthURL(state), State: state}, nil
}

// Callback completes sign-in: checks the state, exchanges the code, upserts
// the user and opens a session
func (s *OAuthService) Callback(ctx context.Context, code, state string, device Device) (*AuthResult, error) {
	ok, err := s.stateManager.ValidateState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}
	if !ok {
		return nil, usecaseErrors.ErrInvalidOAuthState
	}

	identity, err := s.provider.Authenticate(ctx, code)
	switch {
	case errors.Is(err, oauth.ErrRateLimited):
		return nil, usecaseErrors.ErrRateLimited
	case errors.Is(err, oauth.ErrEmailNotVerified):
		return nil, usecaseErrors.ErrEmailNotConfirmed
	case err != nil:
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrOAuthFailed, err)
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, usecaseErrors.ErrAccountDisabled
	}

	result, err := s.openSession(ctx, user, device)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ User signed in",
			zap.String("user_id", user.ID.String()),
			zap.String("session_id", result.SessionID.String()),
			zap.String("provider", identity.Provider),
		)
	}
	return result, nil
}

func (s *OAuthService) upsertUser(ctx context.Context, identity *oauth.Identity) (*entities.User, error) {
	user, err := s.userRepo.FindByOAuth(ctx, identity.Provider, identity.ProviderID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		existing, err := s.userRepo.FindByEmail(ctx, identity.Email)
		switch {
		case err == nil:
			// Same email, first sign-in through this provider: link accounts
			existing.OAuthProvider = &identity.Provider
			existing.OAuthID = &identity.ProviderID
			existing.IsEmailVerified = true
			user = existing
		case errors.Is(err, entities.ErrUserNotFound):
			user = entities.NewOAuthUser(identity.Email, identity.Name, identity.Provider, identity.ProviderID)
			if identity.Picture != "" {
				user.AvatarURL = &identity.Picture
			}
			user.UpdateLastLogin()
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
			return user, nil
		default:
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	if identity.Picture != "" {
		user.AvatarURL = &identity.Picture
	}
	user.UpdateLastLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *OAuthService) openSession(ctx context.Context, user *entities.User, device Device) (*AuthResult, error) {
	sess := entities.NewSession(user.ID, time.Now().Add(s.jwtManager.GetRefreshExpiry()))
	if device.IP != "" || device.UserAgent != "" {
		sess.WithDeviceInfo(device.IP, device.UserAgent)
	}

	result, err := s.issue(user, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.SetRefreshToken(result.RefreshToken)

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.lifecycle.Established(user.ID, sess.ID)
	return result, nil
}

func (s *OAuthService) issue(user *entities.User, sessionID uuid.UUID) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, sessionID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &AuthResult{
		User:         user,
		SessionID:    sessionID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// Refresh rotates the token pair of a live session. Presenting an already
// rotated refresh token ends the session.
func (s *OAuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, usecaseErrors.ErrUnauthorized
	}

	userID, sessionID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, usecaseErrors.ErrTokenExpired
		}
		return nil, usecaseErrors.ErrTokenInvalid
	}

	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, usecaseErrors.ErrSessionLost
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.UserID != userID || !sess.IsValid() {
		return nil, usecaseErrors.ErrSessionLost
	}

	if !sess.MatchesRefreshToken(refreshToken) {
		if s.logger != nil {
			s.logger.Warn("refresh token reuse detected", zap.String("session_id", sessionID.String()))
		}
		if _, err := s.lifecycle.Handle(ctx, session.Signal{
			ID:        "reuse:" + sessionID.String(),
			UserID:    userID,
			SessionID: sessionID,
			Reason:    session.ReasonRevoked,
		}); err != nil && s.logger != nil {
			s.logger.Error("failed to revoke session after refresh reuse", zap.Error(err))
		}
		return nil, usecaseErrors.ErrInvalidRefreshPair
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrSessionLost
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, usecaseErrors.ErrAccountDisabled
	}

	result, err := s.issue(user, sess.ID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshExpiry())
	if err := s.sessionRepo.RotateRefreshToken(ctx, sess.ID, entities.HashRefreshToken(result.RefreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if err := s.sessionRepo.UpdateLastUsed(ctx, sess.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to update session last used", zap.Error(err))
	}
	return result, nil
}

// Logout ends the caller's session
func (s *OAuthService) Logout(ctx context.Context, identity *session.Identity) error {
	if identity == nil {
		return usecaseErrors.ErrNotAuthenticated
	}
	return s.lifecycle.Logout(ctx, identity)
}

// Me loads the signed-in user
func (s *OAuthService) Me(ctx context.Context, identity *session.Identity) (*entities.User, error) {
	if identity == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Status resolves the session behind an access token. A missing, stale or
// unreadable session is reported as signed out rather than as an error.
func (s *OAuthService) Status(ctx context.Context, accessToken string) *SessionStatus {
	if accessToken == "" {
		return &SessionStatus{}
	}
	identity, err := s.lifecycle.Resolve(ctx, accessToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("session status unresolved", zap.Error(err))
		}
		return &SessionStatus{}
	}
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("session user unavailable", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		}
		return &SessionStatus{}
	}
	return &SessionStatus{Authenticated: true, User: user}
}
