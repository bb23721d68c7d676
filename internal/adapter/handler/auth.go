package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/sideby/teachconnect/internal/adapter/dto/auth"
	"github.com/sideby/teachconnect/internal/adapter/presenter"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	"github.com/sideby/teachconnect/internal/usecase/auth"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

// AuthService is the sign-in flow used by the auth handler
type AuthService interface {
	LoginURL(ctx context.Context) (*auth.AuthURL, error)
	Callback(ctx context.Context, code, state string, device auth.Device) (*auth.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.AuthResult, error)
	Logout(ctx context.Context, identity *session.Identity) error
	Me(ctx context.Context, identity *session.Identity) (*entities.User, error)
	Status(ctx context.Context, accessToken string) *auth.SessionStatus
}

// Adopter moves an anonymous workspace's pending suggestions to a user and
// reports whether the workspace was emptied
type Adopter interface {
	Adopt(ctx context.Context, from, to string) (bool, error)
}

// Auth handles authentication HTTP requests
type Auth struct {
	svc        AuthService
	adopter    Adopter
	cookies    CookieConfig
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewAuth creates a new auth handler. adopter may be nil.
func NewAuth(svc AuthService, adopter Adopter, cookies CookieConfig, refreshTTL time.Duration, logger *zap.Logger) *Auth {
	return &Auth{
		svc:        svc,
		adopter:    adopter,
		cookies:    cookies,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// GoogleLogin returns the Google authorization URL
// GET /v1/auth/google/login
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.svc.LoginURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &authDTO.LoginURLResponse{URL: authURL.URL, State: authURL.State})
}

// GoogleCallback completes the Google sign-in
// GET /v1/auth/google/callback
func (h *Auth) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	var q authDTO.CallbackQuery
	if err := c.Bind(&q); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&q); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.svc.Callback(ctx, q.Code, q.State, auth.Device{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setTokens(c, result)
	h.adoptWorkspace(c, result.User)

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(result))
}

// RefreshToken rotates the token pair
// POST /v1/auth/refresh
func (h *Auth) RefreshToken(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	result, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setTokens(c, result)
	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(result))
}

// Logout ends the caller's session
// POST /v1/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), middleware.Identity(c)); err != nil {
		return HandleError(h.logger, c, err)
	}
	DeleteCookie(c, h.cookies, AccessTokenCookie)
	DeleteCookie(c, h.cookies, RefreshTokenCookie)
	return HandleSuccess(h.logger, c, map[string]bool{"logged_out": true})
}

// Me returns the current user
// GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, err := h.svc.Me(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user))
}

// Session reports whether the request carries a live session. It never fails.
// GET /v1/auth/session
func (h *Auth) Session(c echo.Context) error {
	status := h.svc.Status(c.Request().Context(), middleware.ExtractToken(c))
	return HandleSuccess(h.logger, c, presenter.ToSessionStatusResponse(status))
}

func (h *Auth) setTokens(c echo.Context, result *auth.AuthResult) {
	SetCookie(c, h.cookies, AccessTokenCookie, result.AccessToken, time.Duration(result.ExpiresIn)*time.Second)
	if result.RefreshToken != "" && h.refreshTTL > 0 {
		SetCookie(c, h.cookies, RefreshTokenCookie, result.RefreshToken, h.refreshTTL)
	}
}

// adoptWorkspace hands suggestions produced before sign-in to the new user
func (h *Auth) adoptWorkspace(c echo.Context, user *entities.User) {
	if h.adopter == nil || user == nil {
		return
	}
	cookie, err := c.Cookie(WorkspaceCookie)
	if err != nil || cookie.Value == "" {
		return
	}
	from := workflow.OwnerKey(nil, cookie.Value)
	moved, err := h.adopter.Adopt(c.Request().Context(), from, user.ID.String())
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("failed to adopt workspace suggestions", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return
	}
	// a workspace that could not move keeps its cookie for a later attempt
	if moved {
		DeleteCookie(c, h.cookies, WorkspaceCookie)
	}
}
