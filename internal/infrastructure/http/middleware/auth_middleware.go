package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

const (
	AccessTokenCookie = "access_token"

	// IdentityKey holds the resolved *session.Identity on the echo context
	IdentityKey = "identity"
)

// Resolver turns an access token into the identity of a live session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*session.Identity, error)
}

// AuthMiddleware resolves the caller of a request
type AuthMiddleware struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(resolver Resolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, logger: logger}
}

// RequireAuth rejects requests without a live session. Errors are left to the
// echo error handler.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return usecaseErrors.ErrUnauthorized
			}

			identity, err := m.resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				if m.logger != nil {
					m.logger.Debug("request not authenticated",
						zap.String("path", c.Path()),
						zap.Error(err),
					)
				}
				return err
			}

			attach(c, identity)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller when the token resolves. Requests without
// a usable token go through anonymously; a token whose session ended is
// rejected so the client learns its session is gone.
func (m *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return next(c)
			}

			identity, err := m.resolver.Resolve(c.Request().Context(), token)
			switch {
			case err == nil:
				attach(c, identity)
			case anonymous(err):
				if m.logger != nil {
					m.logger.Debug("continuing anonymously", zap.String("path", c.Path()), zap.Error(err))
				}
			default:
				return err
			}
			return next(c)
		}
	}
}

// anonymous reports whether err means the token names no session at all.
func anonymous(err error) bool {
	return errors.Is(err, usecaseErrors.ErrUnauthorized) || errors.Is(err, usecaseErrors.ErrTokenInvalid)
}

func attach(c echo.Context, identity *session.Identity) {
	c.Set(IdentityKey, identity)
	c.SetRequest(c.Request().WithContext(session.WithIdentity(c.Request().Context(), identity)))
}

// Identity returns the caller attached by RequireAuth or OptionalAuth, or nil.
func Identity(c echo.Context) *session.Identity {
	if id, ok := c.Get(IdentityKey).(*session.Identity); ok {
		return id
	}
	return session.FromContext(c.Request().Context())
}

// ExtractToken reads the access token from the Authorization header, then the
// access_token cookie. Websocket upgrades may also pass it as a query
// parameter since browsers cannot set headers on them.
func ExtractToken(c echo.Context) string {
	req := c.Request()
	if authHeader := req.Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if strings.EqualFold(req.Header.Get(echo.HeaderUpgrade), "websocket") {
		return c.QueryParam(AccessTokenCookie)
	}
	return ""
}
