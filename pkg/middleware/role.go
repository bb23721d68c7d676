package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

// RequireRole only lets through callers holding one of roles. It must run
// after the auth middleware has attached an identity.
func RequireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := session.FromContext(c.Request().Context())
			if identity == nil {
				return usecaseErrors.ErrNotAuthenticated
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return usecaseErrors.ErrForbidden
		}
	}
}

// RequireModerator gates moderation routes
func RequireModerator() echo.MiddlewareFunc {
	return RequireRole(entities.RoleModerator)
}
