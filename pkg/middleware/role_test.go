package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

func run(t *testing.T, identity *session.Identity) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if identity != nil {
		req = req.WithContext(session.WithIdentity(req.Context(), identity))
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := RequireModerator()(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestRequireModerator(t *testing.T) {
	called, err := run(t, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrNotAuthenticated)
	assert.False(t, called)

	called, err = run(t, &session.Identity{UserID: uuid.New(), Role: entities.RoleTeacher})
	assert.ErrorIs(t, err, usecaseErrors.ErrForbidden)
	assert.False(t, called)

	called, err = run(t, &session.Identity{UserID: uuid.New(), Role: entities.RoleModerator})
	assert.NoError(t, err)
	assert.True(t, called)
}
