package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/usecase/auth"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

type fakeAuth struct {
	user    *entities.User
	device  auth.Device
	refresh string
	logout  bool
}

func (f *fakeAuth) LoginURL(context.Context) (*auth.AuthURL, error) {
	return &auth.AuthURL{URL: "https://accounts.google.com/o/oauth2/auth?state=s1", State: "s1"}, nil
}

func (f *fakeAuth) Callback(_ context.Context, code, state string, device auth.Device) (*auth.AuthResult, error) {
	if state != "s1" {
		return nil, usecaseErrors.ErrInvalidOAuthState
	}
	f.device = device
	return f.result(), nil
}

func (f *fakeAuth) Refresh(_ context.Context, refreshToken string) (*auth.AuthResult, error) {
	f.refresh = refreshToken
	if refreshToken != "r1" {
		return nil, usecaseErrors.ErrInvalidRefreshPair
	}
	return f.result(), nil
}

func (f *fakeAuth) Logout(context.Context, *session.Identity) error {
	f.logout = true
	return nil
}

func (f *fakeAuth) Me(context.Context, *session.Identity) (*entities.User, error) {
	return f.user, nil
}

func (f *fakeAuth) Status(_ context.Context, token string) *auth.SessionStatus {
	if token == "a1" {
		return &auth.SessionStatus{Authenticated: true, User: f.user}
	}
	return &auth.SessionStatus{}
}

func (f *fakeAuth) result() *auth.AuthResult {
	return &auth.AuthResult{User: f.user, SessionID: uuid.New(), AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 900}
}

func newAuthHandler() (*Auth, *fakeAuth, *fakeWorkflow) {
	svc := &fakeAuth{user: &entities.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice", Role: entities.RoleTeacher}}
	wf := &fakeWorkflow{}
	return NewAuth(svc, wf, CookieConfig{}, 7*24*time.Hour, nil), svc, wf
}

func TestGoogleCallback(t *testing.T) {
	h, svc, wf := newAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?code=c1&state=s1", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-9"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(newTestEcho().NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-agent", svc.device.UserAgent)

	access := cookieNamed(rec, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "a1", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 900, access.MaxAge)
	require.NotNil(t, cookieNamed(rec, RefreshTokenCookie))

	assert.Equal(t, [][2]string{{"anon:ws-9", svc.user.ID.String()}}, wf.adopted)
	assert.Equal(t, -1, cookieNamed(rec, WorkspaceCookie).MaxAge)
}

func TestGoogleCallback_KeepsUnmovedWorkspace(t *testing.T) {
	h, _, wf := newAuthHandler()
	wf.ownerBusy = true

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?code=c1&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-9"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(newTestEcho().NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, wf.adopted, 1)
	assert.NotNil(t, cookieNamed(rec, AccessTokenCookie))
	assert.Nil(t, cookieNamed(rec, WorkspaceCookie))
}

func TestGoogleCallback_Rejects(t *testing.T) {
	h, _, wf := newAuthHandler()

	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/?code=c1", nil), rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/?code=c1&state=other", nil), rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, cookieNamed(rec, AccessTokenCookie))
	assert.Empty(t, wf.adopted)
}

func TestRefreshToken_FromCookie(t *testing.T) {
	h, svc, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "r1"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.RefreshToken(newTestEcho().NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r1", svc.refresh)

	rec = httptest.NewRecorder()
	require.NoError(t, h.RefreshToken(newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	h, svc, _ := newAuthHandler()

	rec := httptest.NewRecorder()
	c := withIdentity(newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), &session.Identity{UserID: svc.user.ID})
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.logout)
	assert.Equal(t, -1, cookieNamed(rec, AccessTokenCookie).MaxAge)
	assert.Equal(t, -1, cookieNamed(rec, RefreshTokenCookie).MaxAge)
}

func TestSession(t *testing.T) {
	h, _, _ := newAuthHandler()

	rec := httptest.NewRecorder()
	require.NoError(t, h.Session(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer a1")
	rec = httptest.NewRecorder()
	require.NoError(t, h.Session(newTestEcho().NewContext(req, rec)))
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}
