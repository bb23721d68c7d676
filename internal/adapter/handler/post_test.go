package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/post"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

type fakePosts struct {
	page     post.Page
	approved uuid.UUID
	likes    map[uuid.UUID]int
}

func (f *fakePosts) List(_ context.Context, _ *session.Identity, page post.Page) ([]*entities.Post, error) {
	f.page = page
	return []*entities.Post{entities.NewPost(uuid.New(), "hi", entities.PostTypeShort, false)}, nil
}

func (f *fakePosts) Create(_ context.Context, author *session.Identity, content string) (*entities.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, usecaseErrors.ErrEmptyContent
	}
	return entities.NewPost(author.UserID, content, entities.PostTypeShort, false), nil
}

func (f *fakePosts) Like(_ context.Context, id uuid.UUID) (int, error) {
	n, ok := f.likes[id]
	if !ok {
		return 0, usecaseErrors.ErrPostNotFound
	}
	f.likes[id] = n + 1
	return n + 1, nil
}

func (f *fakePosts) Pending(_ context.Context, _ *session.Identity, page post.Page) ([]*entities.Post, error) {
	f.page = page
	return nil, nil
}

func (f *fakePosts) Approve(_ context.Context, _ *session.Identity, id uuid.UUID) error {
	f.approved = id
	return nil
}

func TestPostList_Pagination(t *testing.T) {
	svc := &fakePosts{}
	h := NewPost(svc, nil)

	rec := httptest.NewRecorder()
	c := newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/v1/posts?limit=5&offset=10", nil), rec)
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, post.Page{Limit: 5, Offset: 10}, svc.page)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = httptest.NewRecorder()
	c = newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/v1/posts?limit=-1", nil), rec)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostCreate(t *testing.T) {
	h := NewPost(&fakePosts{}, nil)
	alice := &session.Identity{UserID: uuid.New()}

	req := httptest.NewRequest(http.MethodPost, "/v1/posts", strings.NewReader(`{"content":"Hello class"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(withIdentity(newTestEcho().NewContext(req, rec), alice)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), alice.UserID.String())

	req = httptest.NewRequest(http.MethodPost, "/v1/posts", strings.NewReader(`{"content":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Create(withIdentity(newTestEcho().NewContext(req, rec), alice)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostLike(t *testing.T) {
	id := uuid.New()
	h := NewPost(&fakePosts{likes: map[uuid.UUID]int{id: 2}}, nil)

	like := func(raw string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(raw)
		require.NoError(t, h.Like(c))
		return rec
	}

	rec := like(id.String())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"likes_count":3`)

	assert.Equal(t, http.StatusNotFound, like(uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, like("nope").Code)
}

func TestPostPendingAndApprove(t *testing.T) {
	svc := &fakePosts{}
	h := NewPost(svc, nil)

	rec := httptest.NewRecorder()
	require.NoError(t, h.Pending(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/?status=approved", nil), rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, h.Pending(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/?status=pending", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	id := uuid.New()
	rec = httptest.NewRecorder()
	c := newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.approved)
}
