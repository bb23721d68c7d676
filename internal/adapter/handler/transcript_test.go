package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/intake"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/internal/usecase/transcript"
	"github.com/sideby/teachconnect/internal/usecase/workflow"
)

type fakeProcessor struct {
	key     string
	content string
}

func (f *fakeProcessor) Process(_ context.Context, ownerKey string, file *intake.File) (*transcript.Result, error) {
	f.key = ownerKey
	if file == nil {
		return nil, usecaseErrors.ErrNoFileSelected
	}
	data, _ := io.ReadAll(file.Content)
	f.content = string(data)
	return &transcript.Result{
		FileName: file.Name,
		Format:   entities.TranscriptPlain,
		View: &workflow.View{
			Phase: workflow.PhasePending,
			Short: []workflow.Item{{Index: 0, Content: "hello", PostType: entities.PostTypeShort, Selected: true}},
			Total: 1, Selected: 1,
		},
	}, nil
}

type fakeWorkflow struct {
	adopted   [][2]string
	ownerBusy bool
	toggled   int
	viewKey   string
	canceled  string
	confirm   error
}

func (f *fakeWorkflow) View(_ context.Context, key string) (*workflow.View, error) {
	f.viewKey = key
	return &workflow.View{Phase: workflow.PhasePending, Short: []workflow.Item{}, Article: []workflow.Item{}}, nil
}

func (f *fakeWorkflow) Toggle(_ context.Context, key string, index int) (*workflow.View, error) {
	f.viewKey = key
	f.toggled = index
	return &workflow.View{Phase: workflow.PhasePending}, nil
}

func (f *fakeWorkflow) Confirm(_ context.Context, _ string, author *session.Identity) ([]*entities.Post, error) {
	if f.confirm != nil {
		return nil, f.confirm
	}
	if author == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}
	return []*entities.Post{entities.NewPost(author.UserID, "hello", entities.PostTypeShort, true)}, nil
}

func (f *fakeWorkflow) Cancel(_ context.Context, key string) error {
	f.canceled = key
	return nil
}

func (f *fakeWorkflow) Adopt(_ context.Context, from, to string) (bool, error) {
	f.adopted = append(f.adopted, [2]string{from, to})
	return !f.ownerBusy, nil
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func withIdentity(c echo.Context, identity *session.Identity) echo.Context {
	c.Set(middleware.IdentityKey, identity)
	return c
}

func TestTranscriptUpload_AnonymousGetsWorkspace(t *testing.T) {
	proc := &fakeProcessor{}
	h := NewTranscript(proc, &fakeWorkflow{}, CookieConfig{}, nil)

	body, ct := multipartBody(t, "file", "chat.txt", "Teacher: hi")
	req := httptest.NewRequest(http.MethodPost, "/v1/transcripts", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Upload(newTestEcho().NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	ws := cookieNamed(rec, WorkspaceCookie)
	require.NotNil(t, ws)
	assert.Equal(t, "anon:"+ws.Value, proc.key)
	assert.Equal(t, "Teacher: hi", proc.content)

	var resp struct {
		Data struct {
			FileName string `json:"file_name"`
			Pending  struct {
				Phase string `json:"phase"`
				Total int    `json:"total"`
			} `json:"pending"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chat.txt", resp.Data.FileName)
	assert.Equal(t, "pending", resp.Data.Pending.Phase)
	assert.Equal(t, 1, resp.Data.Pending.Total)
}

func TestTranscriptUpload_NoFile(t *testing.T) {
	h := NewTranscript(&fakeProcessor{}, &fakeWorkflow{}, CookieConfig{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/transcripts", strings.NewReader(""))
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(newTestEcho().NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscript_SignedInAdoptsWorkspace(t *testing.T) {
	wf := &fakeWorkflow{}
	h := NewTranscript(&fakeProcessor{}, wf, CookieConfig{}, nil)
	alice := &session.Identity{UserID: uuid.New()}

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-1"})
	rec := httptest.NewRecorder()
	c := withIdentity(newTestEcho().NewContext(req, rec), alice)

	require.NoError(t, h.Pending(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice.UserID.String(), wf.viewKey)
	assert.Equal(t, [][2]string{{"anon:ws-1", alice.UserID.String()}}, wf.adopted)

	cleared := cookieNamed(rec, WorkspaceCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestTranscript_WorkspaceKeptWhenUserHasSuggestions(t *testing.T) {
	wf := &fakeWorkflow{ownerBusy: true}
	h := NewTranscript(&fakeProcessor{}, wf, CookieConfig{}, nil)
	alice := &session.Identity{UserID: uuid.New()}

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-1"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.Pending(withIdentity(newTestEcho().NewContext(req, rec), alice)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, wf.adopted, 1)
	assert.Nil(t, cookieNamed(rec, WorkspaceCookie), "unmoved workspace must keep its cookie")
}

func TestTranscriptPending_NoWorkspace(t *testing.T) {
	wf := &fakeWorkflow{}
	h := NewTranscript(&fakeProcessor{}, wf, CookieConfig{}, nil)

	rec := httptest.NewRecorder()
	require.NoError(t, h.Pending(newTestEcho().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, wf.viewKey)
	assert.Nil(t, cookieNamed(rec, WorkspaceCookie))
	assert.Contains(t, rec.Body.String(), `"phase":"idle"`)
}

func TestTranscriptToggle(t *testing.T) {
	wf := &fakeWorkflow{}
	h := NewTranscript(&fakeProcessor{}, wf, CookieConfig{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/suggestions/toggle", strings.NewReader(`{"index":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-2"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.Toggle(newTestEcho().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, wf.toggled)
	assert.Equal(t, "anon:ws-2", wf.viewKey)

	req = httptest.NewRequest(http.MethodPost, "/v1/suggestions/toggle", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Toggle(newTestEcho().NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscriptConfirm(t *testing.T) {
	h := NewTranscript(&fakeProcessor{}, &fakeWorkflow{}, CookieConfig{}, nil)

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/suggestions/confirm", nil)
		req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-3"})
		rec := httptest.NewRecorder()
		require.NoError(t, h.Confirm(newTestEcho().NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := withIdentity(newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), &session.Identity{UserID: uuid.New()})
		require.NoError(t, h.Confirm(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"content":"hello"`)
	})

	t.Run("in flight", func(t *testing.T) {
		h := NewTranscript(&fakeProcessor{}, &fakeWorkflow{confirm: usecaseErrors.ErrConfirmInFlight}, CookieConfig{}, nil)
		rec := httptest.NewRecorder()
		c := withIdentity(newTestEcho().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), &session.Identity{UserID: uuid.New()})
		require.NoError(t, h.Confirm(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTranscriptCancel(t *testing.T) {
	wf := &fakeWorkflow{}
	h := NewTranscript(&fakeProcessor{}, wf, CookieConfig{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/suggestions", nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookie, Value: "ws-4"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.Cancel(newTestEcho().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon:ws-4", wf.canceled)
}
