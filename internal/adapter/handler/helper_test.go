package handler

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/errors"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	pkgvalidator "github.com/sideby/teachconnect/pkg/validator"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = ErrorHandler(nil)
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs {
	t.Helper()
	var body errs
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.ErrorCode
		wantHTTP int
	}{
		{"no file", usecaseErrors.ErrNoFileSelected, errors.ErrorCode_NO_FILE_SELECTED, http.StatusBadRequest},
		{"wrapped file type", fmt.Errorf("%w: %q (%s)", usecaseErrors.ErrInvalidFileType, "a.pdf", "application/pdf"), errors.ErrorCode_INVALID_FILE_TYPE, http.StatusUnsupportedMediaType},
		{"empty file", usecaseErrors.ErrEmptyFile, errors.ErrorCode_EMPTY_FILE, http.StatusUnprocessableEntity},
		{"timeout", fmt.Errorf("chat: %w", usecaseErrors.ErrAnalysisTimeout), errors.ErrorCode_ANALYSIS_TIMEOUT, http.StatusGatewayTimeout},
		{"empty selection", usecaseErrors.ErrEmptySelection, errors.ErrorCode_EMPTY_SELECTION, http.StatusUnprocessableEntity},
		{"in flight", usecaseErrors.ErrConfirmInFlight, errors.ErrorCode_CONFIRM_IN_FLIGHT, http.StatusConflict},
		{"not authenticated", usecaseErrors.ErrNotAuthenticated, errors.ErrorCode_NOT_AUTHENTICATED, http.StatusUnauthorized},
		{"revoked session", usecaseErrors.ErrSessionRevoked, errors.ErrorCode_SESSION_LOST, http.StatusUnauthorized},
		{"follow self", usecaseErrors.ErrCannotFollowSelf, errors.ErrorCode_CANNOT_FOLLOW_SELF, http.StatusBadRequest},
		{"teacher missing", usecaseErrors.ErrTeacherNotFound, errors.ErrorCode_NOT_FOUND, http.StatusNotFound},
		{"closed", usecaseErrors.ErrConversationClosed, errors.ErrorCode_CONVERSATION_CLOSED, http.StatusConflict},
		{"image", usecaseErrors.ErrImageTooLarge, errors.ErrorCode_IMAGE_REJECTED, http.StatusUnprocessableEntity},
		{"unknown", stdErrors.New("boom"), errors.ErrorCode_INTERNAL, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantHTTP, got.HTTPCode)
		})
	}
}

func TestMapError_KeepsAppError(t *testing.T) {
	appErr := errors.ErrForbidden("nope")
	got := MapError(fmt.Errorf("wrapped: %w", appErr))
	assert.Equal(t, errors.ErrorCode_FORBIDDEN, got.Code)
	assert.Equal(t, "nope", got.Message)
}

func TestMapError_FileNameDetail(t *testing.T) {
	err := fmt.Errorf("%w: %q (%s)", usecaseErrors.ErrInvalidFileType, "notes final.pdf", "application/pdf")
	got := MapError(err)
	assert.Equal(t, "notes final.pdf", got.Details["file_name"])
}

func TestMapError_Validation(t *testing.T) {
	type req struct {
		Content string `validate:"required"`
	}
	err := pkgvalidator.New().Validate(&req{})
	require.Error(t, err)

	got := MapError(err)
	assert.Equal(t, errors.ErrorCode_INVALID_ARGUMENT, got.Code)
	assert.NotEmpty(t, got.Message)
}

func TestMapError_BindFailure(t *testing.T) {
	got := MapError(echo.NewHTTPError(http.StatusBadRequest, "unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, got.HTTPCode)
	assert.Equal(t, errors.ErrorCode_INVALID_PAYLOAD, got.Code)

	assert.Equal(t, http.StatusInternalServerError, MapError(echo.NewHTTPError(http.StatusBadGateway)).HTTPCode)
}

func TestErrorHandler(t *testing.T) {
	e := newTestEcho()

	t.Run("use case error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		e.HTTPErrorHandler(usecaseErrors.ErrUnauthorized, c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeError(t, rec)
		assert.EqualValues(t, errors.ErrorCode_UNAUTHENTICATED, body.Code)
	})

	t.Run("echo error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		e.HTTPErrorHandler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Not Found", body.Message)
	})
}

func TestHandleSuccess(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, HandleCreated(nil, c, map[string]int{"n": 1}))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.Equal(t, 1, body.Data["n"])
}

func TestQueryInt(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=7&offset=x", nil), httptest.NewRecorder())

	assert.Equal(t, 7, QueryInt(c, "limit", 20))
	assert.Equal(t, 0, QueryInt(c, "offset", 0))
	assert.Equal(t, 3, QueryInt(c, "missing", 3))
}
