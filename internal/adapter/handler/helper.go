package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/errors"
	"github.com/sideby/teachconnect/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	customValidator "github.com/sideby/teachconnect/pkg/validator"
)

const (
	AccessTokenCookie  = middleware.AccessTokenCookie
	RefreshTokenCookie = "refresh_token"
	WorkspaceCookie    = "workspace_id"

	workspaceCookieAge = 30 * 24 * time.Hour
)

// CookieConfig controls the attributes of the cookies set by handlers
type CookieConfig struct {
	Secure bool
	Domain string
}

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Title   string            `json:"title,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated is HandleSuccess with 201
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    status,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := MapError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Title:   appErr.Title,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// ErrorHandler renders errors returned by middleware and unmatched routes in
// the same shape as HandleError.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			_ = c.JSON(he.Code, errs{Code: he.Code, Message: msg})
			return
		}
		_ = HandleError(logger, c, err)
	}
}

// MapError translates use case sentinels into client-facing errors.
// An AppError anywhere in the chain is returned as is.
func MapError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) {
		return errors.ErrInvalidArgument(customValidator.Describe(verrs))
	}

	// Bind reports malformed bodies and bad content types this way
	var he *echo.HTTPError
	if stdErrors.As(err, &he) && he.Code < http.StatusInternalServerError {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return appErr
	}

	switch {
	// pipeline
	case stdErrors.Is(err, usecaseErrors.ErrNoFileSelected):
		return errors.ErrNoFileSelected()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidFileType):
		return errors.ErrInvalidFileType(fileNameOf(err))
	case stdErrors.Is(err, usecaseErrors.ErrEmptyFile):
		return errors.ErrEmptyFile()
	case stdErrors.Is(err, usecaseErrors.ErrAnalysisTimeout):
		return errors.ErrAnalysisTimeout(err)
	case stdErrors.Is(err, usecaseErrors.ErrAnalysisRequestFailed):
		return errors.ErrAnalysisRequestFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrMalformedSuggestion):
		return errors.ErrMalformedSuggestion(err)
	case stdErrors.Is(err, usecaseErrors.ErrEmptySelection):
		return errors.ErrEmptySelection()
	case stdErrors.Is(err, usecaseErrors.ErrNoPendingSuggestions):
		return errors.ErrNoPendingSuggestions()
	case stdErrors.Is(err, usecaseErrors.ErrSelectionOutOfRange):
		return errors.ErrSelectionOutOfRange()
	case stdErrors.Is(err, usecaseErrors.ErrConfirmInFlight):
		return errors.ErrConfirmInFlight()
	case stdErrors.Is(err, usecaseErrors.ErrNotAuthenticated):
		return errors.ErrNotAuthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrPersistenceFailed):
		return errors.ErrPersistenceFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrSessionLost),
		stdErrors.Is(err, usecaseErrors.ErrSessionRevoked),
		stdErrors.Is(err, usecaseErrors.ErrSessionExpired),
		stdErrors.Is(err, usecaseErrors.ErrSessionNotFound):
		return errors.ErrSessionLost()

	// auth
	case stdErrors.Is(err, usecaseErrors.ErrTokenExpired):
		return errors.ErrTokenExpired()
	case stdErrors.Is(err, usecaseErrors.ErrTokenInvalid):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidRefreshPair):
		return errors.ErrInvalidRefreshToken()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidOAuthState):
		return errors.ErrInvalidArgument("Sign-in link expired, please try again")
	case stdErrors.Is(err, usecaseErrors.ErrRateLimited):
		return errors.ErrRateLimited()
	case stdErrors.Is(err, usecaseErrors.ErrEmailNotConfirmed):
		return errors.ErrEmailNotConfirmed()
	case stdErrors.Is(err, usecaseErrors.ErrOAuthFailed):
		return errors.ErrOAuthFailed("google", err)
	case stdErrors.Is(err, usecaseErrors.ErrAccountDisabled):
		return errors.ErrAccountDisabled()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidSignature):
		return errors.ErrInvalidSignature()
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()

	// social
	case stdErrors.Is(err, usecaseErrors.ErrProfileRequired):
		return errors.ErrProfileRequired()
	case stdErrors.Is(err, usecaseErrors.ErrTeacherNotFound):
		return errors.ErrNotFound("Teacher")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyFollowing):
		return errors.ErrAlreadyFollowing()
	case stdErrors.Is(err, usecaseErrors.ErrNotFollowing):
		return errors.ErrNotFollowing()
	case stdErrors.Is(err, usecaseErrors.ErrCannotFollowSelf):
		return errors.ErrCannotFollowSelf()
	case stdErrors.Is(err, usecaseErrors.ErrPostNotFound):
		return errors.ErrNotFound("Post")
	case stdErrors.Is(err, usecaseErrors.ErrEmptyContent):
		return errors.ErrInvalidArgument("Post content cannot be empty")
	case stdErrors.Is(err, usecaseErrors.ErrUnsupportedImage):
		return errors.ErrImageRejected("Please upload a JPEG, PNG or WebP image")
	case stdErrors.Is(err, usecaseErrors.ErrImageTooLarge):
		return errors.ErrImageRejected("Images must be 5 MB or smaller")

	// conversations
	case stdErrors.Is(err, usecaseErrors.ErrConversationNotFound):
		return errors.ErrNotFound("Conversation")
	case stdErrors.Is(err, usecaseErrors.ErrNotConversationMember):
		return errors.ErrForbidden("You are not part of this conversation")
	case stdErrors.Is(err, usecaseErrors.ErrCannotConnectSelf):
		return errors.ErrInvalidArgument("You cannot schedule a conversation with yourself")
	case stdErrors.Is(err, usecaseErrors.ErrScheduledInPast):
		return errors.ErrScheduledInPast()
	case stdErrors.Is(err, usecaseErrors.ErrConversationClosed):
		return errors.ErrConversationClosed()
	case stdErrors.Is(err, usecaseErrors.ErrCalendarFailed):
		return errors.ErrCalendarFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrRoomFailed):
		return errors.ErrLiveKitFailed("join room", err)

	// common
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrForbidden("You do not have access to this resource")
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("Resource")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.ErrAlreadyExists("Resource")
	}

	return errors.ErrInternal(err)
}

// fileNameOf pulls the quoted file name out of an intake error message
func fileNameOf(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	if name, err := strconv.QuotedPrefix(msg[start:]); err == nil {
		if unq, err := strconv.Unquote(name); err == nil {
			return unq
		}
	}
	return ""
}

// SetCookie sets an HTTP-only cookie scoped to the whole site
func SetCookie(c echo.Context, cfg CookieConfig, name, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteCookie expires a cookie set by SetCookie
func DeleteCookie(c echo.Context, cfg CookieConfig, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
	})
}

// QueryInt returns the integer query parameter key, or def when absent or malformed
func QueryInt(c echo.Context, key string, def int) int {
	raw := c.QueryParam(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
