package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type returned to API clients.
// Title and Message double as the transient notification shown by the client.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Title     string
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Title:    "Error",
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Title:    "Invalid request",
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Title:    "Not found",
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAlreadyExists(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_EXISTS,
		Title:    "Already exists",
		Message:  fmt.Sprintf("%s already exists", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Title:    "Authentication required",
		Message:  "Please sign in to continue.",
	}
}

func ErrForbidden(message string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_FORBIDDEN,
		Title:    "Forbidden",
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Title:    "Invalid request",
		Message:  "Invalid payload",
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Title:    "Authentication required",
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Title:    "Session Error",
		Message:  "Your session has expired. Please sign in again.",
	}
}

func ErrUserNotFound() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_AUTH_USER_NOT_FOUND,
		Title:    "Not found",
		Message:  "User not found",
	}
}

func ErrInvalidRefreshToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_REFRESH_TOKEN,
		Title:    "Session Error",
		Message:  "Invalid refresh token",
	}
}

func ErrOAuthFailed(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_OAUTH_FAILED,
		Title:    "Sign in failed",
		Message:  fmt.Sprintf("OAuth authentication failed with %s", provider),
	}
}

func ErrRateLimited() AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_AUTH_RATE_LIMITED,
		Title:    "Too many attempts",
		Message:  "Too many attempts. Please wait a moment before trying again.",
	}
}

func ErrEmailNotConfirmed() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_AUTH_EMAIL_NOT_CONFIRMED,
		Title:    "Email not confirmed",
		Message:  "Please confirm your email before signing in.",
	}
}

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_SIGNATURE,
		Title:    "Invalid signature",
		Message:  "Request signature verification failed",
	}
}

// Transcript Pipeline Errors
func ErrNoFileSelected() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_NO_FILE_SELECTED,
		Title:    "No file detected",
		Message:  "Please try selecting the file again.",
	}
}

func ErrInvalidFileType(name string) AppError {
	return AppError{
		HTTPCode: http.StatusUnsupportedMediaType,
		Code:     ErrorCode_INVALID_FILE_TYPE,
		Title:    "Invalid file type",
		Message:  "Please select a text (.txt) or subtitle (.vtt) file containing your conversation transcript.",
	}.WithDetail("file_name", name)
}

func ErrEmptyFile() AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_EMPTY_FILE,
		Title:    "Empty file",
		Message:  "The transcript file appears to be empty.",
	}
}

func ErrAnalysisRequestFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ANALYSIS_REQUEST_FAILED,
		Title:    "Error processing transcript",
		Message:  "Failed to process the transcript. Please try again.",
	}
}

func ErrAnalysisTimeout(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_ANALYSIS_TIMEOUT,
		Title:    "Analysis timed out",
		Message:  "The analysis service took too long to respond. Please try again.",
	}
}

func ErrMalformedSuggestion(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_MALFORMED_SUGGESTION,
		Title:    "Error processing transcript",
		Message:  "The generated suggestions could not be read. Please try again.",
	}
}

func ErrEmptySelection() AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_EMPTY_SELECTION,
		Title:    "No posts selected",
		Message:  "Please select at least one post to publish.",
	}
}

func ErrNoPendingSuggestions() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_NO_PENDING_SUGGESTIONS,
		Title:    "Nothing to review",
		Message:  "There are no pending suggestions. Upload a transcript first.",
	}
}

func ErrConfirmInFlight() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CONFIRM_IN_FLIGHT,
		Title:    "Publishing",
		Message:  "Your posts are already being published.",
	}
}

func ErrNotAuthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_NOT_AUTHENTICATED,
		Title:    "Authentication required",
		Message:  "Please sign in to publish posts.",
	}
}

func ErrPersistenceFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PERSISTENCE_FAILED,
		Title:    "Error",
		Message:  "Failed to save posts. Please try again.",
	}
}

func ErrSessionLost() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_SESSION_LOST,
		Title:    "Session ended",
		Message:  "Please sign in to continue.",
	}.WithDetail("redirect", "/")
}

// Social Errors
func ErrProfileRequired() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PROFILE_REQUIRED,
		Title:    "Profile required",
		Message:  "Please complete your teacher profile first",
	}
}

func ErrAlreadyFollowing() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_FOLLOWING,
		Title:    "Already following",
		Message:  "You are already following this teacher",
	}
}

func ErrNotFollowing() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOLLOWING,
		Title:    "Not following",
		Message:  "You are not following this teacher",
	}
}

// Integration Errors
func ErrLiveKitFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_LIVEKIT_FAILED,
		Title:    "Error",
		Message:  fmt.Sprintf("LiveKit operation failed: %s", operation),
	}
}

func ErrCalendarFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INTEGRATION_CALENDAR_FAILED,
		Title:    "Error",
		Message:  "Failed to schedule the calendar event. Please try again.",
	}
}

func ErrAccountDisabled() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_AUTH_ACCOUNT_DISABLED,
		Title:    "Account disabled",
		Message:  "This account has been disabled",
	}
}

func ErrSelectionOutOfRange() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_SELECTION_OUT_OF_RANGE,
		Title:    "Invalid selection",
		Message:  "That suggestion is no longer available",
	}
}

func ErrCannotFollowSelf() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_CANNOT_FOLLOW_SELF,
		Title:    "Invalid request",
		Message:  "You cannot follow yourself",
	}
}

func ErrScheduledInPast() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_SCHEDULED_IN_PAST,
		Title:    "Invalid time",
		Message:  "Please pick a time in the future",
	}
}

func ErrConversationClosed() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CONVERSATION_CLOSED,
		Title:    "Conversation closed",
		Message:  "This conversation is no longer open",
	}
}

func ErrImageRejected(reason string) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_IMAGE_REJECTED,
		Title:    "Invalid image",
		Message:  reason,
	}
}
