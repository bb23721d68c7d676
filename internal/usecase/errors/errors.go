package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
)

// Auth errors
var (
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrRateLimited        = errors.New("too many requests")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidOAuthState  = errors.New("invalid oauth state")
	ErrInvalidRefreshPair = errors.New("refresh token does not match session")
	ErrOAuthFailed        = errors.New("oauth sign-in failed")
	ErrAccountDisabled    = errors.New("account disabled")
)

// Profile and follow errors
var (
	ErrProfileRequired  = errors.New("teacher profile required")
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyContent = errors.New("post content is empty")
)

// Conversation errors
var (
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotConversationMember = errors.New("user is not part of this conversation")
	ErrCannotConnectSelf     = errors.New("cannot schedule a conversation with yourself")
	ErrScheduledInPast       = errors.New("scheduled time is in the past")
	ErrConversationClosed    = errors.New("conversation is no longer open")
	ErrCalendarFailed        = errors.New("calendar event creation failed")
	ErrRoomFailed            = errors.New("video room unavailable")
)

// Storage errors
var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)

// Transcript pipeline errors
var (
	ErrNoFileSelected        = errors.New("no file selected")
	ErrInvalidFileType       = errors.New("invalid file type")
	ErrEmptyFile             = errors.New("empty file")
	ErrAnalysisRequestFailed = errors.New("analysis request failed")
	ErrAnalysisTimeout       = errors.New("analysis timed out")
	ErrMalformedSuggestion   = errors.New("malformed suggestion")
	ErrEmptySelection        = errors.New("empty selection")
	ErrNoPendingSuggestions  = errors.New("no pending suggestions")
	ErrSelectionOutOfRange   = errors.New("selection index out of range")
	ErrConfirmInFlight       = errors.New("confirmation already in flight")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrPersistenceFailed     = errors.New("persistence failed")
	ErrSessionLost           = errors.New("session lost")
)
