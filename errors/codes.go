package errors

import "strconv"

// ErrorCode is the stable machine-readable code sent to clients.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 2
	ErrorCode_NOT_FOUND         ErrorCode = 3
	ErrorCode_ALREADY_EXISTS    ErrorCode = 4
	ErrorCode_PERMISSION_DENIED ErrorCode = 5
	ErrorCode_UNAUTHENTICATED   ErrorCode = 6
	ErrorCode_FORBIDDEN         ErrorCode = 7
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 8
	ErrorCode_CONFLICT          ErrorCode = 9

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 100
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 101
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 102
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 103
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 104
	ErrorCode_AUTH_RATE_LIMITED          ErrorCode = 105
	ErrorCode_AUTH_EMAIL_NOT_CONFIRMED   ErrorCode = 106
	ErrorCode_AUTH_INVALID_SIGNATURE     ErrorCode = 107
	ErrorCode_AUTH_ACCOUNT_DISABLED      ErrorCode = 108

	// Transcript pipeline
	ErrorCode_NO_FILE_SELECTED        ErrorCode = 200
	ErrorCode_INVALID_FILE_TYPE       ErrorCode = 201
	ErrorCode_EMPTY_FILE              ErrorCode = 202
	ErrorCode_ANALYSIS_REQUEST_FAILED ErrorCode = 203
	ErrorCode_ANALYSIS_TIMEOUT        ErrorCode = 204
	ErrorCode_MALFORMED_SUGGESTION    ErrorCode = 205
	ErrorCode_EMPTY_SELECTION         ErrorCode = 206
	ErrorCode_NOT_AUTHENTICATED       ErrorCode = 207
	ErrorCode_PERSISTENCE_FAILED      ErrorCode = 208
	ErrorCode_SESSION_LOST            ErrorCode = 209
	ErrorCode_NO_PENDING_SUGGESTIONS  ErrorCode = 210
	ErrorCode_CONFIRM_IN_FLIGHT       ErrorCode = 211
	ErrorCode_SELECTION_OUT_OF_RANGE  ErrorCode = 212

	// Social
	ErrorCode_PROFILE_REQUIRED    ErrorCode = 300
	ErrorCode_ALREADY_FOLLOWING   ErrorCode = 301
	ErrorCode_NOT_FOLLOWING       ErrorCode = 302
	ErrorCode_CANNOT_FOLLOW_SELF  ErrorCode = 303
	ErrorCode_SCHEDULED_IN_PAST   ErrorCode = 304
	ErrorCode_CONVERSATION_CLOSED ErrorCode = 305
	ErrorCode_IMAGE_REJECTED      ErrorCode = 306

	// Integration
	ErrorCode_INTEGRATION_LIVEKIT_FAILED      ErrorCode = 400
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 401
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 402
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 403
	ErrorCode_INTEGRATION_CALENDAR_FAILED     ErrorCode = 404

	// Database
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 500
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 501
)

var ErrorCode_name = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                     "UNSPECIFIED",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:                        "CONFLICT",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:             "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN:      "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:               "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_RATE_LIMITED:               "AUTH_RATE_LIMITED",
	ErrorCode_AUTH_EMAIL_NOT_CONFIRMED:        "AUTH_EMAIL_NOT_CONFIRMED",
	ErrorCode_AUTH_INVALID_SIGNATURE:          "AUTH_INVALID_SIGNATURE",
	ErrorCode_AUTH_ACCOUNT_DISABLED:           "AUTH_ACCOUNT_DISABLED",
	ErrorCode_NO_FILE_SELECTED:                "NO_FILE_SELECTED",
	ErrorCode_INVALID_FILE_TYPE:               "INVALID_FILE_TYPE",
	ErrorCode_EMPTY_FILE:                      "EMPTY_FILE",
	ErrorCode_ANALYSIS_REQUEST_FAILED:         "ANALYSIS_REQUEST_FAILED",
	ErrorCode_ANALYSIS_TIMEOUT:                "ANALYSIS_TIMEOUT",
	ErrorCode_MALFORMED_SUGGESTION:            "MALFORMED_SUGGESTION",
	ErrorCode_EMPTY_SELECTION:                 "EMPTY_SELECTION",
	ErrorCode_NOT_AUTHENTICATED:               "NOT_AUTHENTICATED",
	ErrorCode_PERSISTENCE_FAILED:              "PERSISTENCE_FAILED",
	ErrorCode_SESSION_LOST:                    "SESSION_LOST",
	ErrorCode_NO_PENDING_SUGGESTIONS:          "NO_PENDING_SUGGESTIONS",
	ErrorCode_CONFIRM_IN_FLIGHT:               "CONFIRM_IN_FLIGHT",
	ErrorCode_SELECTION_OUT_OF_RANGE:          "SELECTION_OUT_OF_RANGE",
	ErrorCode_PROFILE_REQUIRED:                "PROFILE_REQUIRED",
	ErrorCode_ALREADY_FOLLOWING:               "ALREADY_FOLLOWING",
	ErrorCode_NOT_FOLLOWING:                   "NOT_FOLLOWING",
	ErrorCode_CANNOT_FOLLOW_SELF:              "CANNOT_FOLLOW_SELF",
	ErrorCode_SCHEDULED_IN_PAST:               "SCHEDULED_IN_PAST",
	ErrorCode_CONVERSATION_CLOSED:             "CONVERSATION_CLOSED",
	ErrorCode_IMAGE_REJECTED:                  "IMAGE_REJECTED",
	ErrorCode_INTEGRATION_LIVEKIT_FAILED:      "INTEGRATION_LIVEKIT_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_INTEGRATION_CALENDAR_FAILED:     "INTEGRATION_CALENDAR_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:           "DB_TRANSACTION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := ErrorCode_name[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}
