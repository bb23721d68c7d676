package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidRole  = errors.New("invalid role")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Teacher errors
	ErrTeacherNotFound          = errors.New("teacher not found")
	ErrInvalidFullName          = errors.New("full name is required")
	ErrInvalidExperienceYears   = errors.New("experience years must not be negative")
	ErrFollowNotFound           = errors.New("follow not found")
	ErrFollowAlreadyExists      = errors.New("follow already exists")
	ErrConversationNotFound     = errors.New("conversation not found")
	ErrInvalidConversationState = errors.New("invalid conversation status")

	// Post errors
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidPostType = errors.New("invalid post type")
	ErrEmptyPost       = errors.New("post content is empty")
)
