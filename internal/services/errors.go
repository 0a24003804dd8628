// Package services defines the business logic for authentication, chats,
// and the ask pipeline. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Authentication errors.
var (
	// ErrDuplicateEmail indicates a registration attempt with an email
	// address that is already taken.
	ErrDuplicateEmail = errors.New("user already exists with this email")

	// ErrInvalidCredentials is returned for a failed login. It is
	// deliberately the same for "no such user" and "wrong password" so the
	// response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a session token is malformed,
	// carries a bad signature, or has expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound indicates that a user id from a verified token no
	// longer resolves to a record.
	ErrUserNotFound = errors.New("user not found")
)

// Conversation errors.
var (
	// ErrEmptyMessage is returned when an ask request contains an empty or
	// whitespace-only message.
	ErrEmptyMessage = errors.New("message is required")

	// ErrTooLong is returned when a message exceeds the maximum configured
	// length limit.
	ErrTooLong = errors.New("message too long")

	// ErrChatNotFound indicates that the requested chat does not exist or
	// is not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")
)
