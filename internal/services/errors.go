package services

import "errors"

// Domain errors surfaced to the HTTP layer, matched with errors.Is.
var (
	// ErrDuplicateUser is returned when a registration targets an
	// already-taken username.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately: the caller must not be able to tell which
	// field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTaskNotFound covers both a nonexistent task and a task owned by
	// another user, deliberately indistinguishable to the caller.
	ErrTaskNotFound = errors.New("task not found")
)
