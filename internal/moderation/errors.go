package moderation

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when a moderation request is rejected locally, before
// any call is made to Twitch
var ErrInvalidRequest = errors.New("invalid moderation request")

// ErrUserNotFound is returned when a target username does not resolve to a Twitch user
var ErrUserNotFound = errors.New("user not found")

// ErrNoSession is returned when an action is attempted without a logged-in user
var ErrNoSession = errors.New("no active session")

// ErrNotModerator is returned when the logged-in user does not moderate the channel in
// which they've attempted to take an action
var ErrNotModerator = errors.New("you are not a moderator of this channel")

// invalidRequestError unwraps to ErrInvalidRequest and carries a user-facing message
// describing what's wrong with the request
type invalidRequestError struct {
	message string
}

func (e *invalidRequestError) Error() string {
	return e.message
}

func (e *invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func invalid(message string) error {
	return &invalidRequestError{message: message}
}

// userNotFoundError unwraps to ErrUserNotFound
type userNotFoundError struct {
	username string
}

func (e *userNotFoundError) Error() string {
	return fmt.Sprintf("User '%s' not found.", e.username)
}

func (e *userNotFoundError) Unwrap() error {
	return ErrUserNotFound
}
