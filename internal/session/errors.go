package session

import "errors"

var (
	// ErrInvalidCredential is returned when the email/password pair does not
	// match any configured user.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrNoSession is returned when a token does not resolve to a live session.
	ErrNoSession = errors.New("no active session")

	// ErrTooManyAttempts is returned when login attempts for an email exceed
	// the configured rate.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
