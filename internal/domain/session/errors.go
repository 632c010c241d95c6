package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidPIN indicates the PIN matched no profile.
	ErrInvalidPIN = errors.New("invalid pin")
)
