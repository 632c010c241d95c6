package conversation

import "errors"

var (
	// ErrTurnInProgress rejects a question while the previous one is pending.
	ErrTurnInProgress = errors.New("a question is already being answered")
	// ErrEmptyQuestion rejects blank input.
	ErrEmptyQuestion = errors.New("question is empty")
)
