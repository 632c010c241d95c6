package hub

import "errors"

var (
	// ErrUnknownView rejects navigation to a view that does not exist.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownMonth rejects a month that is not a month name.
	ErrUnknownMonth = errors.New("unknown month")
)
