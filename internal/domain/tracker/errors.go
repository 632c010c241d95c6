package tracker

import "errors"

var (
	// ErrNoChanges indicates an update with nothing to change.
	ErrNoChanges = errors.New("no fields to update")
	// ErrUnknownClient indicates a client without a tracker profile.
	ErrUnknownClient = errors.New("unknown tracker client")
	// ErrInvalidSpendType indicates a spend type outside the known set.
	ErrInvalidSpendType = errors.New("invalid spend type")
)
