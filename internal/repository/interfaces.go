package repository

import "context"

// PreferenceRepository stores small per-user settings, keyed by owner and
// name. Get returns ErrNotFound for a missing key.
type PreferenceRepository interface {
	Get(ctx context.Context, owner, key string) (string, error)
	Set(ctx context.Context, owner, key, value string) error
	Delete(ctx context.Context, owner, key string) error
}
