package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MGhunch/dot-hub/internal/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)

// PreferenceRepository implements repository.PreferenceRepository for SQLite
type PreferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns a stored value
func (r *PreferenceRepository) Get(ctx context.Context, owner, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE owner = ? AND key = ?`,
		owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference: %w", err)
	}
	return value, nil
}

// Set stores a value, replacing any previous one
func (r *PreferenceRepository) Set(ctx context.Context, owner, key, value string) error {
	if owner == "" || key == "" {
		return repository.ErrInvalidInput
	}
	query := `
		INSERT INTO preferences (owner, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, owner, key, value); err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}

// Delete forgets a value
func (r *PreferenceRepository) Delete(ctx context.Context, owner, key string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE owner = ? AND key = ?`,
		owner, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return requireRow(result)
}
