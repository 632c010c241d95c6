package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/repository"
)

var _ session.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements session.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.ID == "" {
		return repository.ErrInvalidInput
	}
	query := `
		INSERT INTO sessions (
			id, name, full_name, client, client_name, mode, email,
			created_at, last_activity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.User.Name,
		sess.User.FullName,
		sess.User.Client,
		sess.User.ClientName,
		sess.User.Mode,
		sess.User.Email,
		sess.CreatedAt.UTC(),
		sess.LastActivity.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `
		SELECT id, name, full_name, client, client_name, mode, email,
			created_at, last_activity
		FROM sessions
		WHERE id = ?
	`

	var sess session.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.User.Name,
		&sess.User.FullName,
		&sess.User.Client,
		&sess.User.ClientName,
		&sess.User.Mode,
		&sess.User.Email,
		&sess.CreatedAt,
		&sess.LastActivity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &sess, nil
}

// Touch moves a session's last activity forward
func (r *SessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_activity = ? WHERE id = ?`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return requireRow(result)
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireRow(result)
}

// Prune deletes sessions idle since before cutoff and reports how many went
func (r *SessionRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_activity < ?`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
