package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/repository"
	"github.com/stretchr/testify/require"
)

func newSession(id string, at time.Time) *session.Session {
	return &session.Session{
		ID: id,
		User: session.User{
			Name:       "Michael",
			FullName:   "Michael Goldthorpe",
			Client:     "ALL",
			ClientName: "Hunch",
			Mode:       session.ModeHunch,
		},
		CreatedAt:    at,
		LastActivity: at,
	}
}

func TestSessionRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newSession("s1", now)))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Michael", loaded.User.Name)
	require.Equal(t, "Michael Goldthorpe", loaded.User.FullName)
	require.Equal(t, session.ModeHunch, loaded.User.Mode)
	require.True(t, loaded.CreatedAt.Equal(now))

	require.ErrorIs(t, repo.Create(ctx, newSession("s1", now)), repository.ErrConflict)
	require.ErrorIs(t, repo.Create(ctx, &session.Session{}), repository.ErrInvalidInput)
}

func TestSessionRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_TouchDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newSession("s1", now)))

	later := now.Add(10 * time.Minute)
	require.NoError(t, repo.Touch(ctx, "s1", later))
	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, loaded.LastActivity.Equal(later))

	require.ErrorIs(t, repo.Touch(ctx, "nope", later), repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "s1"))
	require.ErrorIs(t, repo.Delete(ctx, "s1"), repository.ErrNotFound)
	_, err = repo.Get(ctx, "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_Prune(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newSession("old", now.Add(-8*24*time.Hour))))
	require.NoError(t, repo.Create(ctx, newSession("fresh", now.Add(-time.Hour))))

	n, err := repo.Prune(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "old")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Get(ctx, "fresh")
	require.NoError(t, err)
}
