package mocks

import (
	"context"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// SessionRepository is a mock for session.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *SessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// PreferenceRepository is a mock for repository.PreferenceRepository.
type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) Get(ctx context.Context, owner, key string) (string, error) {
	args := m.Called(ctx, owner, key)
	return args.String(0), args.Error(1)
}

func (m *PreferenceRepository) Set(ctx context.Context, owner, key, value string) error {
	args := m.Called(ctx, owner, key, value)
	return args.Error(0)
}

func (m *PreferenceRepository) Delete(ctx context.Context, owner, key string) error {
	args := m.Called(ctx, owner, key)
	return args.Error(0)
}
