package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/repository"
)

var testUser = domain.PublicUser{ID: "u-1", Email: "user@test.com"}

func TestTokenStrategy(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStrategy(NewTokenManager("secret", 24*time.Hour))
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	token, expiresAt, err := s.Issue(ctx, testUser, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	identity, err := s.Resolve(ctx, token, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, domain.Identity{UserID: "u-1", Email: "user@test.com"}, *identity)

	identity, err = s.Resolve(ctx, token, expiresAt)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = s.Resolve(ctx, "tampered", now)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestStoredSessionStrategy(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySessionRepository()
	s := NewStoredSessionStrategy(repo, time.Hour, nil)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	id, expiresAt, err := s.Issue(ctx, testUser, now)
	require.NoError(t, err)
	assert.Len(t, id, 43)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	other, _, err := s.Issue(ctx, testUser, now)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	identity, err := s.Resolve(ctx, id, now.Add(59*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "u-1", identity.UserID)

	identity, err = s.Resolve(ctx, "unknown", now)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = s.Resolve(ctx, id, expiresAt)
	require.NoError(t, err)
	assert.Nil(t, identity)
	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored, "expired session should be deleted")
}

type failingSessions struct{}

func (failingSessions) Create(context.Context, domain.Session) error { return errors.New("down") }
func (failingSessions) Get(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("down")
}
func (failingSessions) Delete(context.Context, string) error { return errors.New("down") }

func TestStoredSessionStrategy_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	s := NewStoredSessionStrategy(failingSessions{}, time.Hour, nil)
	now := time.Now()

	_, _, err := s.Issue(ctx, testUser, now)
	assert.Error(t, err)

	identity, err := s.Resolve(ctx, "id", now)
	assert.Error(t, err)
	assert.Nil(t, identity)
}
