package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/authgate/internal/domain"
)

func TestMemoryUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "1", Email: "user@test.com", PasswordHash: "h"}))

	got, err := repo.GetByEmail(ctx, "USER@test.COM")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepository_DuplicateIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "1", Email: "user@test.com"}))
	err := repo.Create(ctx, &domain.User{ID: "2", Email: "User@Test.com"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestMemoryUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Create(ctx, &domain.User{ID: fmt.Sprint(i), Email: "race@test.com"}); err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryUserRepository_ListOrderAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "2", Email: "b@test.com", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "1", Email: "a@test.com", CreatedAt: base}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)

	require.NoError(t, repo.DeleteAll(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
