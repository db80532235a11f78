package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client), mr
}

func TestCacheRepositorySetGet(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "availability:window:inst-1:a", map[string]int{"n": 1}, time.Minute))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "availability:window:inst-1:a", &got))
	assert.Equal(t, 1, got["n"])

	mr.FastForward(2 * time.Minute)
	err := repo.Get(ctx, "availability:window:inst-1:a", &got)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "availability:window:inst-1:a", 1, time.Minute))
	require.NoError(t, repo.Set(ctx, "availability:window:inst-1:b", 2, time.Minute))
	require.NoError(t, repo.Set(ctx, "availability:window:inst-2:a", 3, time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "availability:window:inst-1:*"))
	assert.False(t, mr.Exists("availability:window:inst-1:a"))
	assert.False(t, mr.Exists("availability:window:inst-1:b"))
	assert.True(t, mr.Exists("availability:window:inst-2:a"))
}

func TestCacheRepositoryNilClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest int
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "k*"))
}
