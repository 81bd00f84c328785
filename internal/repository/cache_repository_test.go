package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
)

func newRedisRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewCacheRepository(client, "studyabroad:", nil)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestCacheRepositorySetGetExpire(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "countries:{}", cachedPage{IDs: []string{"de", "fr"}}, time.Minute))
	assert.True(t, mr.Exists("studyabroad:countries:{}"))

	var got cachedPage
	require.NoError(t, repo.Get(ctx, "countries:{}", &got))
	assert.Equal(t, []string{"de", "fr"}, got.IDs)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "countries:{}", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPrefix(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		require.NoError(t, repo.Set(ctx, fmt.Sprintf("search:{\"page\":%d}", i), cachedPage{}, time.Minute))
	}
	require.NoError(t, repo.Set(ctx, "countries:{}", cachedPage{}, time.Minute))
	require.NoError(t, mr.Set("other-app:search:x", "1"))

	removed, err := repo.DeleteByPrefix(ctx, "search:")
	require.NoError(t, err)
	assert.Equal(t, 150, removed)
	assert.True(t, mr.Exists("studyabroad:countries:{}"))
	assert.True(t, mr.Exists("other-app:search:x"))
}

func TestCacheRepositoryPrefixIsGlobEscaped(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "search:[x]", cachedPage{}, time.Minute))
	require.NoError(t, repo.Set(ctx, "search:x", cachedPage{}, time.Minute))

	removed, err := repo.DeleteByPrefix(ctx, "search:[x]")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, mr.Exists("studyabroad:search:x"))
}

func TestCacheRepositoryDelete(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", cachedPage{}, time.Minute))
	removed, err := repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, mr.Exists("studyabroad:k"))

	removed, err = repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
