package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type cachedPage struct {
	IDs []string `json:"ids"`
}

func TestMemoryCacheLazyExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryCacheRepository(WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "search:{}", cachedPage{IDs: []string{"de"}}, time.Minute))

	var got cachedPage
	require.NoError(t, repo.Get(ctx, "search:{}", &got))
	assert.Equal(t, []string{"de"}, got.IDs)

	clock.Advance(59 * time.Second)
	require.NoError(t, repo.Get(ctx, "search:{}", &got))

	clock.Advance(time.Second)
	err := repo.Get(ctx, "search:{}", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryCacheMissAndDelete(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	var got cachedPage
	assert.ErrorIs(t, repo.Get(ctx, "absent", &got), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "k", cachedPage{}, 0))
	removed, err := repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.ErrorIs(t, repo.Get(ctx, "k", &got), appErrors.ErrCacheMiss)

	removed, err = repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryCacheDeleteExpiredCountsNothing(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryCacheRepository(WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "countries:{}", cachedPage{}, time.Minute))
	clock.now = clock.now.Add(2 * time.Minute)

	removed, err := repo.Delete(ctx, "countries:{}")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Zero(t, repo.Len())
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()
	for _, key := range []string{"universities-by-country:{\"a\":1}", "universities-by-country:{\"b\":2}", "search:{}"} {
		require.NoError(t, repo.Set(ctx, key, cachedPage{}, time.Minute))
	}

	removed, err := repo.DeleteByPrefix(ctx, "universities-by-country:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryCacheSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryCacheRepository(WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "short", cachedPage{}, time.Second))
	require.NoError(t, repo.Set(ctx, "long", cachedPage{}, time.Hour))
	require.NoError(t, repo.Set(ctx, "forever", cachedPage{}, 0))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 2, repo.Len())
}

func TestMemoryCacheSweeperStopsWithContext(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	repo := NewMemoryCacheRepository(WithClock(clock.Now))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Set(ctx, "short", cachedPage{}, time.Millisecond))
	clock.Advance(time.Second)
	repo.StartSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return repo.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got cachedPage
			for j := 0; j < 100; j++ {
				_ = repo.Set(ctx, "shared", cachedPage{IDs: []string{"x"}}, time.Minute)
				_ = repo.Get(ctx, "shared", &got)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, repo.Len())
}
