package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceDisabled(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	hit, err := svc.Get(context.Background(), "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, repo.writes())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	removed, err := nilSvc.DeleteByPrefix(context.Background(), "search:")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(&stubCacheRepo{}, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out string
	hit, err := svc.Get(ctx, "countries:{}", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "countries:{}", "cached", 0))
	hit, err = svc.Get(ctx, "countries:{}", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "cached", out)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("miss")))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{err: errStorageDown}, nil, time.Minute, nil, true)
	hit, err := svc.Get(context.Background(), "k", new(string))
	assert.False(t, hit)
	assert.ErrorIs(t, err, errStorageDown)
}

func TestCacheServiceDeleteByPrefix(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, nil, true)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "search:a", 1, 0))
	require.NoError(t, svc.Set(ctx, "search:b", 2, 0))
	require.NoError(t, svc.Set(ctx, "countries:{}", 3, 0))

	removed, err := svc.DeleteByPrefix(ctx, "search:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	hit, err := svc.Get(ctx, "countries:{}", new(int))
	require.NoError(t, err)
	assert.True(t, hit)

	removed, err = svc.Delete(ctx, "countries:{}")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	hit, err = svc.Get(ctx, "countries:{}", new(int))
	require.NoError(t, err)
	assert.False(t, hit)

	removed, err = svc.Delete(ctx, "countries:{}")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
