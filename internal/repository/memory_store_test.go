package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

func sampleUniversities() []models.University {
	return []models.University{
		{ID: "u3", Name: "Charles University", CountryID: "cz"},
		{ID: "u1", Name: "Aachen", CountryID: "de", EntranceExam: true},
		{ID: "u2", Name: "Berlin Tech", CountryID: "de"},
	}
}

func TestMemoryStoreFindSortsAndWindows(t *testing.T) {
	store := NewMemoryStore(sampleUniversities(), byName)
	ctx := context.Background()

	p := predicate.In{Field: models.FieldCountryID, Values: []string{"de", "cz"}}
	total, err := store.Count(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	first, err := store.Find(ctx, p, models.FindOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Aachen", first[0].Name)
	assert.Equal(t, "Berlin Tech", first[1].Name)

	second, err := store.Find(ctx, p, models.FindOptions{Skip: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Charles University", second[0].Name)

	beyond, err := store.Find(ctx, p, models.FindOptions{Skip: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestMemoryStoreDistinct(t *testing.T) {
	store := NewMemoryStore(sampleUniversities(), byName)

	values, err := store.Distinct(context.Background(), models.FieldCountryID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cz", "de"}, values)

	values, err = store.Distinct(context.Background(), models.FieldCountryID, predicate.Eq{Field: models.FieldEntranceExam, Value: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"de"}, values)
}

func TestMemoryStoreHonoursCancellation(t *testing.T) {
	store := NewMemoryStore(sampleUniversities(), byName)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Count(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Find(ctx, nil, models.FindOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreBlogsNewestFirst(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	stores := NewMemoryStores(Seed{Blogs: []models.Blog{
		{ID: "b1", Title: "Old", CountryID: "de", PublishedAt: now.Add(-48 * time.Hour)},
		{ID: "b2", Title: "New", CountryID: "de", PublishedAt: now},
	}})

	items, err := stores.Blogs.Find(context.Background(), nil, models.FindOptions{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "New", items[0].Title)
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()

	seed, err := LoadSeed(dir+"/missing.json", nil)
	require.NoError(t, err)
	assert.Empty(t, seed.Countries)

	valid := dir + "/seed.json"
	require.NoError(t, writeFile(valid, `{
		"countries": [{"id": "de", "name": "Germany"}],
		"universities": [{"id": "u1", "name": "Aachen", "country_id": "de"}],
		"majors": [{"id": "m1", "name": "CS", "university_id": "u1", "duration": 2, "duration_units": "Years"}],
		"blogs": [{"id": "b1", "title": "Visa", "country_id": "de", "published_at": "2025-01-01T00:00:00Z"}]
	}`))
	seed, err = LoadSeed(valid, validator.New())
	require.NoError(t, err)
	assert.Len(t, seed.Majors, 1)
	assert.Equal(t, "Years", seed.Majors[0].DurationUnits)

	invalid := dir + "/invalid.json"
	require.NoError(t, writeFile(invalid, `{"majors": [{"id": "m1", "name": "CS", "university_id": "u1", "duration_units": "Decades"}]}`))
	_, err = LoadSeed(invalid, validator.New())
	assert.Error(t, err)
}
