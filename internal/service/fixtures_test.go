package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/internal/repository"
	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// countingStore records calls made against a wrapped store.
type countingStore[T any] struct {
	inner    Store[T]
	mu       sync.Mutex
	counts   int
	finds    int
	distinct int
	err      error
}

func (s *countingStore[T]) Count(ctx context.Context, p predicate.Predicate) (int, error) {
	s.mu.Lock()
	s.counts++
	s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.inner.Count(ctx, p)
}

func (s *countingStore[T]) Find(ctx context.Context, p predicate.Predicate, opts models.FindOptions) ([]T, error) {
	s.mu.Lock()
	s.finds++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Find(ctx, p, opts)
}

func (s *countingStore[T]) Distinct(ctx context.Context, field string, p predicate.Predicate) ([]string, error) {
	s.mu.Lock()
	s.distinct++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Distinct(ctx, field, p)
}

func (s *countingStore[T]) calls() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts, s.finds, s.distinct
}

type directoryFixture struct {
	countries    *countingStore[models.Country]
	universities *countingStore[models.University]
	majors       *countingStore[models.Major]
	blogs        *countingStore[models.Blog]
}

func (f directoryFixture) stores() Stores {
	return Stores{Countries: f.countries, Universities: f.universities, Majors: f.majors, Blogs: f.blogs}
}

func newDirectoryFixture() directoryFixture {
	published := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mem := repository.NewMemoryStores(repository.Seed{
		Countries: []models.Country{
			{ID: "de", Name: "Germany"},
			{ID: "fr", Name: "France"},
			{ID: "it", Name: "Italy"},
		},
		Universities: []models.University{
			{ID: "u1", Name: "Aachen", CountryID: "de", CountryName: "Germany", UniType: "Public"},
			{ID: "u2", Name: "Berlin Tech", CountryID: "de", CountryName: "Germany", UniType: "Public", EntranceExam: true},
			{ID: "u3", Name: "Cologne Business", CountryID: "de", CountryName: "Germany", UniType: "Private"},
			{ID: "u4", Name: "Sorbonne", CountryID: "fr", CountryName: "France", UniType: "Public"},
		},
		Majors: []models.Major{
			{ID: "m1", Name: "Computer Science", UniversityID: "u1", CountryID: "de", StudyLevel: "Master", Budget: 3000, Duration: 2.5, DurationUnits: models.DurationUnitYears,
				Tags: models.Tags{{EN: "computing", AR: "حاسوب"}}},
			{ID: "m2", Name: "Data Engineering", UniversityID: "u2", CountryID: "de", StudyLevel: "Master", Budget: 8000, Duration: 200, DurationUnits: models.DurationUnitWeeks},
			{ID: "m3", Name: "Economics", UniversityID: "u3", CountryID: "de", StudyLevel: "Bachelor", Budget: 15000, Duration: 36, DurationUnits: models.DurationUnitMonths},
			{ID: "m4", Name: "Law", UniversityID: "u4", CountryID: "fr", StudyLevel: "Master", Budget: 500, Duration: 2, DurationUnits: models.DurationUnitYears},
		},
		Blogs: []models.Blog{
			{ID: "b1", Title: "Visa in Germany", CountryID: "de", PublishedAt: published},
			{ID: "b2", Title: "Living in Paris", CountryID: "fr", PublishedAt: published.Add(time.Hour)},
		},
	})
	return directoryFixture{
		countries:    &countingStore[models.Country]{inner: mem.Countries},
		universities: &countingStore[models.University]{inner: mem.Universities},
		majors:       &countingStore[models.Major]{inner: mem.Majors},
		blogs:        &countingStore[models.Blog]{inner: mem.Blogs},
	}
}

type stubCacheRepo struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
	err   error
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	s.sets++
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[key]; !ok {
		return 0, nil
	}
	delete(s.store, key)
	return 1, nil
}

func (s *stubCacheRepo) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.store {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.store, key)
			removed++
		}
	}
	return removed, nil
}

func (s *stubCacheRepo) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

var errStorageDown = errors.New("storage unavailable")
