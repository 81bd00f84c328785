package service

import (
	"context"
	"time"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// Collection labels used in storage metrics.
const (
	collectionCountries    = "countries"
	collectionUniversities = "universities"
	collectionMajors       = "majors"
	collectionBlogs        = "blogs"
)

// FetchPage counts the matches of p and, when there are any, loads the
// requested window. Count and find run as separate calls, so the total may
// lag concurrent writes.
func FetchPage[T any](ctx context.Context, metrics *MetricsService, collection string, store Store[T], p predicate.Predicate, page models.PageRequest, projection []string) (models.PageResult[T], error) {
	start := time.Now()
	total, err := store.Count(ctx, p)
	metrics.ObserveStorage(collection, "count", time.Since(start), err)
	if err != nil {
		return models.PageResult[T]{}, err
	}
	if total == 0 {
		return models.EmptyPage[T](page), nil
	}

	start = time.Now()
	items, err := store.Find(ctx, p, models.FindOptions{
		Projection: projection,
		Skip:       page.Skip(),
		Limit:      page.Limit,
	})
	metrics.ObserveStorage(collection, "find", time.Since(start), err)
	if err != nil {
		return models.PageResult[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return models.PageResult[T]{Items: items, Total: total, Page: page}, nil
}

// distinctValues wraps Store.Distinct with metrics. A nil predicate result is
// normalised to an empty, non-nil slice so it still restricts an In filter.
func distinctValues[T any](ctx context.Context, metrics *MetricsService, collection string, store Store[T], field string, p predicate.Predicate) ([]string, error) {
	start := time.Now()
	values, err := store.Distinct(ctx, field, p)
	metrics.ObserveStorage(collection, "distinct", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
