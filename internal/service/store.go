package service

import (
	"context"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// Store is the read interface the search core needs from a collection.
type Store[T any] interface {
	Count(ctx context.Context, p predicate.Predicate) (int, error)
	Find(ctx context.Context, p predicate.Predicate, opts models.FindOptions) ([]T, error)
	Distinct(ctx context.Context, field string, p predicate.Predicate) ([]string, error)
}

// Stores bundles the four directory collections.
type Stores struct {
	Countries    Store[models.Country]
	Universities Store[models.University]
	Majors       Store[models.Major]
	Blogs        Store[models.Blog]
}
