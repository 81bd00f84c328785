package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// MemoryStore evaluates predicates against an in-process slice of records.
// It backs local runs seeded from JSON and service tests.
type MemoryStore[T predicate.Record] struct {
	mu          sync.RWMutex
	items       []T
	defaultSort []models.SortField
}

// NewMemoryStore builds a store holding items.
func NewMemoryStore[T predicate.Record](items []T, defaultSort []models.SortField) *MemoryStore[T] {
	s := &MemoryStore[T]{defaultSort: defaultSort}
	s.Replace(items)
	return s
}

// Replace swaps the stored records.
func (s *MemoryStore[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

// Count returns the number of records matching p.
func (s *MemoryStore[T]) Count(ctx context.Context, p predicate.Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		if predicate.Match(p, item) {
			total++
		}
	}
	return total, nil
}

// Find returns matching records ordered and windowed by opts. Projection is
// ignored; records are always returned whole.
func (s *MemoryStore[T]) Find(ctx context.Context, p predicate.Predicate, opts models.FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]T, 0)
	for _, item := range s.items {
		if predicate.Match(p, item) {
			matched = append(matched, item)
		}
	}
	s.mu.RUnlock()

	order := opts.Sort
	if len(order) == 0 {
		order = s.defaultSort
	}
	order = append(append([]models.SortField{}, order...), models.SortField{Field: models.FieldID})
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], order)
	})

	if opts.Skip >= len(matched) {
		return []T{}, nil
	}
	matched = matched[opts.Skip:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Distinct returns the distinct values of field among matching records.
func (s *MemoryStore[T]) Distinct(ctx context.Context, field string, p predicate.Predicate) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, item := range s.items {
		if !predicate.Match(p, item) {
			continue
		}
		v, ok := item.Lookup(field)
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprint(v)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, key)
	}
	sort.Strings(values)
	return values, nil
}

func less(a, b predicate.Record, order []models.SortField) bool {
	for _, field := range order {
		av, _ := a.Lookup(field.Field)
		bv, _ := b.Lookup(field.Field)
		cmp := compareValues(av, bv)
		if cmp == 0 {
			continue
		}
		if field.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case int:
		bv, _ := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
