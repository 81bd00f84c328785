package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a coerced page/limit pair. Page and Limit are always >= 1.
type PageRequest struct {
	Page  int
	Limit int
}

// Skip returns the number of records preceding the page.
func (p PageRequest) Skip() int {
	return (p.Page - 1) * p.Limit
}

// NewPageRequest coerces raw query values, falling back to defaults when a value
// is absent, non-numeric or not positive. Limits above maxLimit are capped.
func NewPageRequest(rawPage, rawLimit string, defaultLimit, maxLimit int) PageRequest {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	req := PageRequest{Page: DefaultPage, Limit: defaultLimit}
	if page, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil && page > 0 {
		req.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && limit > 0 {
		req.Limit = limit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	return req
}

// PageResult is one page of a collection plus the total match count.
type PageResult[T any] struct {
	Items []T
	Total int
	Page  PageRequest
}

// EmptyPage returns a page with no items.
func EmptyPage[T any](page PageRequest) PageResult[T] {
	return PageResult[T]{Items: []T{}, Page: page}
}

// TotalPages is ceil(Total/Limit).
func (r PageResult[T]) TotalPages() int {
	if r.Page.Limit <= 0 || r.Total <= 0 {
		return 0
	}
	return (r.Total + r.Page.Limit - 1) / r.Page.Limit
}

// HasMore reports whether records exist beyond this page.
func (r PageResult[T]) HasMore() bool {
	return r.Page.Page*r.Page.Limit < r.Total
}

// Pagination builds response metadata labelled with the entity name.
func (r PageResult[T]) Pagination(entity string) *Pagination {
	return &Pagination{
		Entity:     entity,
		Page:       r.Page.Page,
		Limit:      r.Page.Limit,
		Total:      r.Total,
		TotalPages: r.TotalPages(),
		HasMore:    r.HasMore(),
	}
}

// Pagination describes a page in responses. The total is serialized under
// "total<Entity>", e.g. totalUniversities.
type Pagination struct {
	Entity     string
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasMore    bool
}

// MarshalJSON emits the entity-specific total key.
func (p Pagination) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": p.TotalPages,
		"hasMore":    p.HasMore,
	}
	out["total"+p.Entity] = p.Total
	return json.Marshal(out)
}

// UnmarshalJSON restores the entity label from the total key.
func (p *Pagination) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Pagination{}
	for key, value := range raw {
		var err error
		switch {
		case key == "page":
			err = json.Unmarshal(value, &p.Page)
		case key == "limit":
			err = json.Unmarshal(value, &p.Limit)
		case key == "totalPages":
			err = json.Unmarshal(value, &p.TotalPages)
		case key == "hasMore":
			err = json.Unmarshal(value, &p.HasMore)
		case strings.HasPrefix(key, "total"):
			p.Entity = strings.TrimPrefix(key, "total")
			err = json.Unmarshal(value, &p.Total)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
