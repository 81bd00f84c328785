package models

import (
	"time"

	"github.com/lib/pq"
)

// Country is the root of the directory graph.
type Country struct {
	ID            string         `db:"id" json:"id" validate:"required"`
	Name          string         `db:"name" json:"name" validate:"required"`
	Slug          string         `db:"slug" json:"slug"`
	Description   string         `db:"description" json:"description,omitempty"`
	UniversityIDs pq.StringArray `db:"university_ids" json:"university_ids,omitempty"`
	BlogIDs       pq.StringArray `db:"blog_ids" json:"blog_ids,omitempty"`
	Tags          Tags           `db:"tags" json:"tags,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Lookup implements predicate.Record.
func (c Country) Lookup(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return c.ID, true
	case FieldName:
		return c.Name, true
	case FieldSlug:
		return c.Slug, true
	case FieldTags:
		return c.Tags.lookup(), true
	}
	return nil, false
}
