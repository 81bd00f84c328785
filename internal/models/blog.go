package models

import "time"

// Blog is an editorial article about studying in a country.
type Blog struct {
	ID          string    `db:"id" json:"id" validate:"required"`
	Title       string    `db:"title" json:"title" validate:"required"`
	Slug        string    `db:"slug" json:"slug"`
	CountryID   string    `db:"country_id" json:"country_id" validate:"required"`
	CountryName string    `db:"country_name" json:"country_name"`
	Summary     string    `db:"summary" json:"summary,omitempty"`
	Tags        Tags      `db:"tags" json:"tags,omitempty"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
}

// Lookup implements predicate.Record.
func (b Blog) Lookup(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return b.ID, true
	case FieldTitle:
		return b.Title, true
	case FieldSlug:
		return b.Slug, true
	case FieldCountryID:
		return b.CountryID, true
	case FieldCountryName:
		return b.CountryName, true
	case FieldTags:
		return b.Tags.lookup(), true
	case FieldPublishedAt:
		return b.PublishedAt.Format(time.RFC3339), true
	}
	return nil, false
}
