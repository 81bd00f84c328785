package models

import "time"

// University belongs to a country through CountryID.
type University struct {
	ID           string    `db:"id" json:"id" validate:"required"`
	Name         string    `db:"name" json:"name" validate:"required"`
	CountryID    string    `db:"country_id" json:"country_id" validate:"required"`
	CountryName  string    `db:"country_name" json:"country_name"`
	UniType      string    `db:"uni_type" json:"uni_type"`
	EntranceExam bool      `db:"entrance_exam" json:"entrance_exam"`
	Ranking      int       `db:"ranking" json:"ranking,omitempty"`
	Tags         Tags      `db:"tags" json:"tags,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Lookup implements predicate.Record.
func (u University) Lookup(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return u.ID, true
	case FieldName:
		return u.Name, true
	case FieldCountryID:
		return u.CountryID, true
	case FieldCountryName:
		return u.CountryName, true
	case FieldUniType:
		return u.UniType, true
	case FieldEntranceExam:
		return u.EntranceExam, true
	case FieldRanking:
		return u.Ranking, true
	case FieldTags:
		return u.Tags.lookup(), true
	}
	return nil, false
}
