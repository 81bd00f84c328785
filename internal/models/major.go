package models

import "time"

// Major is a course of study offered by a university.
type Major struct {
	ID            string    `db:"id" json:"id" validate:"required"`
	Name          string    `db:"name" json:"name" validate:"required"`
	UniversityID  string    `db:"university_id" json:"university_id" validate:"required"`
	CountryID     string    `db:"country_id" json:"country_id"`
	StudyLevel    string    `db:"study_level" json:"study_level"`
	Budget        float64   `db:"budget" json:"budget"`
	Duration      float64   `db:"duration" json:"duration"`
	DurationUnits string    `db:"duration_units" json:"duration_units" validate:"omitempty,oneof=Years Months Weeks"`
	ModeOfStudy   string    `db:"mode_of_study" json:"mode_of_study"`
	IntakeMonth   string    `db:"intake_month" json:"intake_month"`
	IntakeYear    string    `db:"intake_year" json:"intake_year"`
	Tags          Tags      `db:"tags" json:"tags,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Lookup implements predicate.Record.
func (m Major) Lookup(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return m.ID, true
	case FieldName:
		return m.Name, true
	case FieldUniversityID:
		return m.UniversityID, true
	case FieldCountryID:
		return m.CountryID, true
	case FieldStudyLevel:
		return m.StudyLevel, true
	case FieldBudget:
		return m.Budget, true
	case FieldDuration:
		return m.Duration, true
	case FieldDurationUnits:
		return m.DurationUnits, true
	case FieldModeOfStudy:
		return m.ModeOfStudy, true
	case FieldIntakeMonth:
		return m.IntakeMonth, true
	case FieldIntakeYear:
		return m.IntakeYear, true
	case FieldTags:
		return m.Tags.lookup(), true
	}
	return nil, false
}
