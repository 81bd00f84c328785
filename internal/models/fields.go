package models

// Storage field names shared by predicates, SQL column maps and in-memory records.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldSlug          = "slug"
	FieldTitle         = "title"
	FieldTags          = "tags"
	FieldCountryID     = "country_id"
	FieldCountryName   = "country_name"
	FieldUniversityID  = "university_id"
	FieldUniType       = "uni_type"
	FieldEntranceExam  = "entrance_exam"
	FieldRanking       = "ranking"
	FieldStudyLevel    = "study_level"
	FieldBudget        = "budget"
	FieldDuration      = "duration"
	FieldDurationUnits = "duration_units"
	FieldModeOfStudy   = "mode_of_study"
	FieldIntakeMonth   = "intake_month"
	FieldIntakeYear    = "intake_year"
	FieldCreatedAt     = "created_at"
	FieldPublishedAt   = "published_at"
)

// Tag language keys.
const (
	TagLangEN = "en"
	TagLangAR = "ar"
)

// Duration units as stored on majors.
const (
	DurationUnitYears  = "Years"
	DurationUnitMonths = "Months"
	DurationUnitWeeks  = "Weeks"
)
