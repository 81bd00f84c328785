package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

var (
	countryColumns = []string{
		models.FieldID, models.FieldName, models.FieldSlug, "description",
		"university_ids", "blog_ids", models.FieldTags, models.FieldCreatedAt,
	}
	universityColumns = []string{
		models.FieldID, models.FieldName, models.FieldCountryID, models.FieldCountryName,
		models.FieldUniType, models.FieldEntranceExam, models.FieldRanking, models.FieldTags, models.FieldCreatedAt,
	}
	majorColumns = []string{
		models.FieldID, models.FieldName, models.FieldUniversityID, models.FieldCountryID,
		models.FieldStudyLevel, models.FieldBudget, models.FieldDuration, models.FieldDurationUnits,
		models.FieldModeOfStudy, models.FieldIntakeMonth, models.FieldIntakeYear, models.FieldTags, models.FieldCreatedAt,
	}
	blogColumns = []string{
		models.FieldID, models.FieldTitle, models.FieldSlug, models.FieldCountryID, models.FieldCountryName,
		"summary", models.FieldTags, models.FieldPublishedAt,
	}
)

// Default orderings keep pagination stable across calls.
var (
	byName        = []models.SortField{{Field: models.FieldName}}
	byPublishedAt = []models.SortField{{Field: models.FieldPublishedAt, Desc: true}}
)

// NewCountryStore returns the SQL store for countries.
func NewCountryStore(db *sqlx.DB) *SQLStore[models.Country] {
	return NewSQLStore[models.Country](db, "countries", countryColumns, byName)
}

// NewUniversityStore returns the SQL store for universities.
func NewUniversityStore(db *sqlx.DB) *SQLStore[models.University] {
	return NewSQLStore[models.University](db, "universities", universityColumns, byName)
}

// NewMajorStore returns the SQL store for majors.
func NewMajorStore(db *sqlx.DB) *SQLStore[models.Major] {
	return NewSQLStore[models.Major](db, "majors", majorColumns, byName)
}

// NewBlogStore returns the SQL store for blogs.
func NewBlogStore(db *sqlx.DB) *SQLStore[models.Blog] {
	return NewSQLStore[models.Blog](db, "blogs", blogColumns, byPublishedAt)
}
