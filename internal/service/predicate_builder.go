package service

import (
	"math"
	"strings"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// weeksPerMonth converts month bounds to the weeks scale. It approximates the
// ratio used by the catalogue data and is kept as-is.
const weeksPerMonth = 0.23

const monthsPerYear = 12

// PredicateBuilder translates a FilterSpec into storage predicates per entity.
type PredicateBuilder struct{}

// NewPredicateBuilder constructs a predicate builder.
func NewPredicateBuilder() *PredicateBuilder {
	return &PredicateBuilder{}
}

// active reports whether a scalar facet constrains results.
func active(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.EqualFold(value, sentinelAll)
}

func activeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if active(value) {
			out = append(out, value)
		}
	}
	return out
}

// Country restricts countries by destination name.
func (b *PredicateBuilder) Country(spec models.FilterSpec) predicate.Predicate {
	var base []predicate.Predicate
	if names := activeSet(spec.Destination); len(names) > 0 {
		base = append(base, predicate.In{Field: models.FieldName, Values: names})
	}
	return predicate.All(base...)
}

// University restricts universities to parent countries and institution facets.
// countryIDs takes precedence over Destination when non-nil. When majorOwners
// is non-nil the result is intersected with that university id set.
func (b *PredicateBuilder) University(spec models.FilterSpec, countryIDs, majorOwners []string) predicate.Predicate {
	var base []predicate.Predicate
	switch {
	case countryIDs != nil:
		base = append(base, predicate.In{Field: models.FieldCountryID, Values: countryIDs})
	default:
		if names := activeSet(spec.Destination); len(names) > 0 {
			base = append(base, predicate.In{Field: models.FieldCountryName, Values: names})
		}
	}
	if active(spec.UniType) {
		base = append(base, predicate.Eq{Field: models.FieldUniType, Value: spec.UniType})
	}
	if spec.EntranceExam != nil {
		base = append(base, predicate.Eq{Field: models.FieldEntranceExam, Value: *spec.EntranceExam})
	}
	if majorOwners != nil {
		base = append(base, predicate.In{Field: models.FieldID, Values: majorOwners})
	}
	return predicate.All(base...)
}

// Major restricts majors to parent universities and every major-level facet.
// universityIDs is ignored when nil.
func (b *PredicateBuilder) Major(spec models.FilterSpec, universityIDs []string) predicate.Predicate {
	var base []predicate.Predicate
	if universityIDs != nil {
		base = append(base, predicate.In{Field: models.FieldUniversityID, Values: universityIDs})
	}
	if active(spec.StudyLevel) {
		base = append(base, predicate.Eq{Field: models.FieldStudyLevel, Value: spec.StudyLevel})
	}
	if active(spec.IntakeMonth) {
		base = append(base, predicate.Eq{Field: models.FieldIntakeMonth, Value: spec.IntakeMonth})
	}
	if active(spec.IntakeYear) {
		base = append(base, predicate.Eq{Field: models.FieldIntakeYear, Value: spec.IntakeYear})
	}
	if budget := budgetRange(spec); budget != nil {
		base = append(base, budget)
	}

	var extras []predicate.Predicate
	if spec.Duration != nil {
		extras = append(extras, durationAnyUnit(*spec.Duration))
	}
	if active(spec.ModeOfStudy) {
		extras = append(extras, predicate.Eq{Field: models.FieldModeOfStudy, Value: spec.ModeOfStudy})
	}
	if text := freeText(spec.SearchQuery); text != nil {
		extras = append(extras, text)
	}
	return compose(base, extras)
}

// MajorOwnerConstraint returns the predicate selecting majors whose owning
// universities should survive a major-level filter, or nil when spec
// carries no major facets.
func (b *PredicateBuilder) MajorOwnerConstraint(spec models.FilterSpec) predicate.Predicate {
	if !spec.HasMajorConstraints() {
		return nil
	}
	return b.Major(models.FilterSpec{
		StudyLevel:  spec.StudyLevel,
		IntakeMonth: spec.IntakeMonth,
		IntakeYear:  spec.IntakeYear,
		MinBudget:   spec.MinBudget,
		MaxBudget:   spec.MaxBudget,
		Duration:    spec.Duration,
		ModeOfStudy: spec.ModeOfStudy,
	}, nil)
}

// Blog restricts blogs to parent countries and free text.
func (b *PredicateBuilder) Blog(spec models.FilterSpec, countryIDs []string) predicate.Predicate {
	var base []predicate.Predicate
	if countryIDs != nil {
		base = append(base, predicate.In{Field: models.FieldCountryID, Values: countryIDs})
	}
	var extras []predicate.Predicate
	if text := freeText(spec.SearchQuery); text != nil {
		extras = append(extras, text)
	}
	return compose(base, extras)
}

// compose keeps the base conjuncts as one group and layers each extra as a
// separate member of an outer AND.
func compose(base, extras []predicate.Predicate) predicate.Predicate {
	group := predicate.All(base...)
	if len(extras) == 0 {
		return group
	}
	members := make([]predicate.Predicate, 0, len(extras)+1)
	members = append(members, group)
	members = append(members, extras...)
	return predicate.All(members...)
}

func budgetRange(spec models.FilterSpec) predicate.Predicate {
	spec = spec.Finite()
	if spec.MinBudget == nil && spec.MaxBudget == nil {
		return nil
	}
	r := predicate.Range{Field: models.FieldBudget, Min: math.Inf(-1), Max: math.Inf(1)}
	if spec.MinBudget != nil {
		r.Min = *spec.MinBudget
	}
	if spec.MaxBudget != nil {
		r.Max = *spec.MaxBudget
	}
	return r
}

// durationAnyUnit matches a month range regardless of the unit a major stores
// its duration in.
func durationAnyUnit(months models.DurationRange) predicate.Predicate {
	branch := func(unit string, scale float64) predicate.Predicate {
		return predicate.And{
			predicate.Eq{Field: models.FieldDurationUnits, Value: unit},
			predicate.Range{Field: models.FieldDuration, Min: months.Min * scale, Max: months.Max * scale},
		}
	}
	return predicate.Or{
		branch(models.DurationUnitYears, 1.0/monthsPerYear),
		branch(models.DurationUnitMonths, 1),
		branch(models.DurationUnitWeeks, 1/weeksPerMonth),
	}
}

func freeText(q *models.BilingualQuery) predicate.Predicate {
	if q == nil {
		return nil
	}
	var terms []predicate.Predicate
	if en := strings.TrimSpace(q.EN); en != "" {
		terms = append(terms, predicate.Contains{Field: models.FieldTags, Sub: models.TagLangEN, Value: en})
	}
	if ar := strings.TrimSpace(q.AR); ar != "" {
		terms = append(terms, predicate.Contains{Field: models.FieldTags, Sub: models.TagLangAR, Value: ar})
	}
	if len(terms) == 0 {
		return nil
	}
	return predicate.Or(terms)
}
