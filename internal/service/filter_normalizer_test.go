package service

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

func TestFilterNormalizerEncodedAndStructuredAgree(t *testing.T) {
	n := NewFilterNormalizer(nil)
	raw := `{"Destination":["Germany","France","Germany"],"StudyLevel":"Master","minBudget":"1000","EntranceExam":"yes","MajorDuration":"24-36","searchQuery":{"en":"data","ar":""}}`

	fromEncoded := n.Normalize(models.EncodedFilter(url.QueryEscape(raw)))
	fromPlain := n.Normalize(models.EncodedFilter(raw))
	fromStructured := n.Normalize(models.StructuredFilter(map[string]interface{}{
		"searchQuery":   map[string]interface{}{"en": "data"},
		"MajorDuration": "24–36",
		"EntranceExam":  true,
		"minBudget":     1000,
		"StudyLevel":    "Master",
		"Destination":   []string{"France", "Germany"},
	}))

	assert.Equal(t, fromPlain, fromEncoded)
	assert.Equal(t, fromPlain, fromStructured)
	assert.Equal(t, []string{"France", "Germany"}, fromPlain.Destination)
	require.NotNil(t, fromPlain.EntranceExam)
	assert.True(t, *fromPlain.EntranceExam)
	require.NotNil(t, fromPlain.MinBudget)
	assert.Equal(t, 1000.0, *fromPlain.MinBudget)
	assert.Equal(t, &models.DurationRange{Min: 24, Max: 36}, fromPlain.Duration)
	assert.Equal(t, &models.BilingualQuery{EN: "data"}, fromPlain.SearchQuery)

	spaced := `{"searchQuery":{"en":"data science"},"Destination":["United Kingdom"]}`
	fromForm := n.Normalize(models.EncodedFilter(url.QueryEscape(spaced)))
	fromPath := n.Normalize(models.EncodedFilter(url.PathEscape(spaced)))
	assert.Equal(t, n.Normalize(models.EncodedFilter(spaced)), fromForm)
	assert.Equal(t, fromForm, fromPath)
	assert.Equal(t, &models.BilingualQuery{EN: "data science"}, fromForm.SearchQuery)
	assert.Equal(t, []string{"United Kingdom"}, fromForm.Destination)
}

func TestFilterNormalizerIsIdempotent(t *testing.T) {
	n := NewFilterNormalizer(nil)
	first := n.Normalize(models.EncodedFilter(`{"Destination":"Spain, Italy","CourseDuration":"36+","maxBudget":20000,"IntakeYear":2025}`))
	second := n.Normalize(models.EncodedFilter(first.Canonical()))

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Italy", "Spain"}, first.Destination)
	assert.True(t, math.IsInf(first.Duration.Max, 1))
	assert.Equal(t, "2025", first.IntakeYear)
}

func TestFilterNormalizerDropsSentinels(t *testing.T) {
	n := NewFilterNormalizer(nil)
	spec := n.Normalize(models.EncodedFilter(`{"Destination":["All"],"StudyLevel":"All","UniType":"","ModeOfStudy":"all","IntakeMonth":null,"searchQuery":""}`))

	assert.True(t, spec.IsEmpty())
	assert.Equal(t, "{}", spec.Canonical())
}

func TestFilterNormalizerRecoversFromMalformedInput(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := NewFilterNormalizer(zap.New(core))

	spec := n.Normalize(models.EncodedFilter(`%7B%22Destination%22%3A`))
	assert.True(t, spec.IsEmpty())
	assert.Equal(t, 1, logs.Len())

	spec = n.Normalize(models.EncodedFilter(`["Germany"]`))
	assert.True(t, spec.IsEmpty())
	assert.Equal(t, 2, logs.Len())

	assert.True(t, n.Normalize(models.RawFilter{}).IsEmpty())
}

func TestFilterNormalizerNormalizeValueShapes(t *testing.T) {
	n := NewFilterNormalizer(nil)
	want := n.Normalize(models.EncodedFilter(`{"Destination":["Germany"]}`))

	spec := models.FilterSpec{Destination: []string{"Germany"}}
	assert.Equal(t, want, n.NormalizeValue(spec))
	assert.Equal(t, want, n.NormalizeValue(&spec))
	assert.Equal(t, want, n.NormalizeValue(`%7B%22Destination%22%3A%5B%22Germany%22%5D%7D`))
	assert.Equal(t, want, n.NormalizeValue([]byte(`{"destination":"Germany"}`)))
	assert.Equal(t, want, n.NormalizeValue(map[string]interface{}{"Destination": "Germany"}))
	assert.True(t, n.NormalizeValue(nil).IsEmpty())
}

func TestFilterNormalizerLenientValues(t *testing.T) {
	n := NewFilterNormalizer(nil)
	spec := n.NormalizeScalars(map[string]interface{}{
		"EntranceExam": "No",
		"minBudget":    "12,500",
		"maxBudget":    "abc",
		"searchQuery":  "medicine",
		"Duration":     "bogus",
	})

	require.NotNil(t, spec.EntranceExam)
	assert.False(t, *spec.EntranceExam)
	require.NotNil(t, spec.MinBudget)
	assert.Equal(t, 12500.0, *spec.MinBudget)
	assert.Nil(t, spec.MaxBudget)
	assert.Nil(t, spec.Duration)
	assert.Equal(t, &models.BilingualQuery{EN: "medicine"}, spec.SearchQuery)
}

func TestFilterNormalizerApplyScalars(t *testing.T) {
	n := NewFilterNormalizer(nil)
	base := n.Normalize(models.EncodedFilter(`{"Destination":["Germany"],"maxBudget":9000,"CourseDuration":"36+","searchQuery":"law"}`))

	spec := n.ApplyScalars(base, map[string]interface{}{
		"Destination":    []string{"All", " all "},
		"maxBudget":      "All",
		"CourseDuration": "All",
		"StudyLevel":     "Bachelor",
	})
	assert.Nil(t, spec.Destination)
	assert.Nil(t, spec.MaxBudget)
	assert.Nil(t, spec.Duration)
	assert.Equal(t, "Bachelor", spec.StudyLevel)
	assert.Equal(t, &models.BilingualQuery{EN: "law"}, spec.SearchQuery)

	kept := n.ApplyScalars(base, map[string]interface{}{"maxBudget": "abc", "Destination": ""})
	assert.Equal(t, base, kept)
	assert.Equal(t, base, n.ApplyScalars(base, nil))
}

func TestFilterNormalizerRejectsNonFiniteBudgets(t *testing.T) {
	n := NewFilterNormalizer(nil)

	for _, value := range []string{"Infinity", "-Inf", "NaN", "+inf"} {
		spec := n.Normalize(models.EncodedFilter(`{"Destination":["Germany"],"minBudget":"` + value + `","maxBudget":"` + value + `"}`))
		assert.Nil(t, spec.MinBudget, value)
		assert.Nil(t, spec.MaxBudget, value)
		assert.Equal(t, []string{"Germany"}, spec.Destination, value)
	}

	inf := math.Inf(1)
	spec := n.NormalizeValue(models.FilterSpec{Destination: []string{"France"}, MaxBudget: &inf})
	assert.Nil(t, spec.MaxBudget)
	assert.Equal(t, `{"Destination":["France"]}`, spec.Canonical())
}
