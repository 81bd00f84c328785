package service

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

func TestKeyDeriverEquivalentFiltersShareKey(t *testing.T) {
	d := NewKeyDeriver(nil)
	page := models.PageRequest{Page: 1, Limit: 10}

	encoded := d.Derive(OpSearch, map[string]interface{}{
		FilterParam: "%7B%22Destination%22%3A%5B%22Germany%22%5D%7D",
		"page":      page,
	})
	object := d.Derive(OpSearch, map[string]interface{}{
		"page":      page,
		FilterParam: `{"Destination":["Germany"]}`,
	})
	structured := d.Derive(OpSearch, map[string]interface{}{
		FilterParam: models.StructuredFilter(map[string]interface{}{"Destination": []interface{}{"Germany"}}),
		"page":      page,
	})
	spec := d.Derive(OpSearch, map[string]interface{}{
		FilterParam: models.FilterSpec{Destination: []string{"Germany"}},
		"page":      page,
	})

	assert.Equal(t, encoded, object)
	assert.Equal(t, encoded, structured)
	assert.Equal(t, encoded, spec)
	assert.Equal(t, `search:{"filterProp":{"Destination":["Germany"]},"page":{"limit":10,"page":1}}`, encoded)
}

func TestKeyDeriverShuffledFilterKeys(t *testing.T) {
	d := NewKeyDeriver(nil)
	a := `{"StudyLevel":"Master","minBudget":500,"Destination":["Italy","Spain"],"searchQuery":{"ar":"طب","en":"medicine"}}`
	b := `{"searchQuery":{"en":"medicine","ar":"طب"},"Destination":["Spain","Italy"],"minBudget":"500","StudyLevel":"Master"}`

	keyA := d.Derive(OpMajorsByUniversity, map[string]interface{}{FilterParam: url.QueryEscape(a), "universityIds": []string{"u2", "u1"}})
	keyB := d.Derive(OpMajorsByUniversity, map[string]interface{}{"universityIds": []string{"u1", "u2", "u1"}, FilterParam: b})

	assert.Equal(t, keyA, keyB)
}

func TestKeyDeriverDropsEmptyValues(t *testing.T) {
	d := NewKeyDeriver(nil)

	withEmpty := d.Derive(OpCountries, map[string]interface{}{
		FilterParam:  `{"StudyLevel":"All"}`,
		"countryIds": []string{},
		"search":     "  ",
		"missing":    nil,
	})
	assert.Equal(t, "countries:{}", withEmpty)
}

func TestKeyDeriverNonFiniteBudgetKeepsFilter(t *testing.T) {
	d := NewKeyDeriver(nil)
	nan := math.NaN()

	germany := d.Derive(OpCountries, map[string]interface{}{FilterParam: `{"Destination":["Germany"],"maxBudget":"Infinity"}`})
	france := d.Derive(OpCountries, map[string]interface{}{FilterParam: url.QueryEscape(`{"Destination":["France"],"maxBudget":"Infinity"}`)})
	spec := d.Derive(OpCountries, map[string]interface{}{FilterParam: models.FilterSpec{Destination: []string{"France"}, MinBudget: &nan}})

	assert.Equal(t, `countries:{"filterProp":{"Destination":["Germany"]}}`, germany)
	assert.Equal(t, `countries:{"filterProp":{"Destination":["France"]}}`, france)
	assert.Equal(t, france, spec)
	assert.NotEqual(t, "countries:{}", germany)
}

func TestKeyDeriverSeparatesOperations(t *testing.T) {
	d := NewKeyDeriver(nil)
	params := map[string]interface{}{"countryIds": []string{"de"}}

	assert.NotEqual(t,
		d.Derive(OpUniversitiesByCountry, params),
		d.Derive(OpBlogsByCountry, params))
}
