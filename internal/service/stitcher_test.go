package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

func TestGroupByPreservesOrder(t *testing.T) {
	grouped := GroupBy([]models.University{
		{ID: "u1", CountryID: "de"},
		{ID: "u2", CountryID: "fr"},
		{ID: "u3", CountryID: "de"},
	}, universityCountry)

	require.Len(t, grouped["de"], 2)
	assert.Equal(t, "u1", grouped["de"][0].ID)
	assert.Equal(t, "u3", grouped["de"][1].ID)
	assert.Len(t, grouped["fr"], 1)
}

func TestStitchOverviewAttachesEmptyChildren(t *testing.T) {
	countries := []models.Country{{ID: "de"}, {ID: "it"}}
	out := StitchOverview(countries,
		[]models.University{{ID: "u1", CountryID: "de"}, {ID: "orphan", CountryID: "xx"}},
		[]models.Blog{{ID: "b1", CountryID: "de"}})

	require.Len(t, out, 2)
	assert.Len(t, out[0].Universities, 1)
	assert.Len(t, out[0].Blogs, 1)
	assert.NotNil(t, out[1].Universities)
	assert.Empty(t, out[1].Universities)
	assert.NotNil(t, out[1].Blogs)
}

func TestStitchTreeJoinsMajorsBeforeUniversities(t *testing.T) {
	out := StitchTree(
		[]models.Country{{ID: "de"}, {ID: "fr"}},
		[]models.University{{ID: "u1", CountryID: "de"}, {ID: "u2", CountryID: "de"}, {ID: "u4", CountryID: "fr"}},
		[]models.Major{{ID: "m1", UniversityID: "u1"}, {ID: "m2", UniversityID: "u1"}, {ID: "m4", UniversityID: "u4"}},
		nil,
	)

	require.Len(t, out, 2)
	require.Len(t, out[0].Universities, 2)
	assert.Len(t, out[0].Universities[0].Majors, 2)
	assert.Empty(t, out[0].Universities[1].Majors)
	assert.NotNil(t, out[0].Universities[1].Majors)
	require.Len(t, out[1].Universities, 1)
	assert.Equal(t, "m4", out[1].Universities[0].Majors[0].ID)
	assert.NotNil(t, out[1].Blogs)
}
