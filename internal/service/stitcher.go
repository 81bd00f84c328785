package service

import (
	"github.com/noah-isme/studyabroad-search-api/internal/dto"
	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

// GroupBy buckets items by the parent id returned from key, preserving order.
func GroupBy[T any](items []T, key func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, item := range items {
		k := key(item)
		grouped[k] = append(grouped[k], item)
	}
	return grouped
}

// childrenOf returns the bucket for id, never nil.
func childrenOf[T any](grouped map[string][]T, id string) []T {
	if children, ok := grouped[id]; ok {
		return children
	}
	return []T{}
}

func universityCountry(u models.University) string { return u.CountryID }
func majorUniversity(m models.Major) string        { return m.UniversityID }
func blogCountry(b models.Blog) string             { return b.CountryID }

// StitchOverview attaches universities and blogs to their countries.
func StitchOverview(countries []models.Country, universities []models.University, blogs []models.Blog) []dto.CountryOverview {
	byCountry := GroupBy(universities, universityCountry)
	blogsByCountry := GroupBy(blogs, blogCountry)
	out := make([]dto.CountryOverview, 0, len(countries))
	for _, country := range countries {
		out = append(out, dto.CountryOverview{
			Country:      country,
			Universities: childrenOf(byCountry, country.ID),
			Blogs:        childrenOf(blogsByCountry, country.ID),
		})
	}
	return out
}

// StitchTree builds the three-level result. Majors are attached to
// universities first, then universities to countries.
func StitchTree(countries []models.Country, universities []models.University, majors []models.Major, blogs []models.Blog) []dto.CountryTree {
	majorsByUniversity := GroupBy(majors, majorUniversity)
	nodes := make([]dto.UniversityNode, 0, len(universities))
	for _, university := range universities {
		nodes = append(nodes, dto.UniversityNode{
			University: university,
			Majors:     childrenOf(majorsByUniversity, university.ID),
		})
	}

	nodesByCountry := GroupBy(nodes, func(n dto.UniversityNode) string { return n.CountryID })
	blogsByCountry := GroupBy(blogs, blogCountry)
	out := make([]dto.CountryTree, 0, len(countries))
	for _, country := range countries {
		out = append(out, dto.CountryTree{
			Country:      country,
			Universities: childrenOf(nodesByCountry, country.ID),
			Blogs:        childrenOf(blogsByCountry, country.ID),
		})
	}
	return out
}

func countryIDs(countries []models.Country) []string {
	ids := make([]string, 0, len(countries))
	for _, c := range countries {
		ids = append(ids, c.ID)
	}
	return ids
}

func universityIDs(universities []models.University) []string {
	ids := make([]string, 0, len(universities))
	for _, u := range universities {
		ids = append(ids, u.ID)
	}
	return ids
}
