package dto

import "github.com/noah-isme/studyabroad-search-api/internal/models"

// ListResult is a single paginated collection.
type ListResult[T any] struct {
	Data       []T                `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// CountryOverview is a country with its first page of universities and blogs.
type CountryOverview struct {
	models.Country
	Universities []models.University `json:"universities"`
	Blogs        []models.Blog       `json:"blogs"`
}

// UniversityNode is a university with its page of majors.
type UniversityNode struct {
	models.University
	Majors []models.Major `json:"majors"`
}

// CountryTree is the full-depth search node.
type CountryTree struct {
	models.Country
	Universities []UniversityNode `json:"universities"`
	Blogs        []models.Blog    `json:"blogs"`
}

// ChildPagination carries the independent cursors of embedded children.
type ChildPagination struct {
	Universities *models.Pagination `json:"universities,omitempty"`
	Majors       *models.Pagination `json:"majors,omitempty"`
	Blogs        *models.Pagination `json:"blogs,omitempty"`
}

// TreeResult is a paginated parent collection with nested children.
type TreeResult[T any] struct {
	Data       []T                `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Children   ChildPagination    `json:"childPagination"`
}

// CachePurgeResult reports an invalidation.
type CachePurgeResult struct {
	Prefix  string `json:"prefix,omitempty"`
	Key     string `json:"key,omitempty"`
	Removed int    `json:"removed"`
	Warming int    `json:"warming,omitempty"`
}
