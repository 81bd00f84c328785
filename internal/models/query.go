package models

// SortField orders results by a storage field.
type SortField struct {
	Field string
	Desc  bool
}

// FindOptions controls projection, ordering and windowing of a find call.
type FindOptions struct {
	Projection []string
	Sort       []SortField
	Skip       int
	Limit      int
}
