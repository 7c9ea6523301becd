package repository

import "github.com/google/uuid"

const (
	defaultLimit = 12
	maxLimit     = 50
)

// Pagination carries page/limit as received from the query string.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page to >= 1 and limit to [1, maxLimit]. Out-of-range
// values are clamped, not rejected.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SortField identifies a recipe sort mode.
type SortField string

const (
	SortByTitle      SortField = "title"
	SortByTime       SortField = "time"
	SortByCreatedAt  SortField = "createdAt"
	SortByPopularity SortField = "popularity"
)

// Sort carries the requested ordering.
type Sort struct {
	Field SortField
	Desc  bool
}

// ParseSort maps query-string sort parameters to a Sort. Unknown fields fall
// back to createdAt descending; an unknown direction falls back to the
// field's natural direction (descending for createdAt, ascending otherwise).
func ParseSort(field, dir string) Sort {
	s := Sort{}
	switch SortField(field) {
	case SortByTitle:
		s.Field = SortByTitle
	case SortByTime:
		s.Field = SortByTime
	case SortByPopularity:
		s.Field = SortByPopularity
	case SortByCreatedAt:
		s.Field = SortByCreatedAt
		s.Desc = true
	default:
		s.Field = SortByCreatedAt
		s.Desc = true
	}
	switch dir {
	case "asc":
		s.Desc = false
	case "desc":
		s.Desc = true
	}
	return s
}

func (s Sort) direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// RecipeFilter narrows a recipe listing. Zero values omit the filter.
type RecipeFilter struct {
	OwnerID    *uuid.UUID
	CategoryID *uuid.UUID
	AreaID     *uuid.UUID
	// Ingredient is matched case-insensitively against ingredient names.
	Ingredient string
}
