package domain

import (
	"context"

	"github.com/google/uuid"
)

// Size is a facet lookup keyed by a human slug, e.g. "queen".
type Size struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Dimensions string `json:"dimensions" db:"dimensions"`
}

// Firmness is a facet lookup with a 1-10 feel rating, e.g. "medium-firm".
type Firmness struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Rating      int     `json:"rating" db:"rating"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Material is a facet lookup, e.g. "memory-foam".
type Material struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Category groups products for navigation and recommendations.
type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
}

// FilterMetadata is the full reference data set the filter UI renders.
type FilterMetadata struct {
	Sizes      []*Size     `json:"sizes"`
	Firmness   []*Firmness `json:"firmness"`
	Materials  []*Material `json:"materials"`
	Categories []*Category `json:"categories"`
}

// LookupRepository loads the facet reference tables in full.
type LookupRepository interface {
	ListSizes(ctx context.Context) ([]*Size, error)
	ListFirmness(ctx context.Context) ([]*Firmness, error)
	ListMaterials(ctx context.Context) ([]*Material, error)
	ListCategories(ctx context.Context) ([]*Category, error)
}
