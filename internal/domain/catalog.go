package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SortOrder selects catalog ordering. Price sorts rank by in-stock
// starting price; products with no in-stock variant sort last either way.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// CatalogFilter is a fully resolved catalog request. Empty facet slices
// mean no constraint on that dimension. The same variant must satisfy
// every supplied constraint at once for its product to match.
type CatalogFilter struct {
	Sizes     []string  `json:"sizes,omitempty"`
	Firmness  []string  `json:"firmness,omitempty"`
	Materials []string  `json:"materials,omitempty"`
	MinPrice  *float64  `json:"min_price,omitempty"`
	MaxPrice  *float64  `json:"max_price,omitempty"`
	Sort      SortOrder `json:"sort"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
}

// Offset returns the row offset implied by Page and PageSize.
func (f CatalogFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Unsatisfiable reports whether the filter can never match anything,
// e.g. an inverted price range. Not an error: callers resolve it to an
// empty page.
func (f CatalogFilter) Unsatisfiable() bool {
	return f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice
}

// ProductSummary is one catalog card: product-grain data aggregated from
// the variants that matched the filter.
type ProductSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	BasePrice   float64   `json:"base_price" db:"base_price"`
	// StartingPrice is the lowest price among matched in-stock variants;
	// nil when every matched variant is out of stock.
	StartingPrice     *float64  `json:"starting_price" db:"starting_price"`
	ImageURL          *string   `json:"image_url,omitempty" db:"image_url"`
	AvailableSizes    []string  `json:"available_sizes" db:"available_sizes"`
	AvailableFirmness []string  `json:"available_firmness" db:"available_firmness"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// InStock reports whether any matched variant can be bought.
func (s *ProductSummary) InStock() bool {
	return s.StartingPrice != nil
}

// CatalogPage is one page of catalog results plus the count of all
// products matching the same filter.
type CatalogPage struct {
	Products   []*ProductSummary `json:"products"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// CatalogRepository is the read side of the catalog: faceted product
// listing and the matching count, both over the identical predicate.
type CatalogRepository interface {
	// SelectPage returns the sorted, paginated product summaries matching the filter
	SelectPage(ctx context.Context, filter CatalogFilter) ([]*ProductSummary, error)

	// CountProducts returns the number of distinct products matching the filter
	CountProducts(ctx context.Context, filter CatalogFilter) (int, error)
}
