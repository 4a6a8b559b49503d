package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/slumberhaus/storefront/internal/domain"
)

// startingPriceExpr is the in-stock starting price of a product within the
// matched variant set. NULL when every matched variant has zero stock, so
// the product still lists but carries no price.
const startingPriceExpr = "MIN(CASE WHEN v.stock_quantity > 0 THEN v.price END)"

// firstImageExpr picks the product's card image: lowest display order wins.
const firstImageExpr = "(SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.display_order ASC, i.created_at ASC LIMIT 1)"

// CatalogRepository implements domain.CatalogRepository for PostgreSQL
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// catalogPredicate renders the WHERE fragment shared by the page query and
// the count query. Both MUST go through here: every condition is evaluated
// per variant row, so a product matches only if a single variant satisfies
// all constraints at once, and the inner join drops variant-less products.
// Facet slices expand through sqlx.In; bindvars stay "?" until Rebind.
func catalogPredicate(filter domain.CatalogFilter) (string, []interface{}, error) {
	conditions := []string{"p.is_published = TRUE"}
	args := []interface{}{}

	if len(filter.Sizes) > 0 {
		conditions = append(conditions, "v.size_id IN (?)")
		args = append(args, filter.Sizes)
	}
	if len(filter.Firmness) > 0 {
		conditions = append(conditions, "v.firmness_id IN (?)")
		args = append(args, filter.Firmness)
	}
	if len(filter.Materials) > 0 {
		conditions = append(conditions, "v.material_id IN (?)")
		args = append(args, filter.Materials)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "v.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "v.price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	clause, expanded, err := sqlx.In(strings.Join(conditions, " AND "), args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand catalog predicate: %w", err)
	}

	return clause, expanded, nil
}

// catalogOrderClause maps a sort order to its ORDER BY expression.
// Price sorts put NULL starting prices (all matched variants out of stock)
// last in both directions; created_at and id break ties so identical
// requests always page identically.
func catalogOrderClause(sort domain.SortOrder) string {
	switch sort {
	case domain.SortPriceAsc:
		return startingPriceExpr + " ASC NULLS LAST, p.created_at DESC, p.id"
	case domain.SortPriceDesc:
		return startingPriceExpr + " DESC NULLS LAST, p.created_at DESC, p.id"
	default:
		return "p.created_at DESC, p.id"
	}
}

// catalogRow is the scan target for one grouped catalog row
type catalogRow struct {
	ID                uuid.UUID      `db:"id"`
	Name              string         `db:"name"`
	Description       *string        `db:"description"`
	BasePrice         float64        `db:"base_price"`
	CreatedAt         time.Time      `db:"created_at"`
	ImageURL          *string        `db:"image_url"`
	StartingPrice     *float64       `db:"starting_price"`
	AvailableSizes    pq.StringArray `db:"available_sizes"`
	AvailableFirmness pq.StringArray `db:"available_firmness"`
}

func (r catalogRow) toSummary() *domain.ProductSummary {
	return &domain.ProductSummary{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		BasePrice:         r.BasePrice,
		StartingPrice:     r.StartingPrice,
		ImageURL:          r.ImageURL,
		AvailableSizes:    []string(r.AvailableSizes),
		AvailableFirmness: []string(r.AvailableFirmness),
		CreatedAt:         r.CreatedAt,
	}
}

// SelectPage returns one sorted page of product summaries matching the filter
func (r *CatalogRepository) SelectPage(ctx context.Context, filter domain.CatalogFilter) ([]*domain.ProductSummary, error) {
	clause, args, err := catalogPredicate(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			p.id,
			p.name,
			p.description,
			p.base_price,
			p.created_at,
			%s AS image_url,
			%s AS starting_price,
			ARRAY_AGG(DISTINCT v.size_id) AS available_sizes,
			ARRAY_AGG(DISTINCT v.firmness_id) AS available_firmness
		FROM products p
		INNER JOIN product_variants v ON v.product_id = p.id
		WHERE %s
		GROUP BY p.id
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, firstImageExpr, startingPriceExpr, clause, catalogOrderClause(filter.Sort))

	args = append(args, filter.PageSize, filter.Offset())

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*domain.ProductSummary{}
	for rows.Next() {
		var row catalogRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		summaries = append(summaries, row.toSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// CountProducts returns the number of distinct products matching the filter.
// Same predicate as SelectPage, no grouping or pagination.
func (r *CatalogRepository) CountProducts(ctx context.Context, filter domain.CatalogFilter) (int, error) {
	clause, args, err := catalogPredicate(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT p.id)
		FROM products p
		INNER JOIN product_variants v ON v.product_id = p.id
		WHERE %s
	`, clause)

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, err
	}

	return count, nil
}
