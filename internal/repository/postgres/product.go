package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slumberhaus/storefront/internal/domain"
)

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (category_id, name, description, base_price, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.BasePrice,
		product.IsPublished,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, category_id, name, description, base_price, is_published, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// variantDetailRow joins a variant to its three facet lookups in one pass
type variantDetailRow struct {
	domain.ProductVariant
	SizeName            string  `db:"size_name"`
	SizeDimensions      string  `db:"size_dimensions"`
	FirmnessName        string  `db:"firmness_name"`
	FirmnessRating      int     `db:"firmness_rating"`
	FirmnessDescription *string `db:"firmness_description"`
	MaterialName        string  `db:"material_name"`
	MaterialDescription *string `db:"material_description"`
}

// GetDetail retrieves a product with variants (facet lookups resolved) and ordered images
func (r *ProductRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	variantQuery := `
		SELECT
			v.id, v.product_id, v.size_id, v.firmness_id, v.material_id,
			v.price, v.stock_quantity, v.sku, v.weight, v.created_at, v.updated_at,
			s.name AS size_name, s.dimensions AS size_dimensions,
			f.name AS firmness_name, f.rating AS firmness_rating, f.description AS firmness_description,
			m.name AS material_name, m.description AS material_description
		FROM product_variants v
		INNER JOIN sizes s ON s.id = v.size_id
		INNER JOIN firmness f ON f.id = v.firmness_id
		INNER JOIN materials m ON m.id = v.material_id
		WHERE v.product_id = $1
		ORDER BY v.price ASC, v.sku
	`

	var rows []variantDetailRow
	if err := r.db.SelectContext(ctx, &rows, variantQuery, id); err != nil {
		return nil, err
	}

	variants := make([]*domain.ProductVariant, 0, len(rows))
	for i := range rows {
		v := rows[i].ProductVariant
		v.Size = &domain.Size{ID: v.SizeID, Name: rows[i].SizeName, Dimensions: rows[i].SizeDimensions}
		v.Firmness = &domain.Firmness{
			ID:          v.FirmnessID,
			Name:        rows[i].FirmnessName,
			Rating:      rows[i].FirmnessRating,
			Description: rows[i].FirmnessDescription,
		}
		v.Material = &domain.Material{ID: v.MaterialID, Name: rows[i].MaterialName, Description: rows[i].MaterialDescription}
		variants = append(variants, &v)
	}

	imageQuery := `
		SELECT id, product_id, variant_id, url, alt_text, display_order, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY display_order ASC, created_at ASC
	`

	var images []*domain.ProductImage
	if err := r.db.SelectContext(ctx, &images, imageQuery, id); err != nil {
		return nil, err
	}

	// AVG over zero rows is NULL, so a product without reviews carries
	// a nil average and count 0.
	ratingQuery := `
		SELECT COUNT(*) AS review_count, AVG(rating) AS average_rating
		FROM reviews
		WHERE product_id = $1
	`

	var rating domain.RatingSummary
	if err := r.db.GetContext(ctx, &rating, ratingQuery, id); err != nil {
		return nil, err
	}

	return &domain.ProductDetail{
		Product:  *product,
		Variants: variants,
		Images:   images,
		Rating:   rating,
	}, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, base_price = $4, is_published = $5, updated_at = $6
		WHERE id = $7
		RETURNING updated_at
	`

	product.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.BasePrice,
		product.IsPublished,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// Delete deletes a product; FK cascades remove its variants and images
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// summarySelect is the card projection shared by featured and recommended reads
const summarySelect = `
	SELECT
		p.id,
		p.name,
		p.description,
		p.base_price,
		p.created_at,
		` + firstImageExpr + ` AS image_url,
		` + startingPriceExpr + ` AS starting_price,
		ARRAY_AGG(DISTINCT v.size_id) AS available_sizes,
		ARRAY_AGG(DISTINCT v.firmness_id) AS available_firmness
	FROM products p
	INNER JOIN product_variants v ON v.product_id = p.id
`

// ListFeatured returns up to limit random published products for the homepage
func (r *ProductRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.ProductSummary, error) {
	query := summarySelect + `
		WHERE p.is_published = TRUE
		GROUP BY p.id
		ORDER BY RANDOM()
		LIMIT $1
	`

	return r.selectSummaries(ctx, query, limit)
}

// ListRecommended returns up to limit other published products from the same category
func (r *ProductRepository) ListRecommended(ctx context.Context, productID uuid.UUID, limit int) ([]*domain.ProductSummary, error) {
	query := summarySelect + `
		WHERE p.is_published = TRUE
		  AND p.id != $1
		  AND p.category_id = (SELECT category_id FROM products WHERE id = $1)
		  AND p.category_id IS NOT NULL
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id
		LIMIT $2
	`

	return r.selectSummaries(ctx, query, productID, limit)
}

func (r *ProductRepository) selectSummaries(ctx context.Context, query string, args ...interface{}) ([]*domain.ProductSummary, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
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

// AddImage attaches an image to a product
func (r *ProductRepository) AddImage(ctx context.Context, image *domain.ProductImage) error {
	query := `
		INSERT INTO product_images (product_id, variant_id, url, alt_text, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	image.CreatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		image.ProductID,
		image.VariantID,
		image.URL,
		image.AltText,
		image.DisplayOrder,
		image.CreatedAt,
	).Scan(&image.ID, &image.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// RemoveImage removes an image from a product
func (r *ProductRepository) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	query := `DELETE FROM product_images WHERE id = $1 AND product_id = $2`

	result, err := r.db.ExecContext(ctx, query, imageID, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
