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

// VariantRepository implements domain.VariantRepository for PostgreSQL
type VariantRepository struct {
	db *sqlx.DB
}

// NewVariantRepository creates a new PostgreSQL variant repository
func NewVariantRepository(db *sqlx.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// Create creates a new variant
func (r *VariantRepository) Create(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		INSERT INTO product_variants (product_id, size_id, firmness_id, material_id, price, stock_quantity, sku, weight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	variant.CreatedAt = now
	variant.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		variant.ProductID,
		variant.SizeID,
		variant.FirmnessID,
		variant.MaterialID,
		variant.Price,
		variant.StockQuantity,
		variant.SKU,
		variant.Weight,
		variant.CreatedAt,
		variant.UpdatedAt,
	).Scan(
		&variant.ID,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		// Unknown product or facet slug
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// GetByID retrieves a variant by ID
func (r *VariantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, size_id, firmness_id, material_id, price, stock_quantity, sku, weight, created_at, updated_at
		FROM product_variants
		WHERE id = $1
	`

	var variant domain.ProductVariant
	err := r.db.GetContext(ctx, &variant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &variant, nil
}

// Update updates price, stock and facet references of a variant
func (r *VariantRepository) Update(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET size_id = $1, firmness_id = $2, material_id = $3, price = $4, stock_quantity = $5, sku = $6, weight = $7, updated_at = $8
		WHERE id = $9
		RETURNING updated_at
	`

	variant.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		variant.SizeID,
		variant.FirmnessID,
		variant.MaterialID,
		variant.Price,
		variant.StockQuantity,
		variant.SKU,
		variant.Weight,
		variant.UpdatedAt,
		variant.ID,
	).Scan(&variant.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// Delete removes a variant
func (r *VariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM product_variants WHERE id = $1`

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
