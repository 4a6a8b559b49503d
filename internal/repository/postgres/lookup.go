package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/slumberhaus/storefront/internal/domain"
)

// LookupRepository implements domain.LookupRepository for PostgreSQL.
// The facet tables are tiny reference data, always loaded in full.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository creates a new PostgreSQL lookup repository
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	query := `SELECT id, name, dimensions FROM sizes ORDER BY name`

	var sizes []*domain.Size
	if err := r.db.SelectContext(ctx, &sizes, query); err != nil {
		return nil, err
	}

	return sizes, nil
}

func (r *LookupRepository) ListFirmness(ctx context.Context) ([]*domain.Firmness, error) {
	query := `SELECT id, name, rating, description FROM firmness ORDER BY rating`

	var firmness []*domain.Firmness
	if err := r.db.SelectContext(ctx, &firmness, query); err != nil {
		return nil, err
	}

	return firmness, nil
}

func (r *LookupRepository) ListMaterials(ctx context.Context) ([]*domain.Material, error) {
	query := `SELECT id, name, description FROM materials ORDER BY name`

	var materials []*domain.Material
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, err
	}

	return materials, nil
}

func (r *LookupRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, name, slug FROM categories ORDER BY name`

	var categories []*domain.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}
