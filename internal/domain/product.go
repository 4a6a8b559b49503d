package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is the aggregate root of the catalog. Variants and images belong
// to it and are removed when it is deleted.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	Name        string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty" db:"description"`
	BasePrice   float64    `json:"base_price" db:"base_price" validate:"required,gte=0"`
	IsPublished bool       `json:"is_published" db:"is_published"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductVariant is one purchasable configuration of a product: one size,
// one firmness, one material, with its own price and stock.
type ProductVariant struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	SizeID        string    `json:"size_id" db:"size_id" validate:"required,slug,max=20"`
	FirmnessID    string    `json:"firmness_id" db:"firmness_id" validate:"required,slug,max=20"`
	MaterialID    string    `json:"material_id" db:"material_id" validate:"required,slug,max=20"`
	Price         float64   `json:"price" db:"price" validate:"required,gte=0"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity" validate:"gte=0"`
	SKU           string    `json:"sku" db:"sku" validate:"required,min=1,max=64"`
	Weight        float64   `json:"weight" db:"weight" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Resolved lookups, populated on detail reads only
	Size     *Size     `json:"size,omitempty" db:"-"`
	Firmness *Firmness `json:"firmness,omitempty" db:"-"`
	Material *Material `json:"material,omitempty" db:"-"`
}

// InStock reports whether the variant has units available.
func (v *ProductVariant) InStock() bool {
	return v.StockQuantity > 0
}

// ProductImage belongs to a product, optionally pinned to a variant.
// The lowest display order image is the card image.
type ProductImage struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ProductID    uuid.UUID  `json:"product_id" db:"product_id"`
	VariantID    *uuid.UUID `json:"variant_id,omitempty" db:"variant_id"`
	URL          string     `json:"url" db:"url" validate:"required,url"`
	AltText      *string    `json:"alt_text,omitempty" db:"alt_text"`
	DisplayOrder int        `json:"display_order" db:"display_order" validate:"gte=0"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ProductDetail is the full aggregate for the product page.
type ProductDetail struct {
	Product
	Variants []*ProductVariant `json:"variants"`
	Images   []*ProductImage   `json:"images"`
	Rating   RatingSummary     `json:"rating"`
}

// ProductRepository defines admin-side data access for the product aggregate
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetDetail retrieves a product with its variants (lookups resolved) and ordered images
	GetDetail(ctx context.Context, id uuid.UUID) (*ProductDetail, error)

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product; variants and images go with it
	Delete(ctx context.Context, id uuid.UUID) error

	// ListFeatured returns up to limit random published products as catalog summaries
	ListFeatured(ctx context.Context, limit int) ([]*ProductSummary, error)

	// ListRecommended returns up to limit other published products from the same category
	ListRecommended(ctx context.Context, productID uuid.UUID, limit int) ([]*ProductSummary, error)

	// AddImage attaches an image to a product
	AddImage(ctx context.Context, image *ProductImage) error

	// RemoveImage removes an image from a product
	RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error
}

// VariantRepository defines data access for product variants
type VariantRepository interface {
	// Create creates a new variant; a duplicate SKU yields ErrAlreadyExists
	Create(ctx context.Context, variant *ProductVariant) error

	// GetByID retrieves a variant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)

	// Update updates price, stock and facet references of a variant
	Update(ctx context.Context, variant *ProductVariant) error

	// Delete removes a variant
	Delete(ctx context.Context, id uuid.UUID) error
}
