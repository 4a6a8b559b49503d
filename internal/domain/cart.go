package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cart belongs to either a signed-in user or a guest session, never both.
type Cart struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       *string   `json:"user_id,omitempty" db:"user_id"`
	SessionToken *string   `json:"session_token,omitempty" db:"session_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Items []*CartItem `json:"items" db:"-"`
}

// CartItem is one variant in a cart with a quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	VariantID uuid.UUID `json:"variant_id" db:"variant_id"`
	Quantity  int       `json:"quantity" db:"quantity" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Denormalized display data, populated on reads
	ProductID   *uuid.UUID `json:"product_id,omitempty" db:"product_id"`
	ProductName *string    `json:"product_name,omitempty" db:"product_name"`
	SizeName    *string    `json:"size_name,omitempty" db:"size_name"`
	Price       *float64   `json:"price,omitempty" db:"price"`
	ImageURL    *string    `json:"image_url,omitempty" db:"image_url"`
}

// CartOwner identifies whose cart is being addressed. Exactly one field
// is set; auth itself lives outside this service.
type CartOwner struct {
	UserID       *string
	SessionToken *string
}

// CartRepository defines data access for carts
type CartRepository interface {
	// GetOrCreate returns the owner's cart, creating an empty one if none exists
	GetOrCreate(ctx context.Context, owner CartOwner) (*Cart, error)

	// GetWithItems returns the owner's cart with display-ready items, or ErrNotFound
	GetWithItems(ctx context.Context, owner CartOwner) (*Cart, error)

	// GetItem returns a cart item by cart and variant, or ErrNotFound
	GetItem(ctx context.Context, cartID, variantID uuid.UUID) (*CartItem, error)

	// UpsertItem inserts the item or adds to the existing quantity
	UpsertItem(ctx context.Context, item *CartItem) error

	// UpdateItemQuantity sets an item's quantity
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItem removes an item from its cart
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
