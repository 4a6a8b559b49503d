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

// CartRepository implements domain.CartRepository for PostgreSQL
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new PostgreSQL cart repository
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ownerClause returns the WHERE fragment and argument addressing the
// owner's cart. Exactly one of user id or session token is set.
func ownerClause(owner domain.CartOwner) (string, interface{}) {
	if owner.UserID != nil {
		return "user_id = $1", *owner.UserID
	}
	return "session_token = $1", *owner.SessionToken
}

// GetOrCreate returns the owner's cart, creating an empty one if none exists
func (r *CartRepository) GetOrCreate(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	clause, arg := ownerClause(owner)

	var cart domain.Cart
	query := `SELECT id, user_id, session_token, created_at, updated_at FROM carts WHERE ` + clause
	err := r.db.GetContext(ctx, &cart, query, arg)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	insert := `
		INSERT INTO carts (user_id, session_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, session_token, created_at, updated_at
	`
	err = r.db.QueryRowxContext(ctx, insert, owner.UserID, owner.SessionToken, now, now).StructScan(&cart)
	if err != nil {
		// Concurrent create for the same owner: take the winner's row
		if isUniqueViolation(err) {
			if getErr := r.db.GetContext(ctx, &cart, query, arg); getErr != nil {
				return nil, getErr
			}
			return &cart, nil
		}
		return nil, err
	}

	return &cart, nil
}

// GetWithItems returns the owner's cart with display-ready items
func (r *CartRepository) GetWithItems(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	clause, arg := ownerClause(owner)

	var cart domain.Cart
	query := `SELECT id, user_id, session_token, created_at, updated_at FROM carts WHERE ` + clause
	if err := r.db.GetContext(ctx, &cart, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	itemsQuery := `
		SELECT
			ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id AS product_id,
			p.name AS product_name,
			s.name AS size_name,
			v.price AS price,
			` + firstImageExpr + ` AS image_url
		FROM cart_items ci
		INNER JOIN product_variants v ON v.id = ci.variant_id
		INNER JOIN products p ON p.id = v.product_id
		INNER JOIN sizes s ON s.id = v.size_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`

	items := []*domain.CartItem{}
	if err := r.db.SelectContext(ctx, &items, itemsQuery, cart.ID); err != nil {
		return nil, err
	}

	cart.Items = items
	return &cart, nil
}

// GetItem returns a cart item by cart and variant
func (r *CartRepository) GetItem(ctx context.Context, cartID, variantID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, variant_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND variant_id = $2
	`

	var item domain.CartItem
	err := r.db.GetContext(ctx, &item, query, cartID, variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &item, nil
}

// UpsertItem inserts the item or adds its quantity to the existing row
func (r *CartRepository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, variant_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, quantity, created_at, updated_at
	`

	now := time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		item.CartID,
		item.VariantID,
		item.Quantity,
		now,
		now,
	).Scan(
		&item.ID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// UpdateItemQuantity sets an item's quantity
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now(), itemID)
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

// DeleteItem removes an item from its cart
func (r *CartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID)
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
