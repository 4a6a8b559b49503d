package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
)

// Service handles cart business logic. The stock guard is advisory at
// add time: stock is only decremented at checkout, which lives outside
// this service.
type Service struct {
	carts    domain.CartRepository
	variants domain.VariantRepository
	logger   *logger.Logger
}

// NewService creates a new cart service
func NewService(carts domain.CartRepository, variants domain.VariantRepository, log *logger.Logger) *Service {
	return &Service{
		carts:    carts,
		variants: variants,
		logger:   log,
	}
}

// Get returns the owner's cart with display-ready items. An owner without
// a cart gets an empty one rather than ErrNotFound.
func (s *Service) Get(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	cart, err := s.carts.GetWithItems(ctx, owner)
	if err != nil {
		if err == domain.ErrNotFound {
			return s.carts.GetOrCreate(ctx, owner)
		}
		s.logger.Error("Failed to get cart", err)
		return nil, err
	}

	return cart, nil
}

// AddItem puts quantity units of a variant into the owner's cart. The
// existing cart quantity plus the new quantity must not exceed the
// variant's stock.
func (s *Service) AddItem(ctx context.Context, owner domain.CartOwner, variantID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Variant not found: %s", variantID)
		} else {
			s.logger.Error("Failed to get variant", err)
		}
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to get or create cart", err)
		return nil, err
	}

	currentQty := 0
	existing, err := s.carts.GetItem(ctx, cart.ID, variantID)
	if err != nil && err != domain.ErrNotFound {
		s.logger.Error("Failed to check existing cart item", err)
		return nil, err
	}
	if existing != nil {
		currentQty = existing.Quantity
	}

	if variant.StockQuantity < currentQty+quantity {
		s.logger.WithFields(map[string]interface{}{
			"variant_id": variantID,
			"requested":  currentQty + quantity,
			"stock":      variant.StockQuantity,
		}).Debug("Cart add exceeds stock")
		return nil, domain.ErrInsufficientStock
	}

	item := &domain.CartItem{
		CartID:    cart.ID,
		VariantID: variantID,
		Quantity:  quantity,
	}

	if err := s.carts.UpsertItem(ctx, item); err != nil {
		s.logger.Error("Failed to upsert cart item", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"cart_id":    cart.ID,
		"variant_id": variantID,
		"quantity":   item.Quantity,
	}).Info("Cart item added")

	return item, nil
}

// UpdateItem sets an item's quantity; zero removes the item.
func (s *Service) UpdateItem(ctx context.Context, itemID uuid.UUID, variantID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidInput
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}

	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return err
	}

	if variant.StockQuantity < quantity {
		return domain.ErrInsufficientStock
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		s.logger.Error("Failed to update cart item", err)
		return err
	}

	return nil
}

// RemoveItem deletes an item from its cart
func (s *Service) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.carts.DeleteItem(ctx, itemID); err != nil {
		s.logger.Error("Failed to remove cart item", err)
		return err
	}

	return nil
}
