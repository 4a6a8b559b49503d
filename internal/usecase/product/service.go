package product

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/delivery/events"
	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	pkgvalidator "github.com/slumberhaus/storefront/internal/pkg/validator"
)

// EventPublisher publishes catalog change events
type EventPublisher interface {
	PublishCatalogEvent(ctx context.Context, eventType string, productID uuid.UUID) error
}

// Service handles the admin side of the catalog: product aggregate CRUD,
// variant and image management, plus storefront detail reads.
type Service struct {
	products  domain.ProductRepository
	variants  domain.VariantRepository
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new product service
func NewService(
	products domain.ProductRepository,
	variants domain.VariantRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		products:  products,
		variants:  variants,
		publisher: publisher,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// publishEvent notifies the cache worker of a catalog change. A publish
// failure does not fail the mutation: the cached page TTL is the backstop.
func (s *Service) publishEvent(ctx context.Context, eventType string, productID uuid.UUID) {
	if err := s.publisher.PublishCatalogEvent(ctx, eventType, productID); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"type":       eventType,
			"product_id": productID,
		}).Error("Failed to publish catalog event", err)
	}
}

// Create creates a new product
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created successfully")

	s.publishEvent(ctx, events.EventProductCreated, product.ID)
	return nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// GetDetail retrieves the full product aggregate for the product page
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	detail, err := s.products.GetDetail(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product detail", err)
		}
		return nil, err
	}

	return detail, nil
}

// Recommended returns other published products from the same category
func (s *Service) Recommended(ctx context.Context, productID uuid.UUID, limit int) ([]*domain.ProductSummary, error) {
	if limit <= 0 || limit > 12 {
		limit = 4
	}

	recommended, err := s.products.ListRecommended(ctx, productID, limit)
	if err != nil {
		s.logger.Error("Failed to list recommended products", err)
		return nil, err
	}

	return recommended, nil
}

// Update updates an existing product
func (s *Service) Update(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product updated successfully")

	s.publishEvent(ctx, events.EventProductUpdated, product.ID)
	return nil
}

// Delete deletes a product with its variants and images
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deleted successfully")

	s.publishEvent(ctx, events.EventProductDeleted, id)
	return nil
}

// CreateVariant adds a variant to a product
func (s *Service) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	if err := s.validate.Struct(variant); err != nil {
		s.logger.Error("Variant validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.variants.Create(ctx, variant); err != nil {
		s.logger.Error("Failed to create variant", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
	}).Info("Variant created successfully")

	s.publishEvent(ctx, events.EventVariantChanged, variant.ProductID)
	return nil
}

// UpdateVariant updates a variant's facets, price and stock
func (s *Service) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	if err := s.validate.Struct(variant); err != nil {
		s.logger.Error("Variant validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.variants.Update(ctx, variant); err != nil {
		s.logger.Error("Failed to update variant", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	}).Info("Variant updated successfully")

	s.publishEvent(ctx, events.EventVariantChanged, variant.ProductID)
	return nil
}

// DeleteVariant removes a variant from its product
func (s *Service) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return err
	}

	if err := s.variants.Delete(ctx, variantID); err != nil {
		s.logger.Error("Failed to delete variant", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"variant_id": variantID,
		"product_id": variant.ProductID,
	}).Info("Variant deleted successfully")

	s.publishEvent(ctx, events.EventVariantChanged, variant.ProductID)
	return nil
}

// AddImage attaches an image to a product
func (s *Service) AddImage(ctx context.Context, image *domain.ProductImage) error {
	if err := s.validate.Struct(image); err != nil {
		s.logger.Error("Image validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.products.AddImage(ctx, image); err != nil {
		s.logger.Error("Failed to add image", err)
		return err
	}

	s.publishEvent(ctx, events.EventImageChanged, image.ProductID)
	return nil
}

// RemoveImage detaches an image from a product
func (s *Service) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if err := s.products.RemoveImage(ctx, productID, imageID); err != nil {
		s.logger.Error("Failed to remove image", err)
		return err
	}

	s.publishEvent(ctx, events.EventImageChanged, productID)
	return nil
}
