package review

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	pkgvalidator "github.com/slumberhaus/storefront/internal/pkg/validator"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Cache is the cache-aside surface the service needs
type Cache interface {
	GetReviewsList(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	SetReviewsList(ctx context.Context, productID uuid.UUID, limit, offset int, reviews []*domain.Review) error
	InvalidateReviews(ctx context.Context, productID uuid.UUID) error
}

// Service handles product review business logic with caching
type Service struct {
	repo     domain.ReviewRepository
	cache    Cache
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new review service
func NewService(repo domain.ReviewRepository, cache Cache, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// Create creates a new review and drops the product's cached review pages
func (s *Service) Create(ctx context.Context, review *domain.Review) error {
	if err := s.validate.Struct(review); err != nil {
		s.logger.Error("Review validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if err != domain.ErrNotFound {
			s.logger.Error("Failed to create review", err)
		}
		return err
	}

	// Stale cache would show the list without the new review
	if err := s.cache.InvalidateReviews(ctx, review.ProductID); err != nil {
		s.logger.Warnf("Failed to invalidate reviews cache for product %s: %v", review.ProductID, err)
	}

	s.logger.WithFields(map[string]any{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review created")

	return nil
}

// ListByProduct retrieves reviews for a product with caching, newest first.
// Returns the page and the total review count.
func (s *Service) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.Review, int, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.cache.GetReviewsList(ctx, productID, limit, offset)
	if err == nil {
		total, err := s.repo.CountByProduct(ctx, productID)
		if err != nil {
			s.logger.Error("Failed to count reviews", err)
			return nil, 0, err
		}
		return reviews, total, nil
	}

	reviews, err = s.repo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list reviews", err)
		return nil, 0, err
	}

	total, err := s.repo.CountByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to count reviews", err)
		return nil, 0, err
	}

	if err := s.cache.SetReviewsList(ctx, productID, limit, offset, reviews); err != nil {
		s.logger.Warnf("Failed to cache reviews for product %s: %v", productID, err)
	}

	return reviews, total, nil
}

// RatingSummary returns the review count and average rating for a product
func (s *Service) RatingSummary(ctx context.Context, productID uuid.UUID) (*domain.RatingSummary, error) {
	summary, err := s.repo.GetRatingSummary(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to get rating summary", err)
		return nil, err
	}

	return summary, nil
}
