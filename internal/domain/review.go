package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a product. The user id is an opaque
// reference to the external auth system; the display name travels with
// the review so listings need no user lookup.
type Review struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	ReviewerName string    `json:"reviewer_name" db:"reviewer_name" validate:"required,min=1,max=100"`
	Rating       int       `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Comment      *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RatingSummary aggregates a product's reviews for the detail page.
// AverageRating is nil when the product has no reviews yet.
type RatingSummary struct {
	AverageRating *float64 `json:"average_rating" db:"average_rating"`
	ReviewCount   int      `json:"review_count" db:"review_count"`
}

// ReviewRepository defines data access for product reviews
type ReviewRepository interface {
	// Create creates a new review; a missing product yields ErrNotFound
	Create(ctx context.Context, review *Review) error

	// ListByProduct retrieves reviews for a product, newest first
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*Review, error)

	// CountByProduct returns the total number of reviews for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)

	// GetRatingSummary returns the review count and average rating for a product
	GetRatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error)
}
