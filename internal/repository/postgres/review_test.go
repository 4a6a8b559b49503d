package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slumberhaus/storefront/internal/domain"
)

func TestReviewRepository_Create_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := uuid.New()
	review := &domain.Review{
		ProductID:    productID,
		UserID:       uuid.New(),
		ReviewerName: "Ana",
		Rating:       5,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)")).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(productID, review.UserID, "Ana", 5, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), now, now))

	err := repo.Create(context.Background(), review)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ProductMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := uuid.New()
	review := &domain.Review{
		ProductID:    productID,
		UserID:       uuid.New(),
		ReviewerName: "Ana",
		Rating:       4,
	}

	// Existence gate fires before the insert, so a missing product is a
	// clean not-found instead of an FK violation
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)")).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.Create(context.Background(), review)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProduct_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := uuid.New()
	newer := time.Now()
	older := newer.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "product_id", "user_id", "reviewer_name", "rating", "comment", "created_at", "updated_at",
	}).
		AddRow(uuid.New().String(), productID.String(), uuid.New().String(), "Ana", 5, "Great", newer, newer).
		AddRow(uuid.New().String(), productID.String(), uuid.New().String(), "Ben", 3, nil, older, older)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(productID, 20, 0).
		WillReturnRows(rows)

	reviews, err := repo.ListByProduct(context.Background(), productID, 20, 0)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Ana", reviews[0].ReviewerName)
	assert.Equal(t, "Ben", reviews[1].ReviewerName)
	assert.Nil(t, reviews[1].Comment)
}

func TestReviewRepository_GetRatingSummary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS review_count, AVG(rating) AS average_rating")).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"review_count", "average_rating"}).AddRow(2, 4.5))

	summary, err := repo.GetRatingSummary(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.ReviewCount)
	require.NotNil(t, summary.AverageRating)
	assert.Equal(t, 4.5, *summary.AverageRating)
}

func TestReviewRepository_GetRatingSummary_NoReviews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := uuid.New()

	// AVG over zero rows is NULL
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS review_count, AVG(rating) AS average_rating")).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"review_count", "average_rating"}).AddRow(0, nil))

	summary, err := repo.GetRatingSummary(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.ReviewCount)
	assert.Nil(t, summary.AverageRating)
}
