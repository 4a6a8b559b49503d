package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slumberhaus/storefront/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func price(v float64) *float64 {
	return &v
}

func TestCatalogPredicate_NoFacets(t *testing.T) {
	clause, args, err := catalogPredicate(domain.CatalogFilter{})

	assert.NoError(t, err)
	assert.Equal(t, "p.is_published = TRUE", clause)
	assert.Empty(t, args)
}

func TestCatalogPredicate_AllFacets(t *testing.T) {
	filter := domain.CatalogFilter{
		Sizes:     []string{"queen", "king"},
		Firmness:  []string{"medium-firm"},
		Materials: []string{"memory-foam", "latex"},
		MinPrice:  price(500),
		MaxPrice:  price(2000),
	}

	clause, args, err := catalogPredicate(filter)

	assert.NoError(t, err)
	assert.Contains(t, clause, "p.is_published = TRUE")
	assert.Contains(t, clause, "v.size_id IN (?, ?)")
	assert.Contains(t, clause, "v.firmness_id IN (?)")
	assert.Contains(t, clause, "v.material_id IN (?, ?)")
	assert.Contains(t, clause, "v.price >= ?")
	assert.Contains(t, clause, "v.price <= ?")
	assert.Equal(t, []interface{}{"queen", "king", "medium-firm", "memory-foam", "latex", 500.0, 2000.0}, args)
}

func TestCatalogPredicate_ConditionsJoinedWithAND(t *testing.T) {
	filter := domain.CatalogFilter{
		Sizes:    []string{"queen"},
		Firmness: []string{"firm"},
	}

	clause, _, err := catalogPredicate(filter)

	assert.NoError(t, err)
	assert.Equal(t, "p.is_published = TRUE AND v.size_id IN (?) AND v.firmness_id IN (?)", clause)
}

func TestCatalogOrderClause_PriceSortsPutNullLast(t *testing.T) {
	asc := catalogOrderClause(domain.SortPriceAsc)
	desc := catalogOrderClause(domain.SortPriceDesc)

	assert.Contains(t, asc, "ASC NULLS LAST")
	assert.Contains(t, desc, "DESC NULLS LAST")
}

func TestCatalogOrderClause_DeterministicTieBreak(t *testing.T) {
	for _, sort := range []domain.SortOrder{domain.SortNewest, domain.SortPriceAsc, domain.SortPriceDesc} {
		clause := catalogOrderClause(sort)
		assert.Contains(t, clause, "p.created_at DESC, p.id")
	}
}

func TestCatalogRepository_SelectPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	productID := uuid.New()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "base_price", "created_at",
		"image_url", "starting_price", "available_sizes", "available_firmness",
	}).AddRow(
		productID.String(), "Cloud Nine", "Plush memory foam", 899.00, createdAt,
		"https://cdn.example.com/cloud-nine.jpg", 1099.00, "{queen,king}", "{medium-firm}",
	)

	mock.ExpectQuery(regexp.QuoteMeta("v.size_id IN (?)")).
		WithArgs("queen", 12, 0).
		WillReturnRows(rows)

	filter := domain.CatalogFilter{
		Sizes:    []string{"queen"},
		Sort:     domain.SortPriceAsc,
		Page:     1,
		PageSize: 12,
	}

	summaries, err := repo.SelectPage(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, productID, summaries[0].ID)
	assert.Equal(t, "Cloud Nine", summaries[0].Name)
	assert.Equal(t, 1099.00, *summaries[0].StartingPrice)
	assert.Equal(t, []string{"queen", "king"}, summaries[0].AvailableSizes)
	assert.True(t, summaries[0].InStock())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_SelectPage_OutOfStockProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "base_price", "created_at",
		"image_url", "starting_price", "available_sizes", "available_firmness",
	}).AddRow(
		uuid.New().String(), "Deep Rest", nil, 1299.00, time.Now(),
		nil, nil, "{king}", "{firm}",
	)

	mock.ExpectQuery("SELECT").WithArgs(12, 0).WillReturnRows(rows)

	filter := domain.CatalogFilter{Sort: domain.SortNewest, Page: 1, PageSize: 12}

	summaries, err := repo.SelectPage(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	// Out of stock products still list, with no starting price
	assert.Nil(t, summaries[0].StartingPrice)
	assert.False(t, summaries[0].InStock())
}

func TestCatalogRepository_SelectPage_Pagination(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "base_price", "created_at",
		"image_url", "starting_price", "available_sizes", "available_firmness",
	})

	// Page 3 at 12 per page lands on offset 24
	mock.ExpectQuery("LIMIT \\? OFFSET \\?").WithArgs(12, 24).WillReturnRows(rows)

	filter := domain.CatalogFilter{Sort: domain.SortNewest, Page: 3, PageSize: 12}

	summaries, err := repo.SelectPage(context.Background(), filter)

	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_CountProducts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT p.id)")).
		WithArgs("queen", 500.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	filter := domain.CatalogFilter{
		Sizes:    []string{"queen"},
		MinPrice: price(500),
	}

	count, err := repo.CountProducts(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_PageAndCountShareArgs(t *testing.T) {
	// The count query binds exactly the page query's filter args, so a page
	// and its total can never disagree about which products match.
	filter := domain.CatalogFilter{
		Sizes:     []string{"queen", "king"},
		Materials: []string{"latex"},
		MaxPrice:  price(1500),
		Page:      2,
		PageSize:  12,
	}

	pageClause, pageArgs, err := catalogPredicate(filter)
	require.NoError(t, err)

	countClause, countArgs, err := catalogPredicate(filter)
	require.NoError(t, err)

	assert.Equal(t, pageClause, countClause)
	assert.Equal(t, pageArgs, countArgs)
}
