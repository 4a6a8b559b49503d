//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slumberhaus/storefront/internal/config"
	"github.com/slumberhaus/storefront/internal/delivery/events"
	httpDelivery "github.com/slumberhaus/storefront/internal/delivery/http"
	"github.com/slumberhaus/storefront/internal/delivery/http/handler"
	"github.com/slumberhaus/storefront/internal/pkg/cache"
	"github.com/slumberhaus/storefront/internal/pkg/database"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	cacheRepo "github.com/slumberhaus/storefront/internal/repository/cache"
	"github.com/slumberhaus/storefront/internal/repository/postgres"
	"github.com/slumberhaus/storefront/internal/usecase/cart"
	"github.com/slumberhaus/storefront/internal/usecase/catalog"
	"github.com/slumberhaus/storefront/internal/usecase/product"
	"github.com/slumberhaus/storefront/internal/usecase/review"
)

// setupTestServer wires the full stack against the compose services and
// starts every test from empty product, cart and review tables with a
// cold cache. Reference data (sizes, firmness, materials) stays seeded.
func setupTestServer(t *testing.T) (http.Handler, *sqlx.DB) {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)

	_, err = db.Exec(`TRUNCATE products, carts CASCADE`)
	require.NoError(t, err)
	require.NoError(t, redisClient.FlushDB(context.Background()).Err())

	catalogRepo := postgres.NewCatalogRepository(db)
	productRepo := postgres.NewProductRepository(db)
	variantRepo := postgres.NewVariantRepository(db)
	lookupRepo := postgres.NewLookupRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.CatalogPageTTL,
		cfg.Cache.FilterMetaTTL,
		cfg.Cache.ReviewsListTTL,
	)

	catalogService := catalog.NewService(catalogRepo, productRepo, lookupRepo, redisCache, log, cfg.Catalog.PageSize)
	productService := product.NewService(productRepo, variantRepo, publisher, log)
	cartService := cart.NewService(cartRepo, variantRepo, log)
	reviewService := review.NewService(reviewRepo, redisCache, log)

	catalogHandler := handler.NewCatalogHandler(catalogService, log, cfg.Catalog.PageSize, cfg.Catalog.FeaturedCount)
	productHandler := handler.NewProductHandler(productService, log)
	cartHandler := handler.NewCartHandler(cartService, log)
	reviewHandler := handler.NewReviewHandler(reviewService, log)

	router := httpDelivery.NewRouter(catalogHandler, productHandler, reviewHandler, cartHandler, cfg, log)
	return router.Setup(), db
}

func doJSON(t *testing.T, server http.Handler, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp["success"].(bool))
	return resp["data"].(map[string]interface{})
}

// seedProduct creates a published product through the admin API
func seedProduct(t *testing.T, server http.Handler, name string, basePrice float64, published bool) string {
	t.Helper()

	body := fmt.Sprintf(`{"name": %q, "base_price": %v, "is_published": %v}`, name, basePrice, published)
	w := doJSON(t, server, http.MethodPost, "/api/v1/admin/products", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeData(t, w)["id"].(string)
}

// seedVariant creates a variant through the admin API
func seedVariant(t *testing.T, server http.Handler, productID, size, firmness string, price float64, stock int) {
	t.Helper()

	sku := fmt.Sprintf("%s-%s-%s", size, firmness, uuid.New().String()[:8])
	body := fmt.Sprintf(
		`{"size_id": %q, "firmness_id": %q, "material_id": "memory-foam", "price": %v, "stock_quantity": %d, "sku": %q}`,
		size, firmness, price, stock, sku,
	)
	w := doJSON(t, server, http.MethodPost, "/api/v1/admin/products/"+productID+"/variants", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func listCatalog(t *testing.T, server http.Handler, query string) map[string]interface{} {
	t.Helper()

	w := doJSON(t, server, http.MethodGet, "/api/v1/catalog/products"+query, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decodeData(t, w)
}

func TestHealthCheck(t *testing.T) {
	server, _ := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
}

// A product matches only when one variant satisfies every facet at once.
// Two variants covering the constraints separately must not count.
func TestCatalogFacetConjunctionPerVariant(t *testing.T) {
	server, _ := setupTestServer(t)

	split := seedProduct(t, server, "Split Facets", 900, true)
	seedVariant(t, server, split, "queen", "soft", 900, 5)
	seedVariant(t, server, split, "king", "firm", 950, 5)

	matching := seedProduct(t, server, "True Match", 1000, true)
	seedVariant(t, server, matching, "queen", "firm", 1000, 5)

	page := listCatalog(t, server, "?sizes=queen&firmness=firm")

	assert.Equal(t, float64(1), page["total_count"])
	products := page["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, matching, products[0].(map[string]interface{})["id"])
}

// Under price_asc, in-stock products order by starting price and every
// all-out-of-stock product trails them with a null starting price.
func TestCatalogPriceAscPutsOutOfStockLast(t *testing.T) {
	server, _ := setupTestServer(t)

	p1 := seedProduct(t, server, "Queen Firm Stocked", 100, true)
	seedVariant(t, server, p1, "queen", "firm", 100, 5)
	seedVariant(t, server, p1, "king", "firm", 140, 0)

	p2 := seedProduct(t, server, "Queen Firm Sold Out", 90, true)
	seedVariant(t, server, p2, "queen", "firm", 90, 0)

	p3 := seedProduct(t, server, "Queen Soft", 80, true)
	seedVariant(t, server, p3, "queen", "soft", 80, 2)

	page := listCatalog(t, server, "?sizes=queen&firmness=firm&sort=price_asc")

	assert.Equal(t, float64(2), page["total_count"])
	products := page["products"].([]interface{})
	require.Len(t, products, 2)

	first := products[0].(map[string]interface{})
	assert.Equal(t, p1, first["id"])
	assert.Equal(t, float64(100), first["starting_price"])

	second := products[1].(map[string]interface{})
	assert.Equal(t, p2, second["id"])
	assert.Nil(t, second["starting_price"])
}

func TestCatalogUnpublishedExcluded(t *testing.T) {
	server, _ := setupTestServer(t)

	draft := seedProduct(t, server, "Draft Mattress", 500, false)
	seedVariant(t, server, draft, "queen", "firm", 500, 10)

	page := listCatalog(t, server, "?sizes=queen")

	assert.Equal(t, float64(0), page["total_count"])
	assert.Empty(t, page["products"].([]interface{}))
}

// Walking every page must yield exactly total_count products with no
// duplicates and no gaps.
func TestCatalogPagesSumToTotalCount(t *testing.T) {
	server, _ := setupTestServer(t)

	const productCount = 15
	for i := 0; i < productCount; i++ {
		id := seedProduct(t, server, fmt.Sprintf("Mattress %02d", i), float64(100+i), true)
		seedVariant(t, server, id, "queen", "firm", float64(100+i), 3)
	}

	seen := map[string]bool{}
	total := 0
	for p := 1; ; p++ {
		page := listCatalog(t, server, fmt.Sprintf("?sizes=queen&sort=price_asc&page=%d", p))
		assert.Equal(t, float64(productCount), page["total_count"])

		products := page["products"].([]interface{})
		if len(products) == 0 {
			break
		}
		for _, raw := range products {
			id := raw.(map[string]interface{})["id"].(string)
			assert.False(t, seen[id], "product %s appeared on more than one page", id)
			seen[id] = true
		}
		total += len(products)
	}

	assert.Equal(t, productCount, total)
}

// Re-issuing the identical request against unchanged data returns the
// identical page, byte for byte.
func TestCatalogRepeatReadIsIdentical(t *testing.T) {
	server, _ := setupTestServer(t)

	id := seedProduct(t, server, "Stable Mattress", 750, true)
	seedVariant(t, server, id, "queen", "medium-firm", 750, 4)

	first := doJSON(t, server, http.MethodGet, "/api/v1/catalog/products?sizes=queen&sort=price_asc", "", nil)
	second := doJSON(t, server, http.MethodGet, "/api/v1/catalog/products?sizes=queen&sort=price_asc", "", nil)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestProductReviewsAndRatingSummary(t *testing.T) {
	server, _ := setupTestServer(t)

	id := seedProduct(t, server, "Reviewed Mattress", 1200, true)
	seedVariant(t, server, id, "queen", "firm", 1200, 2)

	userID := uuid.New().String()
	w := doJSON(t, server, http.MethodPost, "/api/v1/products/"+id+"/reviews",
		`{"reviewer_name": "Ana", "rating": 4, "comment": "Holds its shape"}`,
		map[string]string{"X-User-ID": userID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/products/"+id+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listResp))
	pagination := listResp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])

	w = doJSON(t, server, http.MethodGet, "/api/v1/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decodeData(t, w)
	rating := detail["rating"].(map[string]interface{})
	assert.Equal(t, float64(1), rating["review_count"])
	assert.Equal(t, float64(4), rating["average_rating"])
}

// A variant row written without an explicit weight must still read back
// cleanly from the detail query.
func TestVariantWeightDefaultsToZero(t *testing.T) {
	server, db := setupTestServer(t)

	id := seedProduct(t, server, "Weightless Mattress", 600, true)

	_, err := db.Exec(`
		INSERT INTO product_variants (product_id, size_id, firmness_id, material_id, price, stock_quantity, sku)
		VALUES ($1, 'queen', 'firm', 'memory-foam', 600, 1, $2)
	`, id, "NOWEIGHT-"+uuid.New().String()[:8])
	require.NoError(t, err)

	w := doJSON(t, server, http.MethodGet, "/api/v1/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decodeData(t, w)
	variants := detail["variants"].([]interface{})
	require.Len(t, variants, 1)
	assert.Equal(t, float64(0), variants[0].(map[string]interface{})["weight"])
}
