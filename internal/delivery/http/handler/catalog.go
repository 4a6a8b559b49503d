package handler

import (
	"net/http"

	"github.com/slumberhaus/storefront/internal/delivery/http/request"
	"github.com/slumberhaus/storefront/internal/delivery/http/response"
	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	"github.com/slumberhaus/storefront/internal/usecase/catalog"
)

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	service       *catalog.Service
	logger        *logger.Logger
	pageSize      int
	featuredCount int
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *catalog.Service, log *logger.Logger, pageSize, featuredCount int) *CatalogHandler {
	return &CatalogHandler{
		service:       service,
		logger:        log,
		pageSize:      pageSize,
		featuredCount: featuredCount,
	}
}

// ListProducts handles GET /api/v1/catalog/products
// @Summary Browse the catalog with facet filters
// @Description Returns a page of products matching the selected facets, each with its in-stock starting price; out-of-stock products are listed without a price and sort last under price sorts
// @Tags Catalog
// @Accept json
// @Produce json
// @Param sizes query string false "Size slugs, comma-separated or repeated"
// @Param firmness query string false "Firmness slugs, comma-separated or repeated"
// @Param materials query string false "Material slugs, comma-separated or repeated"
// @Param minPrice query number false "Minimum variant price (inclusive)"
// @Param maxPrice query number false "Maximum variant price (inclusive)"
// @Param sort query string false "Sort order (newest | price_asc | price_desc)" default(newest)
// @Param page query int false "Page number (1-based)" default(1)
// @Success 200 {object} map[string]interface{} "Catalog page with total count"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /catalog/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domain.CatalogFilter{
		Sizes:     request.GetListQuery(r, "sizes"),
		Firmness:  request.GetListQuery(r, "firmness"),
		Materials: request.GetListQuery(r, "materials"),
		MinPrice:  request.GetFloatQuery(r, "minPrice"),
		MaxPrice:  request.GetFloatQuery(r, "maxPrice"),
		Sort:      domain.SortOrder(r.URL.Query().Get("sort")),
		Page:      request.GetPageQuery(r),
		PageSize:  h.pageSize,
	}

	page, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Internal error in catalog handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(w, page)
}

// ListFilters handles GET /api/v1/catalog/filters
// @Summary Filter metadata
// @Description Returns the full size, firmness, material and category reference data for the filter UI
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Filter metadata"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /catalog/filters [get]
func (h *CatalogHandler) ListFilters(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.FilterMetadata(r.Context())
	if err != nil {
		h.logger.Error("Internal error in catalog handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(w, meta)
}

// ListFeatured handles GET /api/v1/catalog/featured
// @Summary Featured products
// @Description Returns a small random selection of published products for the homepage
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Featured products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /catalog/featured [get]
func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.service.Featured(r.Context(), h.featuredCount)
	if err != nil {
		h.logger.Error("Internal error in catalog handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(w, featured)
}
