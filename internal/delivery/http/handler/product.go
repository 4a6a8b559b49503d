package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/delivery/http/request"
	"github.com/slumberhaus/storefront/internal/delivery/http/response"
	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	"github.com/slumberhaus/storefront/internal/usecase/product"
)

// ProductHandler handles HTTP requests for product detail and admin CRUD
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	BasePrice   float64    `json:"base_price" validate:"required,gte=0"`
	IsPublished bool       `json:"is_published"`
}

// VariantRequest represents the request body for creating or updating a variant
type VariantRequest struct {
	SizeID        string  `json:"size_id" validate:"required,slug"`
	FirmnessID    string  `json:"firmness_id" validate:"required,slug"`
	MaterialID    string  `json:"material_id" validate:"required,slug"`
	Price         float64 `json:"price" validate:"required,gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"required"`
	Weight        float64 `json:"weight" validate:"gte=0"`
}

// ImageRequest represents the request body for attaching an image
type ImageRequest struct {
	VariantID    *uuid.UUID `json:"variant_id,omitempty"`
	URL          string     `json:"url" validate:"required,url"`
	AltText      *string    `json:"alt_text,omitempty"`
	DisplayOrder int        `json:"display_order" validate:"gte=0"`
}

// GetDetail handles GET /api/v1/products/:id
// @Summary Get a product with variants and images
// @Description Product page data: the product, its variants with resolved size/firmness/material, and ordered images
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product detail"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [get]
func (h *ProductHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, detail)
}

// ListRecommended handles GET /api/v1/products/:id/recommended
// @Summary Recommended products
// @Description Other published products from the same category
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param limit query int false "Max number of recommendations" default(4)
// @Success 200 {object} map[string]interface{} "Recommended products"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/recommended [get]
func (h *ProductHandler) ListRecommended(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	limit := request.GetIntQuery(r, "limit", 4)

	recommended, err := h.service.Recommended(r.Context(), id, limit)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, recommended)
}

// Create handles POST /api/v1/admin/products
// @Summary Create a product
// @Tags Admin
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prod := &domain.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		IsPublished: req.IsPublished,
	}

	if err := h.service.Create(r.Context(), prod); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, prod)
}

// Update handles PUT /api/v1/admin/products/:id
// @Summary Update a product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param product body ProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prod := &domain.Product{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		IsPublished: req.IsPublished,
	}

	if err := h.service.Update(r.Context(), prod); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, prod)
}

// Delete handles DELETE /api/v1/admin/products/:id
// @Summary Delete a product
// @Description Deletes a product together with its variants and images
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product deleted"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// CreateVariant handles POST /api/v1/admin/products/:id/variants
// @Summary Add a variant to a product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param variant body VariantRequest true "Variant details"
// @Success 201 {object} map[string]interface{} "Variant created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product or facet not found"
// @Failure 409 {object} map[string]string "Duplicate SKU"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/variants [post]
func (h *ProductHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req VariantRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	variant := &domain.ProductVariant{
		ProductID:     productID,
		SizeID:        req.SizeID,
		FirmnessID:    req.FirmnessID,
		MaterialID:    req.MaterialID,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Weight:        req.Weight,
	}

	if err := h.service.CreateVariant(r.Context(), variant); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, variant)
}

// UpdateVariant handles PUT /api/v1/admin/products/:id/variants/:variantID
// @Summary Update a variant
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param variantID path string true "Variant ID (UUID)"
// @Param variant body VariantRequest true "Updated variant details"
// @Success 200 {object} map[string]interface{} "Variant updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Variant not found"
// @Failure 409 {object} map[string]string "Duplicate SKU"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/variants/{variantID} [put]
func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	variantID, err := request.GetUUIDParam(r, "variantID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	var req VariantRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	variant := &domain.ProductVariant{
		ID:            variantID,
		ProductID:     productID,
		SizeID:        req.SizeID,
		FirmnessID:    req.FirmnessID,
		MaterialID:    req.MaterialID,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Weight:        req.Weight,
	}

	if err := h.service.UpdateVariant(r.Context(), variant); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, variant)
}

// DeleteVariant handles DELETE /api/v1/admin/products/:id/variants/:variantID
// @Summary Delete a variant
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param variantID path string true "Variant ID (UUID)"
// @Success 204 "Variant deleted"
// @Failure 400 {object} map[string]string "Invalid variant ID"
// @Failure 404 {object} map[string]string "Variant not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/variants/{variantID} [delete]
func (h *ProductHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := request.GetUUIDParam(r, "variantID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	if err := h.service.DeleteVariant(r.Context(), variantID); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// AddImage handles POST /api/v1/admin/products/:id/images
// @Summary Attach an image to a product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param image body ImageRequest true "Image details"
// @Success 201 {object} map[string]interface{} "Image attached"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/images [post]
func (h *ProductHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ImageRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	image := &domain.ProductImage{
		ProductID:    productID,
		VariantID:    req.VariantID,
		URL:          req.URL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
	}

	if err := h.service.AddImage(r.Context(), image); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, image)
}

// RemoveImage handles DELETE /api/v1/admin/products/:id/images/:imageID
// @Summary Remove an image from a product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param imageID path string true "Image ID (UUID)"
// @Success 204 "Image removed"
// @Failure 400 {object} map[string]string "Invalid image ID"
// @Failure 404 {object} map[string]string "Image not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/images/{imageID} [delete]
func (h *ProductHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	imageID, err := request.GetUUIDParam(r, "imageID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	if err := h.service.RemoveImage(r.Context(), productID, imageID); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service layer errors to HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "SKU already exists")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Conflict - product was modified by another request")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
