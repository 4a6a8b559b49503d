package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/delivery/http/request"
	"github.com/slumberhaus/storefront/internal/delivery/http/response"
	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	"github.com/slumberhaus/storefront/internal/usecase/cart"
)

// CartHandler handles HTTP requests for carts. The owner comes from the
// auth collaborator upstream: a user id header for signed-in customers or
// a guest session token.
type CartHandler struct {
	service *cart.Service
	logger  *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *cart.Service, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  log,
	}
}

// AddItemRequest represents the request body for adding a cart item
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest represents the request body for updating a cart item
type UpdateItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

// cartOwner resolves the cart owner from request headers
func cartOwner(r *http.Request) (domain.CartOwner, bool) {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return domain.CartOwner{UserID: &userID}, true
	}
	if token := r.Header.Get("X-Session-Token"); token != "" {
		return domain.CartOwner{SessionToken: &token}, true
	}
	return domain.CartOwner{}, false
}

// Get handles GET /api/v1/cart
// @Summary Get the current cart
// @Description Returns the owner's cart with display-ready items; an owner without a cart gets an empty one
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-User-ID header string false "User ID for signed-in customers"
// @Param X-Session-Token header string false "Guest session token"
// @Success 200 {object} map[string]interface{} "Cart with items"
// @Failure 401 {object} map[string]string "Missing cart owner"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := cartOwner(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing cart owner")
		return
	}

	fetched, err := h.service.Get(r.Context(), owner)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, fetched)
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add a variant to the cart
// @Description Adds quantity units of a variant; rejected when the cart would exceed the variant's stock
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-User-ID header string false "User ID for signed-in customers"
// @Param X-Session-Token header string false "Guest session token"
// @Param item body AddItemRequest true "Variant and quantity"
// @Success 201 {object} map[string]interface{} "Item added"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Missing cart owner"
// @Failure 404 {object} map[string]string "Variant not found"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := cartOwner(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing cart owner")
		return
	}

	var req AddItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.AddItem(r.Context(), owner, req.VariantID, req.Quantity)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, item)
}

// UpdateItem handles PUT /api/v1/cart/items/:itemID
// @Summary Update a cart item's quantity
// @Description Sets the item quantity; zero removes the item
// @Tags Cart
// @Accept json
// @Produce json
// @Param itemID path string true "Cart item ID (UUID)"
// @Param item body UpdateItemRequest true "Variant and new quantity"
// @Success 204 "Item updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cart/items/{itemID} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := request.GetUUIDParam(r, "itemID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateItem(r.Context(), itemID, req.VariantID, req.Quantity); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveItem handles DELETE /api/v1/cart/items/:itemID
// @Summary Remove a cart item
// @Tags Cart
// @Accept json
// @Produce json
// @Param itemID path string true "Cart item ID (UUID)"
// @Success 204 "Item removed"
// @Failure 400 {object} map[string]string "Invalid item ID"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cart/items/{itemID} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := request.GetUUIDParam(r, "itemID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.service.RemoveItem(r.Context(), itemID); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service layer errors to HTTP responses
func (h *CartHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrInsufficientStock):
		response.Error(w, http.StatusUnprocessableEntity, "Insufficient stock")
	default:
		h.logger.Error("Internal error in cart handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
