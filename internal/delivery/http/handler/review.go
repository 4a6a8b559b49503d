package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/slumberhaus/storefront/internal/delivery/http/request"
	"github.com/slumberhaus/storefront/internal/delivery/http/response"
	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	"github.com/slumberhaus/storefront/internal/usecase/review"
)

// ReviewHandler handles HTTP requests for product reviews. The reviewer
// identity comes from the auth collaborator upstream as an opaque user id.
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for creating a review
type CreateReviewRequest struct {
	ReviewerName string  `json:"reviewer_name" validate:"required,min=1,max=100"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment,omitempty"`
}

// Create handles POST /api/v1/products/:id/reviews
// @Summary Create a review for a product
// @Description Adds a rating and optional comment; the reviewer is identified by the X-User-ID header
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param X-User-ID header string true "Reviewer user ID (UUID)"
// @Param review body CreateReviewRequest true "Rating and comment"
// @Success 201 {object} map[string]interface{} "Review created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Missing reviewer"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	userHeader := r.Header.Get("X-User-ID")
	if userHeader == "" {
		response.Error(w, http.StatusUnauthorized, "Missing reviewer")
		return
	}

	userID, err := uuid.Parse(userHeader)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req CreateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rev := &domain.Review{
		ProductID:    productID,
		UserID:       userID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	if err := h.service.Create(r.Context(), rev); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, rev)
}

// ListByProduct handles GET /api/v1/products/:id/reviews
// @Summary List reviews for a product
// @Description Paginated reviews, newest first. Results are cached.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param limit query int false "Number of reviews per page (max 100)" default(20)
// @Param offset query int false "Number of reviews to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of reviews"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	limit := request.GetIntQuery(r, "limit", 20)
	offset := request.GetIntQuery(r, "offset", 0)

	reviews, total, err := h.service.ListByProduct(r.Context(), productID, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, reviews, total, limit, offset)
}

// handleError maps service layer errors to HTTP responses
func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
