package handler

import (
	"encoding/json"
	"net/http"

	"ishop/internal/middleware"
	"ishop/internal/model"
	"ishop/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReviewHandler handles product review requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /reviews requests.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user := middleware.GetUser(r)

	review, err := h.service.Create(r.Context(), user.ID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// List handles GET /reviews requests. The optional product_id query
// parameter narrows the listing to one product.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var productID *uuid.UUID
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid product_id")
			return
		}
		productID = &id
	}

	reviews, err := h.service.List(r.Context(), productID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
