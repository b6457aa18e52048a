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

// OrderHandler handles customer-facing order requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user := middleware.GetUser(r)

	order, err := h.service.Create(r.Context(), user.ID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /orders requests. Customers see their own orders,
// admins see everyone's.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user := middleware.GetUser(r)
	limit, skip := queryInt(q.Get("limit"), 0), queryInt(q.Get("skip"), 0)

	var orders []model.Order
	var err error
	if user.IsAdmin {
		orders, err = h.service.ListAll(r.Context(), limit, skip)
	} else {
		orders, err = h.service.ListForUser(r.Context(), user.ID, limit, skip)
	}
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), middleware.GetUser(r), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
