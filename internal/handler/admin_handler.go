package handler

import (
	"encoding/json"
	"net/http"

	"ishop/internal/model"
	"ishop/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles administrative catalogue, order and discount requests.
type AdminHandler struct {
	products  service.ProductService
	orders    service.OrderService
	discounts service.DiscountService
	logger    zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	products service.ProductService,
	orders service.OrderService,
	discounts service.DiscountService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products:  products,
		orders:    orders,
		discounts: discounts,
		logger:    logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateProduct handles POST /admin/products requests.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := h.products.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/{id} requests.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	var req model.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := h.products.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/{id} requests.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /admin/categories requests.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.products.CreateCategory(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// ListOrders handles GET /admin/orders requests.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orders, err := h.orders.ListAll(r.Context(), queryInt(q.Get("limit"), 0), queryInt(q.Get("skip"), 0))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /admin/orders/{id}/status requests.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// CreateDiscount handles POST /admin/discounts requests.
func (h *AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	d, err := h.discounts.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// ImportDiscounts handles POST /admin/discounts/import requests.
func (h *AdminHandler) ImportDiscounts(w http.ResponseWriter, r *http.Request) {
	var req model.ImportDiscountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.discounts.Import(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
