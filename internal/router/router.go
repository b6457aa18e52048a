package router

import (
	"net/http"

	"ishop/internal/handler"
	"ishop/internal/middleware"
	"ishop/internal/service"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	adminHandler *handler.AdminHandler,
	authService service.AuthService,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	requireUser := middleware.RequireUser(authService, logger)
	requireAdmin := middleware.RequireAdmin(logger)

	authed := func(h http.HandlerFunc) http.Handler {
		return requireUser(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return requireUser(requireAdmin(h))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public routes
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /products", productHandler.List)
	mux.HandleFunc("GET /products/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /categories", productHandler.ListCategories)
	mux.HandleFunc("GET /reviews", reviewHandler.List)

	// Authenticated routes
	mux.Handle("GET /auth/me", authed(authHandler.Me))
	mux.Handle("POST /orders", authed(orderHandler.Create))
	mux.Handle("GET /orders", authed(orderHandler.List))
	mux.Handle("GET /orders/{id}", authed(orderHandler.GetByID))
	mux.Handle("POST /reviews", authed(reviewHandler.Create))

	// Admin routes
	mux.Handle("POST /admin/products", admin(adminHandler.CreateProduct))
	mux.Handle("PUT /admin/products/{id}", admin(adminHandler.UpdateProduct))
	mux.Handle("DELETE /admin/products/{id}", admin(adminHandler.DeleteProduct))
	mux.Handle("POST /admin/categories", admin(adminHandler.CreateCategory))
	mux.Handle("GET /admin/orders", admin(adminHandler.ListOrders))
	mux.Handle("PATCH /admin/orders/{id}/status", admin(adminHandler.UpdateOrderStatus))
	mux.Handle("POST /admin/discounts", admin(adminHandler.CreateDiscount))
	mux.Handle("POST /admin/discounts/import", admin(adminHandler.ImportDiscounts))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
