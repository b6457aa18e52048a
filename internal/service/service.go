package service

import (
	"context"

	"ishop/internal/model"

	"github.com/google/uuid"
)

// AuthService defines operations for account registration and authentication.
type AuthService interface {
	// Register creates a new customer account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)

	// Resolve maps a raw bearer token back to its user.
	Resolve(ctx context.Context, rawToken string) (*model.User, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves active products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single active product.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create adds a new product to the catalogue.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// Update applies a partial update to a product.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)

	// Delete deactivates a product. Existing order lines keep referencing it.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory adds a new category.
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
}

// OrderService defines operations for checkout and order management.
type OrderService interface {
	// Create checks out a cart for the given user, decrementing stock and
	// applying an optional discount code atomically.
	Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order with its items. Non-admin requesters only
	// see their own orders.
	GetByID(ctx context.Context, requester *model.User, id uuid.UUID) (*model.Order, error)

	// ListForUser retrieves a user's orders, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order along its lifecycle. Cancelling restores
	// the stock of every line.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// ReviewService defines operations for product reviews.
type ReviewService interface {
	// Create submits a review for an active product.
	Create(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) (*model.Review, error)

	// List retrieves reviews, optionally filtered by product.
	List(ctx context.Context, productID *uuid.UUID) ([]model.Review, error)
}

// DiscountService defines operations for discount code management.
type DiscountService interface {
	// Create adds a single discount code.
	Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error)

	// Import bulk-loads codes from gzipped files.
	Import(ctx context.Context, req *model.ImportDiscountsRequest) (*model.ImportDiscountsResponse, error)
}
