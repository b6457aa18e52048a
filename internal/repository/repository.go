package repository

import (
	"context"

	"ishop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by id. Returns nil, nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns nil, nil when not found.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// Create inserts a new category. Returns model.ErrCategoryTaken when the
	// name is already used.
	Create(ctx context.Context, category *model.Category) error

	// GetAll retrieves all categories ordered by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a category by id. Returns nil, nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves active products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by id, inactive ones included.
	// Returns nil, nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update persists all mutable fields of an existing product.
	// Returns false when the product does not exist.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Deactivate soft-deletes a product by clearing its active flag.
	// Returns false when the product does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)

	// DecrementStock atomically decrements the stock of an active product
	// within the given transaction and returns the unit price at the moment
	// of the decrement. The conditional update serialises concurrent
	// checkouts per product row, so two orders can never both consume the
	// last unit. Returns model.ErrProductNotFound or
	// model.ErrInsufficientStock.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) (decimal.Decimal, error)

	// RestoreStock adds quantity back to a product's stock within the given
	// transaction. Used when an order is cancelled.
	RestoreStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	// The order's tracking code is regenerated and the insert retried when
	// it collides with an existing one.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its id along with its items.
	// Returns nil, nil, nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// ListAll retrieves all orders, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, error)

	// GetStatusForUpdate reads an order's status within the transaction,
	// locking the row. Returns model.ErrOrderNotFound when missing.
	GetStatusForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.OrderStatus, error)

	// GetItems retrieves the items of an order within the transaction.
	GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// UpdateStatus sets an order's status within the transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error
}

// ReviewRepository defines the interface for review data access operations.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, review *model.Review) error

	// List retrieves reviews, newest first, optionally filtered by product.
	List(ctx context.Context, productID *uuid.UUID) ([]model.Review, error)
}

// DiscountRepository defines the interface for discount data access operations.
type DiscountRepository interface {
	// Create inserts a new discount. Returns model.ErrDiscountTaken when the
	// code already exists.
	Create(ctx context.Context, discount *model.Discount) error

	// GetForUpdate retrieves a discount by code within the transaction,
	// locking the row so the usage counter cannot be raced past its cap.
	// Returns nil, nil when not found.
	GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Discount, error)

	// IncrementUsage bumps a discount's usage counter within the transaction.
	IncrementUsage(ctx context.Context, tx pgx.Tx, code string) error

	// Upsert inserts codes in bulk, leaving existing codes untouched.
	// Returns the number of newly inserted rows.
	Upsert(ctx context.Context, discounts []model.Discount) (int, error)
}
