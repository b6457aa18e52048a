package repository

import (
	"context"
	"errors"
	"fmt"

	"ishop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxTrackingAttempts bounds the tracking-code collision retry loop.
const maxTrackingAttempts = 5

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction. Each
// insert attempt runs under a savepoint (nested pgx transaction) so a
// tracking-code collision can be rolled back and retried with a fresh code
// without aborting the enclosing transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_amount, status, tracking_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}

		_, err = sp.Exec(ctx, query,
			order.ID, order.UserID, order.TotalAmount.String(), order.Status,
			order.TrackingCode, order.CreatedAt, order.UpdatedAt)
		if err == nil {
			if err := sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
			r.logger.Debug().
				Str("order_id", order.ID.String()).
				Str("tracking_code", order.TrackingCode).
				Msg("order created")
			return nil
		}

		_ = sp.Rollback(ctx)

		if isUniqueViolation(err, "orders_tracking_code_key") {
			r.logger.Warn().
				Str("tracking_code", order.TrackingCode).
				Int("attempt", attempt+1).
				Msg("tracking code collision, regenerating")
			order.TrackingCode = model.NewTrackingCode()
			continue
		}

		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return fmt.Errorf("failed to allocate a unique tracking code after %d attempts", maxTrackingAttempts)
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice.String())
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")
	return nil
}

// orderColumns is the select list shared by every order query.
const orderColumns = `id, user_id, total_amount::text, status, tracking_code, created_at, updated_at`

// GetByID retrieves an order by its id along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.queryItems(ctx, r.pool, id)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	return r.queryOrders(ctx, query, userID, limit, offset)
}

// ListAll retrieves all orders, newest first.
func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	return r.queryOrders(ctx, query, limit, offset)
}

// GetStatusForUpdate reads an order's status, locking the row for the rest
// of the transaction.
func (r *orderRepository) GetStatusForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return "", fmt.Errorf("failed to lock order: %w", err)
	}
	return status, nil
}

// GetItems retrieves the items of an order within the transaction.
func (r *orderRepository) GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	return r.queryItems(ctx, tx, orderID)
}

// UpdateStatus sets an order's status within the transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")
	return nil
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) queryItems(ctx context.Context, q querier, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price::text
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			item      model.OrderItem
			priceText string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &priceText); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(priceText); err != nil {
			return nil, fmt.Errorf("failed to parse unit price %q: %w", priceText, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// scanOrder reads one order row.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o         model.Order
		totalText string
	)
	err := row.Scan(&o.ID, &o.UserID, &totalText, &o.Status, &o.TrackingCode, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.TotalAmount, err = decimal.NewFromString(totalText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total %q: %w", totalText, err)
	}
	return &o, nil
}
