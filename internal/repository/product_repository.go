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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// productColumns is the select list shared by every product query.
// NUMERIC is read as text and parsed into decimal.Decimal.
const productColumns = `p.id, p.name, p.description, p.price::text, p.stock, p.category_id, p.image_url, p.is_active, p.created_at, p.updated_at`

// List retrieves active products matching the filter. Ordering is newest
// first; offset pagination has no stable cursor, so pages taken under
// concurrent catalogue writes may shift.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_active
		  AND ($1 = '' OR c.name = $1)
		  AND ($2 = '' OR p.name ILIKE '%'||$2||'%' OR p.description ILIKE '%'||$2||'%')
		ORDER BY p.created_at DESC, p.id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, filter.Category, filter.Search, filter.Limit, filter.Skip)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("skip", filter.Skip).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its id.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, category_id, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price.String(),
		product.Stock, product.CategoryID, product.ImageURL, product.IsActive,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update persists all mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	query := `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price = $4,
		    stock = $5,
		    category_id = $6,
		    image_url = $7,
		    is_active = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price.String(),
		product.Stock, product.CategoryID, product.ImageURL, product.IsActive)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Deactivate soft-deletes a product. The row stays for order history and
// price-snapshot audits.
func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE products
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to deactivate product")
		return false, fmt.Errorf("failed to deactivate product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DecrementStock atomically decrements stock and returns the price snapshot.
// The single conditional UPDATE takes the row lock, checks availability and
// captures the price in one step; losers of the race see the decremented
// stock and fail the stock check rather than oversell.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) (decimal.Decimal, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock >= $2
		RETURNING price::text
	`

	var priceText string
	err := tx.QueryRow(ctx, query, productID, quantity).Scan(&priceText)
	if err == nil {
		price, perr := decimal.NewFromString(priceText)
		if perr != nil {
			return decimal.Zero, fmt.Errorf("failed to parse price %q: %w", priceText, perr)
		}
		return price, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to decrement stock")
		return decimal.Zero, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// Distinguish a missing/inactive product from a stock shortfall.
	var stock int
	err = tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 AND is_active`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, model.ErrProductNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to check stock")
		return decimal.Zero, fmt.Errorf("failed to check stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", productID.String()).
		Int("requested", quantity).
		Int("available", stock).
		Msg("insufficient stock")
	return decimal.Zero, model.ErrInsufficientStock
}

// RestoreStock adds quantity back to a product's stock.
func (r *productRepository) RestoreStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, productID, quantity); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to restore stock")
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

// scanProduct reads one product row.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p         model.Product
		priceText string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &priceText, &p.Stock,
		&p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Price, err = decimal.NewFromString(priceText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", priceText, err)
	}
	return &p, nil
}
