package repository

import (
	"context"
	"errors"
	"fmt"

	"ishop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// Create inserts a new discount.
func (r *discountRepository) Create(ctx context.Context, discount *model.Discount) error {
	query := `
		INSERT INTO discounts (code, percentage, max_uses, used_count, expires_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		discount.Code, discount.Percentage.String(), discount.MaxUses,
		discount.UsedCount, discount.ExpiresAt, discount.IsActive, discount.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "discounts_pkey") {
			return model.ErrDiscountTaken
		}
		r.logger.Error().Err(err).Str("code", discount.Code).Msg("failed to create discount")
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

// GetForUpdate retrieves a discount by code, locking the row.
func (r *discountRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Discount, error) {
	query := `
		SELECT code, percentage::text, max_uses, used_count, expires_at, is_active, created_at
		FROM discounts
		WHERE code = $1
		FOR UPDATE
	`

	var (
		d       model.Discount
		pctText string
	)
	err := tx.QueryRow(ctx, query, code).Scan(
		&d.Code, &pctText, &d.MaxUses, &d.UsedCount, &d.ExpiresAt, &d.IsActive, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}
	if d.Percentage, err = decimal.NewFromString(pctText); err != nil {
		return nil, fmt.Errorf("failed to parse percentage %q: %w", pctText, err)
	}

	return &d, nil
}

// IncrementUsage bumps a discount's usage counter.
func (r *discountRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, code string) error {
	tag, err := tx.Exec(ctx, `UPDATE discounts SET used_count = used_count + 1 WHERE code = $1`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment discount usage")
		return fmt.Errorf("failed to increment discount usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInvalidDiscount
	}
	return nil
}

// Upsert inserts codes in bulk. Existing codes keep their current settings,
// re-importing a file is safe.
func (r *discountRepository) Upsert(ctx context.Context, discounts []model.Discount) (int, error) {
	if len(discounts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO discounts (code, percentage, max_uses, used_count, expires_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, d := range discounts {
		batch.Queue(query, d.Code, d.Percentage.String(), d.MaxUses, d.UsedCount, d.ExpiresAt, d.IsActive, d.CreatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < len(discounts); i++ {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().Err(err).Str("code", discounts[i].Code).Msg("failed to upsert discount")
			return inserted, fmt.Errorf("failed to upsert discount: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	r.logger.Info().
		Int("codes", len(discounts)).
		Int("inserted", inserted).
		Msg("discount codes imported")
	return inserted, nil
}
