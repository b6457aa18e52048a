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
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, is_active, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.PasswordHash,
		user.IsActive, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			r.logger.Debug().Str("email", user.Email).Msg("email already registered")
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, display_name, password_hash, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, display_name, password_hash, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		r.logger.Error().Err(err).Str("email", email).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// scanUser reads one user row, mapping pgx.ErrNoRows to nil, nil.
func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash,
		&u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
