package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ishop/internal/auth"
	"ishop/internal/database"
	"ishop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// returns a connection pool. The container is terminated on test cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a user with the given password and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, password string, isAdmin bool) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  "Seeded User",
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO users (id, email, display_name, password_hash, is_active, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.IsActive, user.IsAdmin,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}

	return user
}

// SeedProduct inserts an active product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, price decimal.Decimal, stock int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price, stock) VALUES ($1, $2, $3, $4)`,
		id, name, price, stock,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}

	return id
}

// SeedDiscount inserts a discount code.
func SeedDiscount(t *testing.T, pool *pgxpool.Pool, d model.Discount) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO discounts (code, percentage, max_uses, used_count, expires_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.Code, d.Percentage, d.MaxUses, d.UsedCount, d.ExpiresAt, d.IsActive,
	)
	if err != nil {
		t.Fatalf("failed to seed discount %s: %v", d.Code, err)
	}
}

// ProductStock reads a product's current stock.
func ProductStock(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", id).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock for %s: %v", id, err)
	}

	return stock
}

// CleanupDB removes all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "reviews", "discounts", "products", "categories", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
