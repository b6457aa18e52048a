package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals serialise as JSON numbers, matching the wire contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalogue entry. Prices are NUMERIC in Postgres and
// decimal.Decimal in Go to keep money arithmetic exact.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	ImageURL    string          `json:"image_url,omitempty" db:"image_url"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Category is a simple reference table for products.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Skip     int
	Limit    int
	Category string // category name, exact match
	Search   string // case-insensitive substring over name/description
}

// CreateProductRequest represents the admin payload for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

// UpdateProductRequest represents the admin payload for a partial product
// update. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	ImageURL    *string          `json:"image_url"`
}

// CreateCategoryRequest represents the admin payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
