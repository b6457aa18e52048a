package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves active products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Skip, filter.Limit = clampPage(filter.Skip, filter.Limit)

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single active product. Deactivated products are
// indistinguishable from missing ones.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a new product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product name is required", http.StatusBadRequest)
	}

	if req.Price.IsNegative() {
		return nil, model.ErrInvalidPrice
	}

	if req.Stock < 0 {
		return nil, model.ErrInvalidQuantity
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update applies a partial update to a product. Nil fields are left unchanged.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Request body is required", http.StatusBadRequest)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, model.NewDomainError(model.ErrCodeMissingField, "Product name must not be empty", http.StatusBadRequest)
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, model.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, model.ErrInvalidQuantity
		}
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	product.UpdatedAt = time.Now()

	found, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")

	return product, nil
}

// Delete deactivates a product. Existing order lines keep their snapshots.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.productRepo.Deactivate(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to deactivate product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deactivated")

	return nil
}

// ListCategories retrieves all categories.
func (s *productService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// CreateCategory adds a new category.
func (s *productService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Category name is required", http.StatusBadRequest)
	}

	category := &model.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Warn().Err(err).Str("name", category.Name).Msg("failed to create category")
		return nil, err
	}

	s.logger.Info().
		Str("category_id", category.ID.String()).
		Str("name", category.Name).
		Msg("category created")

	return category, nil
}

// checkCategory verifies that a referenced category exists.
func (s *productService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if category == nil {
		return model.ErrCategoryNotFound
	}

	return nil
}

// clampPage normalises pagination parameters.
func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
