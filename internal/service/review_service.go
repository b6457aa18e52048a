package service

import (
	"context"
	"fmt"
	"time"

	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "review").Logger(),
	}
}

// Create submits a review. The product must exist and be active.
func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if req == nil || req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to check product")
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}

	review := &model.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to create review")
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", req.ProductID.String()).
		Int("rating", req.Rating).
		Msg("review created")

	return review, nil
}

// List retrieves reviews, optionally filtered by product.
func (s *reviewService) List(ctx context.Context, productID *uuid.UUID) ([]model.Review, error) {
	reviews, err := s.reviewRepo.List(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}
