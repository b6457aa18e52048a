package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ishop/internal/discount"
	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// discountService implements DiscountService.
type discountService struct {
	discountRepo repository.DiscountRepository
	importer     discount.Importer
	logger       zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(
	discountRepo repository.DiscountRepository,
	importer discount.Importer,
	logger zerolog.Logger,
) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		importer:     importer,
		logger:       logger.With().Str("service", "discount").Logger(),
	}
}

// Create adds a single discount code.
func (s *discountService) Create(ctx context.Context, req *model.CreateDiscountRequest) (*model.Discount, error) {
	if err := validateDiscountParams(req); err != nil {
		return nil, err
	}

	d := &model.Discount{
		Code:       strings.TrimSpace(req.Code),
		Percentage: req.Percentage,
		MaxUses:    req.MaxUses,
		ExpiresAt:  req.ExpiresAt,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}

	if err := s.discountRepo.Create(ctx, d); err != nil {
		s.logger.Warn().Err(err).Str("discount_code", d.Code).Msg("failed to create discount")
		return nil, err
	}

	s.logger.Info().
		Str("discount_code", d.Code).
		Str("percentage", d.Percentage.String()).
		Msg("discount created")

	return d, nil
}

// Import bulk-loads codes from gzipped files.
func (s *discountService) Import(ctx context.Context, req *model.ImportDiscountsRequest) (*model.ImportDiscountsResponse, error) {
	if req == nil || len(req.Files) == 0 {
		return nil, model.ErrInvalidDiscount
	}
	if !validPercentage(req.Percentage) || req.MaxUses < 0 {
		return nil, model.ErrInvalidDiscount
	}

	imported, err := s.importer.Import(ctx, req.Files, req.Percentage, req.MaxUses)
	if err != nil {
		s.logger.Error().Err(err).Int("file_count", len(req.Files)).Msg("discount import failed")
		return nil, fmt.Errorf("failed to import discounts: %w", err)
	}

	return &model.ImportDiscountsResponse{Imported: imported}, nil
}

// validateDiscountParams checks the create payload.
func validateDiscountParams(req *model.CreateDiscountRequest) error {
	if req == nil || strings.TrimSpace(req.Code) == "" {
		return model.ErrInvalidDiscount
	}
	if !validPercentage(req.Percentage) {
		return model.ErrInvalidDiscount
	}
	if req.MaxUses < 0 {
		return model.ErrInvalidDiscount
	}
	return nil
}

// validPercentage reports whether p is in (0, 100].
func validPercentage(p decimal.Decimal) bool {
	return p.IsPositive() && p.LessThanOrEqual(decimal.NewFromInt(100))
}
