package discount

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Importer loads discount code files and stores the codes as discounts.
type Importer interface {
	// Import loads the given code files, deduplicates the codes and creates
	// a discount for each new code. It returns the number of discounts
	// actually inserted.
	Import(ctx context.Context, files []string, percentage decimal.Decimal, maxUses int) (int, error)
}

type importer struct {
	loader Loader
	repo   repository.DiscountRepository
	logger zerolog.Logger
}

// NewImporter creates a new discount importer.
func NewImporter(loader Loader, repo repository.DiscountRepository, logger zerolog.Logger) Importer {
	return &importer{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "discount-importer").Logger(),
	}
}

// Import loads all code files concurrently, deduplicates the codes across
// files and upserts them as discounts with the given percentage and usage cap.
func (i *importer) Import(ctx context.Context, files []string, percentage decimal.Decimal, maxUses int) (int, error) {
	if len(files) == 0 {
		return 0, model.ErrInvalidDiscount
	}

	i.logger.Info().
		Int("file_count", len(files)).
		Str("percentage", percentage.String()).
		Int("max_uses", maxUses).
		Msg("importing discount code files")

	type loadResult struct {
		index int
		codes []string
		err   error
	}

	resultChan := make(chan loadResult, len(files))
	var wg sync.WaitGroup

	for idx, filePath := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			codes, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{
				index: index,
				codes: codes,
				err:   err,
			}
		}(idx, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(files))
	for result := range resultChan {
		results[result.index] = result
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{})
	discounts := make([]model.Discount, 0)

	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", files[idx]).
				Msg("failed to load discount code file")
			return 0, fmt.Errorf("failed to load discount code file %s: %w", files[idx], result.err)
		}

		for _, code := range result.codes {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}

			discounts = append(discounts, model.Discount{
				Code:       code,
				Percentage: percentage,
				MaxUses:    maxUses,
				IsActive:   true,
				CreatedAt:  now,
			})
		}

		i.logger.Info().
			Str("file", files[idx]).
			Int("codes", len(result.codes)).
			Msg("discount code file loaded")
	}

	inserted, err := i.repo.Upsert(ctx, discounts)
	if err != nil {
		return 0, fmt.Errorf("failed to store imported discounts: %w", err)
	}

	i.logger.Info().
		Int("unique_codes", len(discounts)).
		Int("inserted", inserted).
		Msg("discount import completed")

	return inserted, nil
}
