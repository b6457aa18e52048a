package service

import (
	"context"
	"fmt"
	"time"

	"ishop/internal/model"
	"ishop/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	discountRepo repository.DiscountRepository
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	discountRepo repository.DiscountRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		discountRepo: discountRepo,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Create checks out a cart. Stock decrements, the discount usage bump and the
// order insert all run in one transaction, so a failed line or exhausted code
// leaves nothing behind.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Decrement stock line by line, capturing the unit price at the moment
	// of the decrement. The row lock taken by the conditional update is what
	// prevents two concurrent checkouts from both taking the last unit.
	total := decimal.Zero
	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		var unitPrice decimal.Decimal
		unitPrice, err = s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", line.ProductID.String()).
				Int("quantity", line.Quantity).
				Msg("failed to reserve stock")
			return nil, err
		}

		items[i] = model.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		}
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if req.DiscountCode != nil && *req.DiscountCode != "" {
		total, err = s.applyDiscount(ctx, tx, *req.DiscountCode, total)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	order := &model.Order{
		ID:           uuid.New(),
		UserID:       userID,
		TotalAmount:  total.Round(2),
		Status:       model.OrderStatusPending,
		TrackingCode: model.NewTrackingCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("tracking_code", order.TrackingCode).
		Str("total_amount", order.TotalAmount.String()).
		Int("item_count", len(items)).
		Msg("order created")

	return order, nil
}

// applyDiscount locks the discount row, verifies it is still usable and bumps
// its usage counter, returning the discounted total.
func (s *orderService) applyDiscount(ctx context.Context, tx pgx.Tx, code string, total decimal.Decimal) (decimal.Decimal, error) {
	discount, err := s.discountRepo.GetForUpdate(ctx, tx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("discount_code", code).Msg("failed to look up discount")
		return decimal.Zero, fmt.Errorf("failed to apply discount: %w", err)
	}

	if discount == nil || !discount.Usable(time.Now()) {
		s.logger.Debug().Str("discount_code", code).Msg("discount rejected")
		return decimal.Zero, model.ErrInvalidDiscount
	}

	if err := s.discountRepo.IncrementUsage(ctx, tx, code); err != nil {
		s.logger.Error().Err(err).Str("discount_code", code).Msg("failed to increment discount usage")
		return decimal.Zero, fmt.Errorf("failed to apply discount: %w", err)
	}

	discounted := total.Mul(oneHundred.Sub(discount.Percentage)).Div(oneHundred)

	s.logger.Debug().
		Str("discount_code", code).
		Str("percentage", discount.Percentage.String()).
		Msg("discount applied")

	return discounted, nil
}

// GetByID retrieves an order with its items. Non-admin requesters only see
// their own orders; foreign orders look like missing ones.
func (s *orderService) GetByID(ctx context.Context, requester *model.User, id uuid.UUID) (*model.Order, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !requester.IsAdmin && order.UserID != requester.ID {
		return nil, model.ErrOrderNotFound
	}

	order.Items = items
	return order, nil
}

// ListForUser retrieves a user's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	offset, limit = clampPage(offset, limit)

	orders, err := s.orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListAll retrieves every order, newest first.
func (s *orderService) ListAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	offset, limit = clampPage(offset, limit)

	orders, err := s.orderRepo.ListAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order along its lifecycle. The current status row is
// locked so two concurrent transitions cannot both succeed. Cancelling
// restores the stock of every line.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var current model.OrderStatus
	current, err = s.orderRepo.GetStatusForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !current.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(current)).
			Str("to", string(status)).
			Msg("illegal status transition")
		err = model.ErrInvalidStatus
		return nil, err
	}

	if status == model.OrderStatusCancelled {
		var items []model.OrderItem
		items, err = s.orderRepo.GetItems(ctx, tx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to load items for restock")
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}

		for _, item := range items {
			if err = s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				s.logger.Error().
					Err(err).
					Str("order_id", id.String()).
					Str("product_id", item.ProductID.String()).
					Msg("failed to restore stock")
				return nil, fmt.Errorf("failed to update order status: %w", err)
			}
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, id, status); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(current)).
		Str("to", string(status)).
		Msg("order status updated")

	order, items, getErr := s.orderRepo.GetByID(ctx, id)
	if getErr != nil {
		return nil, fmt.Errorf("failed to reload order: %w", getErr)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	order.Items = items

	return order, nil
}

// validateOrderRequest validates the checkout payload.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrInvalidQuantity
	}

	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.ErrProductNotFound
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
