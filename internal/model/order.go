package model

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
// Forward transitions follow pending -> processing -> shipped -> delivered;
// any non-terminal status may move to cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// Order represents a checked-out cart.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status       OrderStatus     `json:"status" db:"status"`
	TrackingCode string          `json:"tracking_code" db:"tracking_code"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	Items        []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a single line of an order. UnitPrice is the price snapshot
// captured at checkout; later catalogue price changes never touch it.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"price" db:"unit_price"`
}

// OrderRequest represents the request payload for checking out a cart.
type OrderRequest struct {
	Items        []OrderItemRequest `json:"items"`
	DiscountCode *string            `json:"discount_code,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UpdateOrderStatusRequest represents the admin payload for a status change.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

const trackingCodePrefix = "ISH"

// NewTrackingCode returns a customer-facing order code of the form
// ISH followed by eight random digits. Uniqueness is enforced by the
// database, callers retry on collision.
func NewTrackingCode() string {
	code := make([]byte, 0, len(trackingCodePrefix)+8)
	code = append(code, trackingCodePrefix...)
	buf := make([]byte, 16)
	for len(code) < cap(code) {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			// 250..255 would bias digits 0-5, reject them.
			if b >= 250 {
				continue
			}
			code = append(code, '0'+b%10)
			if len(code) == cap(code) {
				break
			}
		}
	}
	return string(code)
}
