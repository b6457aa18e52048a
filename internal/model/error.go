package model

import "net/http"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeInvalidCredential = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken      = "INVALID_TOKEN"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound    = "REVIEW_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidRating     = "INVALID_RATING"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidDiscount   = "INVALID_DISCOUNT"
	ErrCodeCategoryTaken     = "CATEGORY_TAKEN"
	ErrCodeDiscountTaken     = "DISCOUNT_TAKEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation that maps to a fixed HTTP status
// at the handler boundary.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common domain errors
var (
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "A user with this email already exists", http.StatusConflict)
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredential, "Incorrect email or password", http.StatusUnauthorized)
	ErrInvalidToken       = NewDomainError(ErrCodeInvalidToken, "Missing, malformed or expired token", http.StatusUnauthorized)
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Administrator capability required", http.StatusForbidden)
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found", http.StatusNotFound)
	ErrCategoryNotFound   = NewDomainError(ErrCodeCategoryNotFound, "Category not found", http.StatusNotFound)
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found", http.StatusNotFound)
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero", http.StatusBadRequest)
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5", http.StatusBadRequest)
	ErrInvalidPrice       = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative", http.StatusBadRequest)
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock", http.StatusBadRequest)
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Invalid order status transition", http.StatusBadRequest)
	ErrInvalidDiscount    = NewDomainError(ErrCodeInvalidDiscount, "Discount code is invalid, expired or exhausted", http.StatusBadRequest)
	ErrCategoryTaken      = NewDomainError(ErrCodeCategoryTaken, "A category with this name already exists", http.StatusConflict)
	ErrDiscountTaken      = NewDomainError(ErrCodeDiscountTaken, "A discount with this code already exists", http.StatusConflict)
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
