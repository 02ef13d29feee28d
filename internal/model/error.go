package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// ErrorKind classifies a domain error for the transport layer.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindBadRequest
	KindForbidden
	KindConflict
	KindUnauthorized
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeCartNotFound       = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeVariantNotFound    = "VARIANT_NOT_FOUND"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeExceedsStock       = "QUANTITY_EXCEEDS_STOCK"
	ErrCodeZeroQuantityChange = "ZERO_QUANTITY_CHANGE"
	ErrCodeNegativeStock      = "NEGATIVE_STOCK"
	ErrCodeInvalidChangeType  = "INVALID_CHANGE_TYPE"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeQuantityTooLarge   = "QUANTITY_TOO_LARGE"
	ErrCodeStockOverflow      = "STOCK_OVERFLOW"
	ErrCodeInvalidAddress     = "INVALID_SHIPPING_ADDRESS"
	ErrCodeInvalidStatus      = "INVALID_ORDER_STATUS"
	ErrCodeIllegalTransition  = "ILLEGAL_STATUS_TRANSITION"
	ErrCodeCartItemForbidden  = "CART_ITEM_FORBIDDEN"
	ErrCodeOrderForbidden     = "ORDER_FORBIDDEN"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
)

// DomainError is a business rule failure surfaced to the caller as a typed error.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that errors
// carrying a call-specific message still match the package sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

func NotFound(code, format string, args ...any) *DomainError {
	return NewDomainError(KindNotFound, code, fmt.Sprintf(format, args...))
}

func BadRequest(code, format string, args ...any) *DomainError {
	return NewDomainError(KindBadRequest, code, fmt.Sprintf(format, args...))
}

func Forbidden(code, format string, args ...any) *DomainError {
	return NewDomainError(KindForbidden, code, fmt.Sprintf(format, args...))
}

func Conflict(code, format string, args ...any) *DomainError {
	return NewDomainError(KindConflict, code, fmt.Sprintf(format, args...))
}

func Unauthorized(code, format string, args ...any) *DomainError {
	return NewDomainError(KindUnauthorized, code, fmt.Sprintf(format, args...))
}

// AsDomainError unwraps err into a DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrCartNotFound       = NotFound(ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound   = NotFound(ErrCodeCartItemNotFound, "Cart item not found")
	ErrVariantNotFound    = NotFound(ErrCodeVariantNotFound, "Product variant not found")
	ErrProductNotFound    = NotFound(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound      = NotFound(ErrCodeOrderNotFound, "Order not found")
	ErrCartEmpty          = BadRequest(ErrCodeCartEmpty, "Cart is empty")
	ErrInsufficientStock  = BadRequest(ErrCodeInsufficientStock, "Insufficient stock")
	ErrQuantityExceeds    = BadRequest(ErrCodeExceedsStock, "Quantity cannot be greater than stock")
	ErrZeroQuantityChange = BadRequest(ErrCodeZeroQuantityChange, "Quantity change cannot be 0")
	ErrNegativeStock      = BadRequest(ErrCodeNegativeStock, "New stock quantity cannot be less than 0")
	ErrInvalidChangeType  = BadRequest(ErrCodeInvalidChangeType, "Invalid change type")
	ErrInvalidQuantity    = BadRequest(ErrCodeInvalidQuantity, "Quantity must be at least 1")
	ErrQuantityTooLarge   = BadRequest(ErrCodeQuantityTooLarge, "Quantity cannot exceed %d", MaxQuantity)
	ErrStockOverflow      = BadRequest(ErrCodeStockOverflow, "New stock quantity cannot exceed %d", MaxQuantity)
	ErrInvalidStatus      = BadRequest(ErrCodeInvalidStatus, "Invalid order status")
	ErrIllegalTransition  = Conflict(ErrCodeIllegalTransition, "Illegal order status transition")
	ErrCartItemForbidden  = Forbidden(ErrCodeCartItemForbidden, "Access to this cart item is forbidden")
	ErrOrderForbidden     = Forbidden(ErrCodeOrderForbidden, "User is not authorized to perform this action")
	ErrEmailTaken         = Conflict(ErrCodeEmailTaken, "Email is already registered")
	ErrInvalidEmail       = BadRequest(ErrCodeInvalidEmail, "A valid email is required")
	ErrAddressRequired    = BadRequest(ErrCodeInvalidAddress, "Shipping address is required")
	ErrIdentityRequired   = Unauthorized(ErrCodeUnauthorised, "Caller identity is required")
)
