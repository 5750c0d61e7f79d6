package model

import (
	"errors"
	"net/http"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeOrderCannotCancel = "ORDER_CANNOT_CANCEL"
	ErrCodeInvalidStatus     = "ORDER_INVALID_STATUS"
	ErrCodeInvalidTransition = "ORDER_INVALID_TRANSITION"
	ErrCodeUpstreamFailure   = "ORDER_UPSTREAM_FAILURE"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCannotCancel = errors.New("order cannot be cancelled")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HTTPStatus map error code sang HTTP status
func HTTPStatus(code string) int {
	switch code {
	case ErrCodeOrderNotFound:
		return http.StatusNotFound
	case ErrCodeOrderCannotCancel, ErrCodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case ErrCodeUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
