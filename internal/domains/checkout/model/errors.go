package model

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeSessionNotFound       ErrorCode = "CHECKOUT_SESSION_NOT_FOUND"
	ErrCodeEmptyCart             ErrorCode = "CHECKOUT_EMPTY_CART"
	ErrCodeInvalidShippingMethod ErrorCode = "CHECKOUT_INVALID_SHIPPING_METHOD"
	ErrCodeInvalidPaymentMethod  ErrorCode = "CHECKOUT_INVALID_PAYMENT_METHOD"
	ErrCodeOrderCreateFailed     ErrorCode = "ORDER_CREATE_FAILED"
	ErrCodeSubmissionInProgress  ErrorCode = "SUBMISSION_IN_PROGRESS"
	ErrCodePaymentURLFailed      ErrorCode = "PAYMENT_URL_FAILED"
	ErrCodeUpstreamUnavailable   ErrorCode = "UPSTREAM_UNAVAILABLE"
)

// CheckoutError - lỗi của luồng checkout, mang sẵn HTTP status
type CheckoutError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Err        error                  `json:"-"`
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// Is so sánh theo Code
func (e *CheckoutError) Is(target error) bool {
	var t *CheckoutError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Wrap trả về bản copy kèm nguyên nhân và details
func (e *CheckoutError) Wrap(err error, details map[string]interface{}) *CheckoutError {
	cp := *e
	cp.Err = err
	cp.Details = details
	return &cp
}

// Predefined errors
var (
	ErrSessionNotFound = &CheckoutError{
		Code:       ErrCodeSessionNotFound,
		Message:    "Phiên checkout đã hết hạn, vui lòng bắt đầu lại",
		HTTPStatus: http.StatusNotFound,
	}

	ErrEmptyCart = &CheckoutError{
		Code:       ErrCodeEmptyCart,
		Message:    "Giỏ hàng trống",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidShippingMethod = &CheckoutError{
		Code:       ErrCodeInvalidShippingMethod,
		Message:    "Phương thức vận chuyển không hợp lệ",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidPaymentMethod = &CheckoutError{
		Code:       ErrCodeInvalidPaymentMethod,
		Message:    "Phương thức thanh toán không hợp lệ",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrOrderCreateFailed = &CheckoutError{
		Code:       ErrCodeOrderCreateFailed,
		Message:    "Đặt hàng thất bại, vui lòng thử lại",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrSubmissionInProgress = &CheckoutError{
		Code:       ErrCodeSubmissionInProgress,
		Message:    "Đơn hàng đang được xử lý",
		HTTPStatus: http.StatusConflict,
	}

	ErrPaymentURLFailed = &CheckoutError{
		Code:       ErrCodePaymentURLFailed,
		Message:    "Đã tạo đơn hàng nhưng không lấy được link thanh toán",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrUpstreamUnavailable = &CheckoutError{
		Code:       ErrCodeUpstreamUnavailable,
		Message:    "Không thể kết nối tới hệ thống, vui lòng thử lại",
		HTTPStatus: http.StatusBadGateway,
	}
)
