package model

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeCouponNotFound       ErrorCode = "COUPON_NOT_FOUND"       // 404
	ErrCodeCouponExpired        ErrorCode = "COUPON_EXPIRED"         // 400
	ErrCodeCouponUsageExceeded  ErrorCode = "COUPON_USAGE_EXCEEDED"  // 400
	ErrCodeCouponBelowMinimum   ErrorCode = "COUPON_BELOW_MINIMUM"   // 400
	ErrCodeCouponCatalogFailure ErrorCode = "COUPON_CATALOG_FAILURE" // 502
)

// CouponError - lỗi validate coupon phía client (advisory, server re-validate)
type CouponError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *CouponError) Error() string {
	return e.Message
}

// Is so sánh theo Code để errors.Is hoạt động với bản copy có Details
func (e *CouponError) Is(target error) bool {
	var t *CouponError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetails trả về bản copy kèm details, không sửa biến package
func (e *CouponError) WithDetails(details map[string]interface{}) *CouponError {
	cp := *e
	cp.Details = details
	return &cp
}

// Predefined errors
var (
	ErrCouponNotFound = &CouponError{
		Code:       ErrCodeCouponNotFound,
		Message:    "Mã giảm giá không tồn tại",
		HTTPStatus: http.StatusNotFound,
	}

	ErrCouponExpired = &CouponError{
		Code:       ErrCodeCouponExpired,
		Message:    "Mã giảm giá đã hết hạn",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponUsageExceeded = &CouponError{
		Code:       ErrCodeCouponUsageExceeded,
		Message:    "Bạn đã sử dụng hết lượt của mã giảm giá này",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponBelowMinimum = &CouponError{
		Code:       ErrCodeCouponBelowMinimum,
		Message:    "Đơn hàng chưa đạt giá trị tối thiểu để áp dụng mã",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrCouponCatalogUnavailable = &CouponError{
		Code:       ErrCodeCouponCatalogFailure,
		Message:    "Không tải được danh sách mã giảm giá",
		HTTPStatus: http.StatusBadGateway,
	}
)
