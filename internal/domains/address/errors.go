package address

import (
	"errors"
	"fmt"
	"net/http"
)

// AddressError định nghĩa base error cho address domain
type AddressError struct {
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *AddressError) Unwrap() error {
	return e.Err
}

// ============================================
// ADDRESS-SPECIFIC ERROR DEFINITIONS
// ============================================

const (
	CodeAddressRequired = "ADDRESS_REQUIRED"
	CodeAddressNotFound = "ADDRESS_NOT_FOUND"
	CodeInvalidAddress  = "INVALID_ADDRESS"
)

// ErrAddressRequired - chưa chọn địa chỉ giao hàng, chặn submit
var ErrAddressRequired = &AddressError{
	Code:    CodeAddressRequired,
	Message: "Vui lòng chọn hoặc nhập địa chỉ giao hàng",
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

// NewAddressNotFound tạo error "address not found" kèm id
func NewAddressNotFound(addressID string) *AddressError {
	return &AddressError{
		Code:    CodeAddressNotFound,
		Message: fmt.Sprintf("Địa chỉ %s không tồn tại", addressID),
	}
}

// NewInvalidAddress bọc lỗi validate (ozzo) của địa chỉ mới
func NewInvalidAddress(err error) *AddressError {
	return &AddressError{
		Code:    CodeInvalidAddress,
		Message: "Địa chỉ không hợp lệ",
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func hasCode(err error, code string) bool {
	var addrErr *AddressError
	return errors.As(err, &addrErr) && addrErr.Code == code
}

// IsAddressRequired kiểm tra có phải "address required" error
func IsAddressRequired(err error) bool {
	return hasCode(err, CodeAddressRequired)
}

// IsAddressNotFound kiểm tra có phải "not found" error
func IsAddressNotFound(err error) bool {
	return hasCode(err, CodeAddressNotFound)
}

// IsDomainError kiểm tra có phải AddressError
func IsDomainError(err error) bool {
	var addrErr *AddressError
	return errors.As(err, &addrErr)
}

// MapErrorToHTTP trả về status, code, message cho handler
func MapErrorToHTTP(err error) (int, string, string) {
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}

	switch addrErr.Code {
	case CodeAddressNotFound:
		return http.StatusNotFound, addrErr.Code, addrErr.Message
	case CodeAddressRequired, CodeInvalidAddress:
		msg := addrErr.Message
		if addrErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", addrErr.Message, addrErr.Err)
		}
		return http.StatusBadRequest, addrErr.Code, msg
	default:
		return http.StatusInternalServerError, addrErr.Code, addrErr.Message
	}
}
