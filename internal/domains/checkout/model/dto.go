package model

import (
	"github.com/shopspring/decimal"

	addressModel "storefront-checkout/internal/domains/address/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type SetShippingMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

type SelectAddressRequest struct {
	AddressID string `json:"address_id" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type SubmitRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// SessionView - session + tiền đã tính, render trang checkout
type SessionView struct {
	Session         *Session                      `json:"session"`
	Address         *addressModel.Address         `json:"address,omitempty"`
	Summary         *pricingModel.Summary         `json:"summary"`
	ShippingOptions []pricingModel.ShippingOption `json:"shipping_options"`
}

// NextStep sau khi tạo order
type NextStep string

const (
	NextStepConfirmation NextStep = "confirmation" // cod: sang trang success
	NextStepPayment      NextStep = "payment"      // vnpay: redirect sang cổng thanh toán
	NextStepPaymentRetry NextStep = "payment_retry"
)

// SubmitResult - kết quả submit, cũng là giá trị lưu theo idempotency key
type SubmitResult struct {
	SubmissionID  string          `json:"submission_id"`
	OrderID       string          `json:"order_id"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	NextStep      NextStep        `json:"next_step"`
	RedirectURL   string          `json:"redirect_url,omitempty"`
	Replayed      bool            `json:"replayed,omitempty"`
}
