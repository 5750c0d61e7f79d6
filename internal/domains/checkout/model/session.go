package model

import (
	"time"

	addressModel "storefront-checkout/internal/domains/address/model"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
)

// Session - trạng thái checkout của một user, lưu trong cache.
// Items là snapshot giỏ hàng lúc bắt đầu, không đổi trong suốt checkout.
type Session struct {
	UserID         string                      `json:"user_id"`
	Items          []pricingModel.LineItem     `json:"items"`
	SavedAddresses []addressModel.Address      `json:"saved_addresses"`
	Selection      addressModel.Selection      `json:"selection"`
	ShippingMethod pricingModel.ShippingMethod `json:"shipping_method"`
	CouponCode     string                      `json:"coupon_code,omitempty"`
	Coupon         *couponModel.Coupon         `json:"coupon,omitempty"`
	UserCoupon     *couponModel.UserCoupon     `json:"user_coupon,omitempty"`
	StartedAt      time.Time                   `json:"started_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// Clone trả về bản copy sâu để command có thể sửa mà không đụng bản đang lưu
func (s *Session) Clone() *Session {
	cp := *s
	cp.Items = append([]pricingModel.LineItem(nil), s.Items...)
	cp.SavedAddresses = append([]addressModel.Address(nil), s.SavedAddresses...)
	if s.Selection.NewAddress != nil {
		addr := *s.Selection.NewAddress
		cp.Selection.NewAddress = &addr
	}
	if s.Coupon != nil {
		c := *s.Coupon
		cp.Coupon = &c
	}
	if s.UserCoupon != nil {
		uc := *s.UserCoupon
		cp.UserCoupon = &uc
	}
	return &cp
}

// ClearCoupon bỏ mã đang áp dụng
func (s *Session) ClearCoupon() {
	s.CouponCode = ""
	s.Coupon = nil
	s.UserCoupon = nil
}
