package service

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/internal/infrastructure/metrics"
)

// Validator là pre-check phía client. Pass không có nghĩa là được phép dùng:
// server vẫn re-validate khi tăng used_count.
type Validator struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewValidator(m *metrics.Metrics) *Validator {
	return &Validator{now: time.Now, metrics: m}
}

// NewValidatorWithClock dùng cho test
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// ApplyCoupon kiểm tra theo thứ tự, dừng ở lỗi đầu tiên:
//  1. code khớp chính xác (phân biệt hoa thường)
//  2. now > end_date => hết hạn (start_date không được kiểm tra)
//  3. used_count của user >= max_usage_per_user => hết lượt
//  4. subtotal < min_order_value
func (v *Validator) ApplyCoupon(code string, available []model.Coupon, userCoupons []model.UserCoupon, subtotal decimal.Decimal) (*model.Coupon, error) {
	coupon := findByCode(available, code)
	if coupon == nil {
		return nil, v.reject(model.ErrCouponNotFound.WithDetails(map[string]interface{}{
			"code": code,
		}))
	}

	if coupon.IsExpired(v.now()) {
		return nil, v.reject(model.ErrCouponExpired.WithDetails(map[string]interface{}{
			"code":     code,
			"end_date": coupon.EndDate,
		}))
	}

	if usage := model.FindUserCoupon(userCoupons, coupon.CouponID); usage != nil && usage.UsedCount >= coupon.MaxUsagePerUser {
		return nil, v.reject(model.ErrCouponUsageExceeded.WithDetails(map[string]interface{}{
			"code":               code,
			"used_count":         usage.UsedCount,
			"max_usage_per_user": coupon.MaxUsagePerUser,
		}))
	}

	if subtotal.LessThan(coupon.MinOrderValue) {
		return nil, v.reject(model.ErrCouponBelowMinimum.WithDetails(map[string]interface{}{
			"code":            code,
			"subtotal":        subtotal,
			"min_order_value": coupon.MinOrderValue,
		}))
	}

	cp := *coupon
	return &cp, nil
}

func (v *Validator) reject(err *model.CouponError) error {
	v.metrics.IncCouponRejection(string(err.Code))
	return err
}

func findByCode(available []model.Coupon, code string) *model.Coupon {
	if code == "" {
		return nil
	}
	for i := range available {
		if available[i].CouponCode == code {
			return &available[i]
		}
	}
	return nil
}
