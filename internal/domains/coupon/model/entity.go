package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeAmount     DiscountType = "amount"
)

func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountTypePercentage, DiscountTypeAmount:
		return true
	}
	return false
}

// Coupon - bản copy phía checkout của coupon server-side
type Coupon struct {
	CouponID         string           `json:"coupon_id"`
	CouponCode       string           `json:"coupon_code"`
	DiscountType     DiscountType     `json:"discount_type"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	MinOrderValue    decimal.Decimal  `json:"min_order_value"`
	MaxDiscountValue *decimal.Decimal `json:"max_discount_value,omitempty"` // chỉ áp dụng cho percentage
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	MaxUsers         int              `json:"max_users"`
	MaxUsagePerUser  int              `json:"max_usage_per_user"`
	UsedCount        int              `json:"used_count"`
	IsActive         bool             `json:"is_active"`
}

// IsExpired: hết hạn khi now > end_date. end_date == now vẫn còn hạn
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.EndDate)
}

// EstimatedCapacity = max_users × max_usage_per_user (server mới là nguồn chuẩn)
func (c *Coupon) EstimatedCapacity() int {
	return c.MaxUsers * c.MaxUsagePerUser
}

// Validate kiểm tra các invariant cơ bản của một coupon nhận từ upstream
func (c Coupon) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CouponID, validation.Required),
		validation.Field(&c.CouponCode, validation.Required),
		validation.Field(&c.DiscountType, validation.Required, validation.In(DiscountTypePercentage, DiscountTypeAmount)),
		validation.Field(&c.EndDate,
			validation.Required,
			validation.By(func(value interface{}) error {
				end := value.(time.Time)
				if !c.StartDate.IsZero() && !end.After(c.StartDate) {
					return validation.NewError("validation_end_before_start", "end_date phải sau start_date")
				}
				return nil
			}),
		),
		validation.Field(&c.MaxUsagePerUser, validation.Min(0)),
		validation.Field(&c.MaxUsers, validation.Min(0)),
	)
}

// UserCoupon - quan hệ user ↔ coupon (một dòng cho mỗi cặp)
type UserCoupon struct {
	UserCouponID string `json:"user_coupon_id"`
	UserID       string `json:"user_id"`
	CouponID     string `json:"coupon_id"`
	UsedCount    int    `json:"used_count"`
}

// FindUserCoupon tìm usage row của user theo coupon_id, nil nếu không có
func FindUserCoupon(userCoupons []UserCoupon, couponID string) *UserCoupon {
	for i := range userCoupons {
		if userCoupons[i].CouponID == couponID {
			return &userCoupons[i]
		}
	}
	return nil
}

// UsageUpdate - body partial update chỉ mang used_count
type UsageUpdate struct {
	UsedCount int `json:"used_count"`
}
