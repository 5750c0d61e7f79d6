package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	couponModel "storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/internal/domains/pricing/model"
)

var hundred = decimal.NewFromInt(100)

// Calculator tính tiền cho một lần checkout. Pure, không side effect, không làm tròn.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Subtotal = Σ quantity × selling_price
func (c *Calculator) Subtotal(items []model.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

// ShippingFee trả về phí theo bảng cố định
func (c *Calculator) ShippingFee(method model.ShippingMethod) (decimal.Decimal, error) {
	fee, ok := method.Fee()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrUnknownShippingMethod, method)
	}
	return fee, nil
}

// Discount tính số tiền giảm.
//   - nil coupon: 0
//   - percentage: min(subtotal × value / 100, max_discount_value), không có max thì không cap
//   - amount: discount_value, không so với subtotal (total có thể âm)
func (c *Calculator) Discount(coupon *couponModel.Coupon, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if coupon == nil {
		return decimal.Zero, nil
	}

	switch coupon.DiscountType {
	case couponModel.DiscountTypePercentage:
		discount := subtotal.Mul(coupon.DiscountValue).Div(hundred)
		if coupon.MaxDiscountValue != nil && discount.GreaterThan(*coupon.MaxDiscountValue) {
			discount = *coupon.MaxDiscountValue
		}
		return discount, nil

	case couponModel.DiscountTypeAmount:
		return coupon.DiscountValue, nil

	default:
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrUnknownDiscountType, coupon.DiscountType)
	}
}

// Summarize: total = subtotal + shipping_fee − discount
func (c *Calculator) Summarize(items []model.LineItem, method model.ShippingMethod, coupon *couponModel.Coupon) (*model.Summary, error) {
	subtotal := c.Subtotal(items)

	fee, err := c.ShippingFee(method)
	if err != nil {
		return nil, err
	}

	discount, err := c.Discount(coupon, subtotal)
	if err != nil {
		return nil, err
	}

	return &model.Summary{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Discount:    discount,
		Total:       subtotal.Add(fee).Sub(discount),
	}, nil
}
