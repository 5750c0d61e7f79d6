package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	couponModel "storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/internal/domains/pricing/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

// giỏ hàng 15,000,000 VND
func cart15M() []model.LineItem {
	return []model.LineItem{
		{CartItemID: "c1", ProductID: "p1", ProductName: "Laptop", Quantity: 1, SellingPrice: d(12000000)},
		{CartItemID: "c2", ProductID: "p2", ProductName: "Chuột", Quantity: 2, SellingPrice: d(1500000)},
	}
}

func TestSubtotal(t *testing.T) {
	calc := NewCalculator()

	assert.True(t, calc.Subtotal(cart15M()).Equal(d(15000000)))
	assert.True(t, calc.Subtotal(nil).IsZero())
}

func TestShippingFee(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		method model.ShippingMethod
		want   int64
	}{
		{model.ShippingStandard, 20000},
		{model.ShippingExpress, 35000},
		{model.ShippingSameDay, 50000},
	}
	for _, tt := range tests {
		fee, err := calc.ShippingFee(tt.method)
		require.NoError(t, err)
		assert.True(t, fee.Equal(d(tt.want)), tt.method)
	}

	_, err := calc.ShippingFee("drone")
	assert.ErrorIs(t, err, model.ErrUnknownShippingMethod)
}

func TestTotalWithoutCoupon(t *testing.T) {
	calc := NewCalculator()

	for _, opt := range model.ShippingOptions() {
		s, err := calc.Summarize(cart15M(), opt.Method, nil)
		require.NoError(t, err)
		assert.True(t, s.Discount.IsZero())
		assert.True(t, s.Total.Equal(s.Subtotal.Add(opt.Fee)), opt.Method)
	}
}

func TestDiscount_Percentage(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		value    int64
		max      *decimal.Decimal
		subtotal int64
		want     int64
	}{
		{"capped", 10, dp(1000000), 15000000, 1000000},
		{"under cap", 10, dp(1000000), 5000000, 500000},
		{"no cap", 10, nil, 15000000, 1500000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &couponModel.Coupon{DiscountType: couponModel.DiscountTypePercentage, DiscountValue: d(tt.value), MaxDiscountValue: tt.max}
			got, err := calc.Discount(c, d(tt.subtotal))
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), got.String())
			if tt.max != nil {
				assert.True(t, got.LessThanOrEqual(*tt.max))
			}
		})
	}
}

func TestDiscount_PercentageNotRounded(t *testing.T) {
	calc := NewCalculator()
	c := &couponModel.Coupon{DiscountType: couponModel.DiscountTypePercentage, DiscountValue: d(15)}

	got, err := calc.Discount(c, d(99999))
	require.NoError(t, err)
	assert.Equal(t, "14999.85", got.String())
}

func TestDiscount_AmountIgnoresSubtotal(t *testing.T) {
	calc := NewCalculator()
	c := &couponModel.Coupon{DiscountType: couponModel.DiscountTypeAmount, DiscountValue: d(5000000), MaxDiscountValue: dp(1)}

	got, err := calc.Discount(c, d(100))
	require.NoError(t, err)
	assert.True(t, got.Equal(d(5000000)))
}

func TestSummarize_NegativeTotalPreserved(t *testing.T) {
	calc := NewCalculator()
	items := []model.LineItem{{ProductID: "p", Quantity: 1, SellingPrice: d(100000)}}
	c := &couponModel.Coupon{DiscountType: couponModel.DiscountTypeAmount, DiscountValue: d(500000)}

	s, err := calc.Summarize(items, model.ShippingStandard, c)
	require.NoError(t, err)
	assert.True(t, s.Total.Equal(d(-380000)), s.Total.String())
}

func TestSummarize_ScenarioA(t *testing.T) {
	calc := NewCalculator()
	save10 := &couponModel.Coupon{
		CouponCode:       "SAVE10",
		DiscountType:     couponModel.DiscountTypePercentage,
		DiscountValue:    d(10),
		MaxDiscountValue: dp(1000000),
	}

	s, err := calc.Summarize(cart15M(), model.ShippingStandard, save10)
	require.NoError(t, err)
	assert.True(t, s.Subtotal.Equal(d(15000000)))
	assert.True(t, s.ShippingFee.Equal(d(20000)))
	assert.True(t, s.Discount.Equal(d(1000000)))
	assert.True(t, s.Total.Equal(d(14020000)))
}

func TestSummarize_UnknownDiscountType(t *testing.T) {
	calc := NewCalculator()
	_, err := calc.Summarize(cart15M(), model.ShippingStandard, &couponModel.Coupon{DiscountType: "bogo"})
	assert.ErrorIs(t, err, model.ErrUnknownDiscountType)
}

func TestLineItemValidate(t *testing.T) {
	assert.NoError(t, model.LineItem{ProductID: "p", Quantity: 1, SellingPrice: d(0)}.Validate())
	assert.Error(t, model.LineItem{ProductID: "p", Quantity: 0, SellingPrice: d(1)}.Validate())
	assert.Error(t, model.LineItem{ProductID: "p", Quantity: 1, SellingPrice: d(-1)}.Validate())
	assert.Error(t, model.LineItem{Quantity: 1}.Validate())
}
