package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// LineItem là một dòng trong giỏ hàng (bản copy phía checkout, server là nguồn chuẩn)
type LineItem struct {
	CartItemID   string          `json:"cart_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Thumbnail    string          `json:"thumbnail"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// Total = quantity × selling_price
func (l LineItem) Total() decimal.Decimal {
	return l.SellingPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ProductID, validation.Required.Error("Thiếu mã sản phẩm")),
		validation.Field(&l.Quantity,
			validation.Required.Error("Số lượng phải lớn hơn 0"),
			validation.Min(1).Error("Số lượng phải lớn hơn 0"),
		),
		validation.Field(&l.SellingPrice,
			validation.By(func(value interface{}) error {
				if value.(decimal.Decimal).IsNegative() {
					return validation.NewError("validation_negative_price", "Giá bán phải >= 0")
				}
				return nil
			}),
		),
	)
}

// Summary là kết quả tính tiền của một lần checkout
type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}
