package model

import "github.com/shopspring/decimal"

// ShippingMethod - mã phương thức vận chuyển
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingSameDay  ShippingMethod = "sameday"

	DefaultShippingMethod = ShippingStandard
)

// Bảng phí cố định (VND)
var shippingFees = map[ShippingMethod]int64{
	ShippingStandard: 20000,
	ShippingExpress:  35000,
	ShippingSameDay:  50000,
}

// Nhãn hiển thị, được denormalize vào order
var shippingLabels = map[ShippingMethod]string{
	ShippingStandard: "Giao hàng tiêu chuẩn",
	ShippingExpress:  "Giao hàng nhanh",
	ShippingSameDay:  "Giao hàng trong ngày",
}

func (m ShippingMethod) IsValid() bool {
	_, ok := shippingFees[m]
	return ok
}

func (m ShippingMethod) String() string {
	return string(m)
}

// Fee trả về phí ship, ok=false nếu mã không tồn tại
func (m ShippingMethod) Fee() (decimal.Decimal, bool) {
	fee, ok := shippingFees[m]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(fee), true
}

func (m ShippingMethod) Label() string {
	if label, ok := shippingLabels[m]; ok {
		return label
	}
	return string(m)
}

// ShippingOption dùng để render danh sách lựa chọn
type ShippingOption struct {
	Method ShippingMethod  `json:"method"`
	Label  string          `json:"label"`
	Fee    decimal.Decimal `json:"fee"`
}

// ShippingOptions trả về các phương thức theo thứ tự phí tăng dần
func ShippingOptions() []ShippingOption {
	methods := []ShippingMethod{ShippingStandard, ShippingExpress, ShippingSameDay}
	out := make([]ShippingOption, 0, len(methods))
	for _, m := range methods {
		fee, _ := m.Fee()
		out = append(out, ShippingOption{Method: m, Label: m.Label(), Fee: fee})
	}
	return out
}
