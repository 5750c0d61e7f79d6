package model

import (
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs (body gửi lên /v1/orders, /v1/order-items)
// =====================================================

// CreateOrderRequest - các field được denormalize từ address + pricing
type CreateOrderRequest struct {
	ShippingMethod    string          `json:"shipping_method"` // display label
	PaymentMethod     string          `json:"payment_method"`  // display label
	PaymentStatus     string          `json:"payment_status"`
	Status            string          `json:"status"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	CouponCodeUsed    string          `json:"coupon_code_used,omitempty"`
	RecipientName     string          `json:"recipient_name"`
	RecipientPhone    string          `json:"recipient_phone"`
	RecipientAddress  string          `json:"recipient_address"`
	RecipientCity     string          `json:"recipient_city"`
	RecipientDistrict string          `json:"recipient_district"`
	RecipientWard     string          `json:"recipient_ward"`
}

// CreateOrderItemRequest - một dòng order item
type CreateOrderItemRequest struct {
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	SubtotalPrice decimal.Decimal `json:"subtotal_price"`
	ProductName   string          `json:"product_name"`
	Thumbnail     string          `json:"thumbnail"`
}

// UpdateOrderStatusRequest - PUT /v1/orders/:id
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// OrderDetailResponse - trang trạng thái thanh toán re-fetch order theo id
type OrderDetailResponse struct {
	Order        *Order `json:"order"`
	CanCancel    bool   `json:"can_cancel"`
	AwaitPayment bool   `json:"await_payment"`
}
