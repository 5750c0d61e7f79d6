package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// =====================================================
// PAYMENT METHOD CONSTANTS
// =====================================================
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodVNPay PaymentMethod = "vnpay"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCOD:   "Thanh toán khi nhận hàng",
	PaymentMethodVNPay: "Thanh toán qua VNPay",
}

func (pm PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[pm]
	return ok
}

func (pm PaymentMethod) String() string {
	return string(pm)
}

// Label - nhãn hiển thị được denormalize vào order
func (pm PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[pm]; ok {
		return label
	}
	return string(pm)
}

// ParsePaymentMethod nhận mã ("vnpay") hoặc nhãn hiển thị đã lưu trên order
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	if pm := PaymentMethod(s); pm.IsValid() {
		return pm, true
	}
	for pm, label := range paymentMethodLabels {
		if label == s {
			return pm, true
		}
	}
	return "", false
}

// RequiresOnlinePayment - cần redirect sang cổng thanh toán
func (pm PaymentMethod) RequiresOnlinePayment() bool {
	return pm == PaymentMethodVNPay
}

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// =====================================================
// ENTITY: Order
// =====================================================
type Order struct {
	OrderID           string          `json:"order_id"`
	UserID            string          `json:"user_id,omitempty"`
	Status            string          `json:"status"`
	ShippingMethod    string          `json:"shipping_method"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     string          `json:"payment_status"`
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
	OrderDate         time.Time       `json:"order_date"`
	UpdatedAt         time.Time       `json:"updated_at"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
}

// CanBeCancelled - chỉ pending/confirmed mới được huỷ
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// IsPaid checks if payment is completed
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// Forward-only: pending → confirmed → shipping → delivered.
// cancelled chỉ đến được từ pending/confirmed.
var validTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
}

// CanTransition checks if an order can move from one status to another
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionTo checks if order can transition to new status
func (o *Order) CanTransitionTo(newStatus string) bool {
	return CanTransition(o.Status, newStatus)
}

func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// =====================================================
// ENTITY: OrderItem
// =====================================================
type OrderItem struct {
	OrderItemID   string          `json:"order_item_id"`
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Thumbnail     string          `json:"thumbnail"`
	Quantity      int             `json:"quantity"`
	SubtotalPrice decimal.Decimal `json:"subtotal_price"`
}
