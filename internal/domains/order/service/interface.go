package service

import (
	"context"

	"storefront-checkout/internal/domains/order/model"
)

// =====================================================
// ORDER SERVICE INTERFACE
// =====================================================
type OrderService interface {
	// Get re-fetch order cho trang trạng thái thanh toán
	Get(ctx context.Context, orderID string) (*model.OrderDetailResponse, error)

	// RequestTransition kiểm tra cục bộ rồi gửi PUT /v1/orders/:id {status}
	RequestTransition(ctx context.Context, orderID, status string) (*model.Order, error)

	// Cancel = RequestTransition(cancelled) với lỗi riêng khi không huỷ được
	Cancel(ctx context.Context, orderID string) (*model.Order, error)
}

// Upstream - các endpoint order của storefront API
type Upstream interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*model.Order, error)
}
