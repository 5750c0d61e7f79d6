package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	addressModel "storefront-checkout/internal/domains/address/model"
	"storefront-checkout/internal/domains/checkout/model"
	couponService "storefront-checkout/internal/domains/coupon/service"
	orderModel "storefront-checkout/internal/domains/order/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
)

// =====================================================
// SERVICE INTERFACES
// =====================================================

// SessionService - các command trên checkout session.
// Command chỉ commit session khi thành công; lỗi thì session đang lưu giữ nguyên.
type SessionService interface {
	Start(ctx context.Context, userID string) (*model.SessionView, error)
	Get(ctx context.Context, userID string) (*model.SessionView, error)
	SetShippingMethod(ctx context.Context, userID, method string) (*model.SessionView, error)
	SelectAddress(ctx context.Context, userID, addressID string) (*model.SessionView, error)
	EnterNewAddress(ctx context.Context, userID string, input addressModel.NewAddressInput) (*model.SessionView, error)
	ApplyCoupon(ctx context.Context, userID, code string) (*model.SessionView, error)
	RemoveCoupon(ctx context.Context, userID string) (*model.SessionView, error)
}

// CheckoutService - submit có idempotency
type CheckoutService interface {
	Submit(ctx context.Context, userID, paymentMethod, idempotencyKey string) (*model.SubmitResult, error)
}

// =====================================================
// DEPENDENCIES (upstream.Client thoả mãn tất cả)
// =====================================================

type CartSource interface {
	ListCartItems(ctx context.Context) ([]pricingModel.LineItem, error)
}

type AddressSource interface {
	ListAddresses(ctx context.Context) ([]addressModel.Address, error)
}

// OrderGateway - các call upstream mà sequencer thực hiện
type OrderGateway interface {
	CreateOrder(ctx context.Context, req *orderModel.CreateOrderRequest, idempotencyKey string) (*orderModel.Order, error)
	CreateOrderItem(ctx context.Context, req *orderModel.CreateOrderItemRequest) (*orderModel.OrderItem, error)
	RemoveCartItem(ctx context.Context, cartItemID string, ordered bool) error
	UpdateCouponUsage(ctx context.Context, couponID string, usedCount int) error
	UpdateUserCouponUsage(ctx context.Context, userCouponID string, usedCount int) error
	CreatePaymentURL(ctx context.Context, amount decimal.Decimal, orderID, method string) (string, error)
}

// CouponApplier - *couponService.CouponService
type CouponApplier interface {
	Apply(ctx context.Context, userID, code string, subtotal decimal.Decimal) (*couponService.Application, error)
	Invalidate(ctx context.Context, userID string)
}

// ReconcileEnqueuer - *queue.Client
type ReconcileEnqueuer interface {
	EnqueueReconcile(ctx context.Context, submissionID uuid.UUID) error
}
