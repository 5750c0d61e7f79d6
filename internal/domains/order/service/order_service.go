package service

import (
	"context"
	"fmt"

	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/infrastructure/upstream"
	"storefront-checkout/pkg/logger"
)

type orderService struct {
	upstream Upstream
}

func NewOrderService(up Upstream) OrderService {
	return &orderService{upstream: up}
}

// =====================================================
// GET ORDER
// =====================================================
func (s *orderService) Get(ctx context.Context, orderID string) (*model.OrderDetailResponse, error) {
	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}

	method, _ := model.ParsePaymentMethod(order.PaymentMethod)
	return &model.OrderDetailResponse{
		Order:        order,
		CanCancel:    order.CanBeCancelled(),
		AwaitPayment: order.PaymentStatus == model.PaymentStatusPending && method.RequiresOnlinePayment(),
	}, nil
}

// =====================================================
// STATUS TRANSITION
// =====================================================

// RequestTransition chỉ là yêu cầu: server vẫn là nơi quyết định
func (s *orderService) RequestTransition(ctx context.Context, orderID, status string) (*model.Order, error) {
	if !model.IsValidStatus(status) {
		return nil, model.NewOrderError(model.ErrCodeInvalidStatus, "Trạng thái đơn hàng không hợp lệ", model.ErrInvalidStatus)
	}

	current, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !current.CanTransitionTo(status) {
		if status == model.OrderStatusCancelled {
			return nil, model.NewOrderError(model.ErrCodeOrderCannotCancel, "Đơn hàng không thể huỷ ở trạng thái hiện tại", model.ErrOrderCannotCancel)
		}
		return nil, model.NewOrderError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Không thể chuyển từ %s sang %s", current.Status, status), model.ErrInvalidTransition)
	}

	updated, err := s.upstream.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		logger.ErrorWithFields("update order status", err, map[string]interface{}{
			"order_id": orderID,
			"from":     current.Status,
			"to":       status,
		})
		return nil, wrapUpstream(err)
	}

	logger.Info("order status transition requested", map[string]interface{}{
		"order_id": orderID,
		"from":     current.Status,
		"to":       status,
	})
	return updated, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	return s.RequestTransition(ctx, orderID, model.OrderStatusCancelled)
}

func (s *orderService) fetch(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.upstream.GetOrder(ctx, orderID)
	if err != nil {
		return nil, wrapUpstream(err)
	}
	return order, nil
}

func wrapUpstream(err error) error {
	if upstream.IsNotFound(err) {
		return model.NewOrderError(model.ErrCodeOrderNotFound, "Không tìm thấy đơn hàng", model.ErrOrderNotFound)
	}
	return model.NewOrderError(model.ErrCodeUpstreamFailure, "Không thể kết nối tới hệ thống đơn hàng", err)
}
