package service

import (
	"context"
	"errors"

	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/checkout/repository"
	orderModel "storefront-checkout/internal/domains/order/model"
	"storefront-checkout/pkg/logger"
)

type checkoutService struct {
	sessions  repository.SessionStore
	idem      repository.IdempotencyStore
	sequencer *Sequencer
}

func NewCheckoutService(sessions repository.SessionStore, idem repository.IdempotencyStore, sequencer *Sequencer) CheckoutService {
	return &checkoutService{sessions: sessions, idem: idem, sequencer: sequencer}
}

// Submit đặt hàng từ session hiện tại của user.
//   - cùng idempotency key đã xong: trả lại kết quả cũ (Replayed=true), không gọi upstream
//   - cùng key đang chạy: ErrSubmissionInProgress
//   - chưa tạo được order: nhả key, giữ session để user thử lại
//   - đã có order: lưu kết quả theo key và xoá session
func (s *checkoutService) Submit(ctx context.Context, userID, paymentMethod, idempotencyKey string) (*model.SubmitResult, error) {
	method, ok := orderModel.ParsePaymentMethod(paymentMethod)
	if !ok {
		return nil, model.ErrInvalidPaymentMethod.Wrap(nil, map[string]interface{}{"payment_method": paymentMethod})
	}

	acquired, previous, err := s.idem.Reserve(ctx, userID, idempotencyKey)
	if err != nil {
		var ce *model.CheckoutError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, model.ErrUpstreamUnavailable.Wrap(err, nil)
	}
	if !acquired {
		replay := *previous
		replay.Replayed = true
		logger.Info("checkout submit replayed", map[string]interface{}{
			"user_id":  userID,
			"order_id": replay.OrderID,
		})
		if replay.NextStep == model.NextStepPaymentRetry {
			return &replay, model.ErrPaymentURLFailed.Wrap(nil, map[string]interface{}{"order_id": replay.OrderID})
		}
		return &replay, nil
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		s.release(ctx, userID, idempotencyKey)
		return nil, err
	}

	result, err := s.sequencer.Submit(ctx, sess, method, idempotencyKey)
	if result == nil {
		// chưa có order nào được tạo
		s.release(ctx, userID, idempotencyKey)
		return nil, err
	}

	// order đã tồn tại từ đây, kể cả khi lấy payment url lỗi
	bg := context.WithoutCancel(ctx)
	if cerr := s.idem.Complete(bg, userID, idempotencyKey, result); cerr != nil {
		logger.ErrorWithFields("store idempotent result", cerr, map[string]interface{}{"order_id": result.OrderID})
	}
	if derr := s.sessions.Delete(bg, userID); derr != nil {
		logger.ErrorWithFields("delete checkout session", derr, map[string]interface{}{"user_id": userID})
	}
	return result, err
}

func (s *checkoutService) release(ctx context.Context, userID, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), userID, key); err != nil {
		logger.ErrorWithFields("release idempotency key", err, map[string]interface{}{"user_id": userID})
	}
}
