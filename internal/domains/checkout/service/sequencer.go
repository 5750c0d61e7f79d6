package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	addressService "storefront-checkout/internal/domains/address/service"
	"storefront-checkout/internal/domains/checkout/model"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	journalModel "storefront-checkout/internal/domains/journal/model"
	journalRepo "storefront-checkout/internal/domains/journal/repository"
	orderModel "storefront-checkout/internal/domains/order/model"
	pricingService "storefront-checkout/internal/domains/pricing/service"
	"storefront-checkout/internal/infrastructure/metrics"
	"storefront-checkout/pkg/logger"
)

// SequencerConfig - các tham số lấy từ config.Checkout
type SequencerConfig struct {
	SuccessRoute     string // "%s" = order_id
	BookkeepingLimit int    // <= 0: không giới hạn
}

// Sequencer thực hiện chuỗi call không atomic khi đặt hàng:
// create order -> (order items | cart removals | coupon usage | user-coupon usage) -> payment branch.
type Sequencer struct {
	gateway   OrderGateway
	coupons   CouponApplier
	calc      *pricingService.Calculator
	resolver  *addressService.Resolver
	journal   journalRepo.Repository
	reconcile ReconcileEnqueuer // nil = tắt reconcile
	metrics   *metrics.Metrics
	cfg       SequencerConfig
	now       func() time.Time
}

func NewSequencer(
	gateway OrderGateway,
	coupons CouponApplier,
	calc *pricingService.Calculator,
	resolver *addressService.Resolver,
	journal journalRepo.Repository,
	reconcile ReconcileEnqueuer,
	m *metrics.Metrics,
	cfg SequencerConfig,
) *Sequencer {
	if journal == nil {
		journal = journalRepo.NewNoopRepository()
	}
	return &Sequencer{
		gateway:   gateway,
		coupons:   coupons,
		calc:      calc,
		resolver:  resolver,
		journal:   journal,
		reconcile: reconcile,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Submit đặt hàng từ session. Trả về lỗi chỉ khi chưa có order nào được tạo,
// hoặc (ErrPaymentURLFailed) khi order đã tạo nhưng không lấy được link thanh toán.
func (s *Sequencer) Submit(ctx context.Context, sess *model.Session, method orderModel.PaymentMethod, idempotencyKey string) (*model.SubmitResult, error) {
	if !method.IsValid() {
		return nil, model.ErrInvalidPaymentMethod.Wrap(nil, map[string]interface{}{"payment_method": string(method)})
	}
	if len(sess.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	// 1. địa chỉ: thiếu thì dừng, không call gì
	addr, err := s.resolver.Resolve(sess.Selection, sess.SavedAddresses)
	if err != nil {
		return nil, err
	}

	// 2. kiểm tra lại coupon trên dữ liệu mới nhất, rồi tính tiền
	coupon, userCoupon := sess.Coupon, sess.UserCoupon
	if sess.CouponCode != "" {
		app, err := s.coupons.Apply(ctx, sess.UserID, sess.CouponCode, s.calc.Subtotal(sess.Items))
		if err != nil {
			return nil, err
		}
		coupon, userCoupon = app.Coupon, app.UserCoupon
	}

	summary, err := s.calc.Summarize(sess.Items, sess.ShippingMethod, coupon)
	if err != nil {
		return nil, model.ErrInvalidShippingMethod.Wrap(err, nil)
	}

	req := &orderModel.CreateOrderRequest{
		ShippingMethod:    sess.ShippingMethod.Label(),
		PaymentMethod:     method.Label(),
		PaymentStatus:     orderModel.PaymentStatusPending,
		Status:            orderModel.OrderStatusPending,
		TotalPrice:        summary.Total,
		ShippingFee:       summary.ShippingFee,
		DiscountAmount:    summary.Discount,
		RecipientName:     addr.FullName,
		RecipientPhone:    addr.Phone,
		RecipientAddress:  addr.FullAddress(),
		RecipientCity:     addr.City,
		RecipientDistrict: addr.District,
		RecipientWard:     addr.Ward,
	}
	if coupon != nil {
		req.CouponCodeUsed = coupon.CouponCode
	}

	sub := &journalModel.Submission{
		ID:             uuid.New(),
		UserID:         sess.UserID,
		IdempotencyKey: idempotencyKey,
		PaymentMethod:  string(method),
		ShippingMethod: string(sess.ShippingMethod),
		Total:          summary.Total,
		CreatedAt:      s.now(),
	}

	// 3. tạo order: nguồn sự thật duy nhất, lỗi thì dừng toàn bộ
	order, err := s.gateway.CreateOrder(ctx, req, idempotencyKey)
	if err != nil {
		sub.Status = journalModel.StatusFailed
		sub.Error = err.Error()
		s.record(ctx, sub)
		s.metrics.IncSubmission("order_failed")
		logger.ErrorWithFields("create order failed", err, map[string]interface{}{
			"user_id":       sess.UserID,
			"submission_id": sub.ID.String(),
		})
		return nil, model.ErrOrderCreateFailed.Wrap(err, nil)
	}
	sub.OrderID = order.OrderID

	// 4. bookkeeping song song, lỗi không trả về cho caller
	sub.Steps = s.bookkeeping(ctx, sess, order.OrderID, coupon, userCoupon)
	status := sub.Settle()
	s.record(ctx, sub)
	s.metrics.IncSubmission(string(status))

	if status == journalModel.StatusPartial && s.reconcile != nil {
		if err := s.reconcile.EnqueueReconcile(context.WithoutCancel(ctx), sub.ID); err != nil {
			logger.ErrorWithFields("enqueue reconcile", err, map[string]interface{}{"submission_id": sub.ID.String()})
		}
	}
	if coupon != nil {
		s.coupons.Invalidate(context.WithoutCancel(ctx), sess.UserID)
	}

	result := &model.SubmitResult{
		SubmissionID:  sub.ID.String(),
		OrderID:       order.OrderID,
		PaymentMethod: string(method),
		Total:         summary.Total,
	}

	logger.Info("order submitted", map[string]interface{}{
		"user_id":        sess.UserID,
		"order_id":       order.OrderID,
		"submission_id":  sub.ID.String(),
		"payment_method": string(method),
		"total":          summary.Total.String(),
		"status":         string(status),
	})

	// 5. rẽ nhánh theo phương thức thanh toán
	if !method.RequiresOnlinePayment() {
		result.NextStep = model.NextStepConfirmation
		result.RedirectURL = fmt.Sprintf(s.cfg.SuccessRoute, order.OrderID)
		return result, nil
	}

	paymentURL, err := s.gateway.CreatePaymentURL(ctx, summary.Total, order.OrderID, string(method))
	if err != nil {
		logger.ErrorWithFields("create payment url failed", err, map[string]interface{}{"order_id": order.OrderID})
		result.NextStep = model.NextStepPaymentRetry
		return result, model.ErrPaymentURLFailed.Wrap(err, map[string]interface{}{"order_id": order.OrderID})
	}
	result.NextStep = model.NextStepPayment
	result.RedirectURL = paymentURL
	return result, nil
}

// bookkeeping chạy join "wait for all" trên context tách khỏi request,
// client ngắt kết nối thì các call vẫn chạy xong.
func (s *Sequencer) bookkeeping(
	ctx context.Context,
	sess *model.Session,
	orderID string,
	coupon *couponModel.Coupon,
	userCoupon *couponModel.UserCoupon,
) []journalModel.Step {
	ctx = context.WithoutCancel(ctx)
	steps := planSteps(sess, orderID, coupon, userCoupon)

	var g errgroup.Group
	if s.cfg.BookkeepingLimit > 0 {
		g.SetLimit(s.cfg.BookkeepingLimit)
	}

	for i := range steps {
		st := &steps[i] // mỗi goroutine chỉ ghi vào step của nó
		g.Go(func() error {
			err := s.runStep(ctx, st)
			st.Attempts = 1
			st.OK = err == nil
			if err != nil {
				st.Error = err.Error()
			}
			s.metrics.IncBookkeeping(string(st.Kind), st.OK)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		failed := 0
		for _, st := range steps {
			if !st.OK {
				failed++
			}
		}
		logger.Warn("order bookkeeping partially failed", map[string]interface{}{
			"order_id":    orderID,
			"failed":      failed,
			"total":       len(steps),
			"first_error": err.Error(),
		})
	}
	return steps
}

// planSteps dựng danh sách call bookkeeping kèm payload để có thể replay
func planSteps(sess *model.Session, orderID string, coupon *couponModel.Coupon, userCoupon *couponModel.UserCoupon) []journalModel.Step {
	steps := make([]journalModel.Step, 0, 2*len(sess.Items)+2)
	add := func(kind journalModel.StepKind, target string, payload interface{}) {
		raw, _ := json.Marshal(payload)
		steps = append(steps, journalModel.Step{
			Seq:      len(steps) + 1,
			Kind:     kind,
			TargetID: target,
			Payload:  raw,
		})
	}

	for _, item := range sess.Items {
		add(journalModel.StepOrderItem, item.ProductID, orderModel.CreateOrderItemRequest{
			OrderID:       orderID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			SubtotalPrice: item.Total(),
			ProductName:   item.ProductName,
			Thumbnail:     item.Thumbnail,
		})
	}
	for _, item := range sess.Items {
		add(journalModel.StepCartRemoval, item.CartItemID, nil)
	}
	if coupon != nil {
		add(journalModel.StepCouponUsage, coupon.CouponID, journalModel.UsagePayload{UsedCount: coupon.UsedCount + 1})
	}
	if userCoupon != nil {
		add(journalModel.StepUserCouponUsage, userCoupon.UserCouponID, journalModel.UsagePayload{UsedCount: userCoupon.UsedCount + 1})
	}
	return steps
}

// runStep thực hiện một call bookkeeping từ payload đã lưu (dùng chung với reconcile)
func (s *Sequencer) runStep(ctx context.Context, st *journalModel.Step) error {
	return RunStep(ctx, s.gateway, st)
}

// RunStep gửi call upstream tương ứng với step
func RunStep(ctx context.Context, gateway OrderGateway, st *journalModel.Step) error {
	switch st.Kind {
	case journalModel.StepOrderItem:
		var req orderModel.CreateOrderItemRequest
		if err := json.Unmarshal(st.Payload, &req); err != nil {
			return fmt.Errorf("decode order item payload: %w", err)
		}
		_, err := gateway.CreateOrderItem(ctx, &req)
		return err

	case journalModel.StepCartRemoval:
		return gateway.RemoveCartItem(ctx, st.TargetID, true)

	case journalModel.StepCouponUsage, journalModel.StepUserCouponUsage:
		var p journalModel.UsagePayload
		if err := json.Unmarshal(st.Payload, &p); err != nil {
			return fmt.Errorf("decode usage payload: %w", err)
		}
		if st.Kind == journalModel.StepCouponUsage {
			return gateway.UpdateCouponUsage(ctx, st.TargetID, p.UsedCount)
		}
		return gateway.UpdateUserCouponUsage(ctx, st.TargetID, p.UsedCount)

	default:
		return fmt.Errorf("unknown bookkeeping step %q", st.Kind)
	}
}

// record ghi journal; lỗi journal chỉ log, không ảnh hưởng kết quả submit
func (s *Sequencer) record(ctx context.Context, sub *journalModel.Submission) {
	sub.UpdatedAt = s.now()
	if err := s.journal.Record(context.WithoutCancel(ctx), sub); err != nil {
		logger.ErrorWithFields("record checkout submission", err, map[string]interface{}{
			"submission_id": sub.ID.String(),
			"order_id":      sub.OrderID,
		})
	}
}
