package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/address"
	addressModel "storefront-checkout/internal/domains/address/model"
	"storefront-checkout/internal/domains/checkout/model"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	journalModel "storefront-checkout/internal/domains/journal/model"
	orderModel "storefront-checkout/internal/domains/order/model"
)

// Scenario A: 15M + 20k - min(1.5M, 1M) = 14,020,000
func TestSubmit_CODWithCoupon(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	res, err := h.sequencer.Submit(ctx, withSave10(readySession()), orderModel.PaymentMethodCOD, "key-1")
	require.NoError(t, err)

	assert.True(t, res.Total.Equal(d(14020000)), res.Total.String())
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, model.NextStepConfirmation, res.NextStep)
	assert.Equal(t, "/checkout/success/ord-1", res.RedirectURL)

	// order request được denormalize từ địa chỉ + pricing
	require.Len(t, h.gateway.orderRequests, 1)
	req := h.gateway.orderRequests[0]
	assert.True(t, req.TotalPrice.Equal(d(14020000)))
	assert.True(t, req.ShippingFee.Equal(d(20000)))
	assert.True(t, req.DiscountAmount.Equal(d(1000000)))
	assert.Equal(t, "SAVE10", req.CouponCodeUsed)
	assert.Equal(t, "Giao hàng tiêu chuẩn", req.ShippingMethod)
	assert.Equal(t, orderModel.PaymentMethodCOD.Label(), req.PaymentMethod)
	assert.Equal(t, orderModel.PaymentStatusPending, req.PaymentStatus)
	assert.Equal(t, "2 Lê Lợi, Bến Nghé, Quận 1, Hồ Chí Minh", req.RecipientAddress)
	assert.Equal(t, "Quận 1", req.RecipientDistrict)
	assert.Equal(t, []string{"key-1"}, h.gateway.idemKeys)

	// bookkeeping: 2 order items, 2 cart removals, coupon + user-coupon +1
	require.Len(t, h.gateway.itemRequests, 2)
	for _, it := range h.gateway.itemRequests {
		assert.Equal(t, "ord-1", it.OrderID)
	}
	removed := append([]string(nil), h.gateway.removedCarts...)
	sort.Strings(removed)
	assert.Equal(t, []string{"cart-1", "cart-2"}, removed)
	assert.Equal(t, map[string]int{"cp-save10": 8}, h.gateway.couponUsage)
	assert.Equal(t, map[string]int{"uc-1": 2}, h.gateway.userCouponUse)
	assert.Zero(t, h.gateway.paymentCalls)

	sub := h.journal.last()
	require.NotNil(t, sub)
	assert.Equal(t, journalModel.StatusCompleted, sub.Status)
	assert.Len(t, sub.Steps, 6)
	assert.Empty(t, h.enqueuer.ids)
}

func TestSubmit_OrderItemSubtotals(t *testing.T) {
	h := newHarness()

	_, err := h.sequencer.Submit(context.Background(), readySession(), orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)

	byProduct := map[string]*orderModel.CreateOrderItemRequest{}
	for _, it := range h.gateway.itemRequests {
		byProduct[it.ProductID] = it
	}
	require.Contains(t, byProduct, "p2")
	assert.Equal(t, 2, byProduct["p2"].Quantity)
	assert.True(t, byProduct["p2"].SubtotalPrice.Equal(d(3000000)))
	assert.Equal(t, "Chuột", byProduct["p2"].ProductName)

	// không có coupon thì không đụng tới usage counters
	assert.Empty(t, h.gateway.couponUsage)
	assert.Empty(t, h.gateway.userCouponUse)
	assert.Empty(t, h.gateway.orderRequests[0].CouponCodeUsed)
}

// Scenario C: tạo order lỗi thì không có call nào khác
func TestSubmit_OrderCreationFails(t *testing.T) {
	h := newHarness()
	h.gateway.createErr = errNetwork

	res, err := h.sequencer.Submit(context.Background(), withSave10(readySession()), orderModel.PaymentMethodVNPay, "k")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrOrderCreateFailed)
	assert.ErrorIs(t, err, errNetwork)
	assert.Zero(t, h.gateway.followUpCalls())

	sub := h.journal.last()
	require.NotNil(t, sub)
	assert.Equal(t, journalModel.StatusFailed, sub.Status)
	assert.Empty(t, sub.OrderID)
	assert.Empty(t, sub.Steps)
	assert.Empty(t, h.enqueuer.ids)
}

// Scenario D: một call bookkeeping lỗi, user vẫn được chuyển sang trang success
func TestSubmit_BookkeepingFailureStillSucceeds(t *testing.T) {
	h := newHarness()
	h.gateway.couponErr = errNetwork

	res, err := h.sequencer.Submit(context.Background(), withSave10(readySession()), orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)
	assert.Equal(t, model.NextStepConfirmation, res.NextStep)
	assert.Equal(t, "/checkout/success/ord-1", res.RedirectURL)

	// các call khác vẫn chạy đủ
	assert.Len(t, h.gateway.itemRequests, 2)
	assert.Len(t, h.gateway.removedCarts, 2)
	assert.Equal(t, 2, h.gateway.userCouponUse["uc-1"])

	sub := h.journal.last()
	require.NotNil(t, sub)
	assert.Equal(t, journalModel.StatusPartial, sub.Status)
	failed := sub.FailedSteps()
	require.Len(t, failed, 1)
	assert.Equal(t, journalModel.StepCouponUsage, failed[0].Kind)
	assert.Equal(t, "cp-save10", failed[0].TargetID)
	assert.Contains(t, failed[0].Error, "connection refused")

	require.Len(t, h.enqueuer.ids, 1)
	assert.Equal(t, sub.ID, h.enqueuer.ids[0])
}

func TestSubmit_PartialWithoutReconcile(t *testing.T) {
	h := newHarness()
	h.sequencer.reconcile = nil
	h.gateway.itemErr = errNetwork

	res, err := h.sequencer.Submit(context.Background(), readySession(), orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, journalModel.StatusPartial, h.journal.last().Status)
}

func TestSubmit_JournalFailureIgnored(t *testing.T) {
	h := newHarness()
	h.journal.err = errNetwork

	res, err := h.sequencer.Submit(context.Background(), readySession(), orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", res.OrderID)
}

func TestSubmit_BookkeepingLimit(t *testing.T) {
	h := newHarness()
	h.sequencer.cfg.BookkeepingLimit = 1

	_, err := h.sequencer.Submit(context.Background(), withSave10(readySession()), orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)
	assert.Equal(t, 6, h.gateway.followUpCalls())
}

func TestSubmit_VNPayRedirect(t *testing.T) {
	h := newHarness()

	res, err := h.sequencer.Submit(context.Background(), withSave10(readySession()), orderModel.PaymentMethodVNPay, "k")
	require.NoError(t, err)

	assert.Equal(t, model.NextStepPayment, res.NextStep)
	assert.Equal(t, h.gateway.paymentURL, res.RedirectURL)
	require.Len(t, h.gateway.paymentAmounts, 1)
	assert.True(t, h.gateway.paymentAmounts[0].Equal(d(14020000)))
	assert.Equal(t, orderModel.PaymentMethodVNPay.Label(), h.gateway.orderRequests[0].PaymentMethod)
}

func TestSubmit_VNPayURLFailure(t *testing.T) {
	h := newHarness()
	h.gateway.paymentErr = errNetwork

	res, err := h.sequencer.Submit(context.Background(), readySession(), orderModel.PaymentMethodVNPay, "k")

	assert.ErrorIs(t, err, model.ErrPaymentURLFailed)
	require.NotNil(t, res, "order exists, result must still be returned")
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, model.NextStepPaymentRetry, res.NextStep)
	assert.Empty(t, res.RedirectURL)

	var ce *model.CheckoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ord-1", ce.Details["order_id"])
}

func TestSubmit_AddressRequired(t *testing.T) {
	h := newHarness()
	sess := readySession()
	sess.Selection = addressModel.Selection{Mode: addressModel.SelectionNone}

	_, err := h.sequencer.Submit(context.Background(), sess, orderModel.PaymentMethodCOD, "k")

	assert.True(t, address.IsAddressRequired(err))
	assert.Empty(t, h.gateway.orderRequests)
	assert.Nil(t, h.journal.last())
}

func TestSubmit_NewAddressIsNotPersisted(t *testing.T) {
	h := newHarness()
	sess := readySession()
	sess.Selection = addressModel.Selection{
		Mode:           addressModel.SelectionNew,
		SavedAddressID: "a2",
		NewAddress: &addressModel.Address{
			FullName: "Trần B", Phone: "0987654321", City: "Đà Nẵng", District: "Hải Châu", Ward: "Thạch Thang", Street: "3 Bạch Đằng", IsNew: true,
		},
	}

	_, err := h.sequencer.Submit(context.Background(), sess, orderModel.PaymentMethodCOD, "k")
	require.NoError(t, err)

	req := h.gateway.orderRequests[0]
	assert.Equal(t, "Trần B", req.RecipientName)
	assert.Equal(t, "Đà Nẵng", req.RecipientCity)
}

func TestSubmit_CouponRevalidatedBeforeOrder(t *testing.T) {
	h := newHarness()
	// user đã dùng hết lượt kể từ lúc áp mã
	h.coupons.userCoupons = []couponModel.UserCoupon{{UserCouponID: "uc-1", UserID: "u1", CouponID: "cp-save10", UsedCount: 2}}

	_, err := h.sequencer.Submit(context.Background(), withSave10(readySession()), orderModel.PaymentMethodCOD, "k")

	assert.ErrorIs(t, err, couponModel.ErrCouponUsageExceeded)
	assert.Empty(t, h.gateway.orderRequests)
}

func TestSubmit_InvalidPaymentMethod(t *testing.T) {
	h := newHarness()

	_, err := h.sequencer.Submit(context.Background(), readySession(), orderModel.PaymentMethod("momo"), "k")

	assert.ErrorIs(t, err, model.ErrInvalidPaymentMethod)
	assert.Empty(t, h.gateway.orderRequests)
}

func TestRunStep_UnknownKind(t *testing.T) {
	err := RunStep(context.Background(), newFakeGateway(), &journalModel.Step{Kind: "refund"})
	assert.Error(t, err)
}
