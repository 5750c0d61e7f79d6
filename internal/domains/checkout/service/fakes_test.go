package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	addressModel "storefront-checkout/internal/domains/address/model"
	addressService "storefront-checkout/internal/domains/address/service"
	"storefront-checkout/internal/domains/checkout/model"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	couponService "storefront-checkout/internal/domains/coupon/service"
	journalModel "storefront-checkout/internal/domains/journal/model"
	orderModel "storefront-checkout/internal/domains/order/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
	pricingService "storefront-checkout/internal/domains/pricing/service"
	"storefront-checkout/pkg/cache"
)

var (
	errNetwork = errors.New("dial tcp: connection refused")
	fixedNow   = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

// giỏ hàng 15,000,000 VND
func cart15M() []pricingModel.LineItem {
	return []pricingModel.LineItem{
		{CartItemID: "cart-1", ProductID: "p1", ProductName: "Laptop", Quantity: 1, SellingPrice: d(12000000)},
		{CartItemID: "cart-2", ProductID: "p2", ProductName: "Chuột", Quantity: 2, SellingPrice: d(1500000)},
	}
}

func savedAddresses() []addressModel.Address {
	return []addressModel.Address{
		{AddressID: "a1", FullName: "Nguyễn Văn A", Phone: "0912345678", City: "Hà Nội", District: "Cầu Giấy", Ward: "Dịch Vọng", Street: "1 Xuân Thuỷ"},
		{AddressID: "a2", FullName: "Nguyễn Văn A", Phone: "0912345678", City: "Hồ Chí Minh", District: "Quận 1", Ward: "Bến Nghé", Street: "2 Lê Lợi", IsDefault: true},
	}
}

func save10() couponModel.Coupon {
	return couponModel.Coupon{
		CouponID:         "cp-save10",
		CouponCode:       "SAVE10",
		DiscountType:     couponModel.DiscountTypePercentage,
		DiscountValue:    d(10),
		MinOrderValue:    d(0),
		MaxDiscountValue: dp(1000000),
		StartDate:        fixedNow.AddDate(0, -1, 0),
		EndDate:          fixedNow.AddDate(0, 1, 0),
		MaxUsers:         100,
		MaxUsagePerUser:  2,
		UsedCount:        7,
		IsActive:         true,
	}
}

func big5M() couponModel.Coupon {
	return couponModel.Coupon{
		CouponID:        "cp-big",
		CouponCode:      "BIG5M",
		DiscountType:    couponModel.DiscountTypeAmount,
		DiscountValue:   d(5000000),
		MinOrderValue:   d(20000000),
		StartDate:       fixedNow.AddDate(0, -1, 0),
		EndDate:         fixedNow.AddDate(0, 1, 0),
		MaxUsers:        100,
		MaxUsagePerUser: 1,
		IsActive:        true,
	}
}

// =====================================================
// UPSTREAM FAKES
// =====================================================

type fakeCouponSource struct {
	coupons     []couponModel.Coupon
	userCoupons []couponModel.UserCoupon
}

func (f *fakeCouponSource) ListActiveCoupons(context.Context) ([]couponModel.Coupon, error) {
	return f.coupons, nil
}

func (f *fakeCouponSource) ListUserCoupons(context.Context) ([]couponModel.UserCoupon, error) {
	return f.userCoupons, nil
}

func newCouponService(src *fakeCouponSource) *couponService.CouponService {
	return couponService.NewCouponService(
		couponService.NewCatalog(src, cache.NewMemoryCache(), time.Minute),
		couponService.NewValidatorWithClock(func() time.Time { return fixedNow }),
	)
}

type fakeShop struct {
	items     []pricingModel.LineItem
	addresses []addressModel.Address
	err       error
}

func (f *fakeShop) ListCartItems(context.Context) ([]pricingModel.LineItem, error) {
	return f.items, f.err
}

func (f *fakeShop) ListAddresses(context.Context) ([]addressModel.Address, error) {
	return f.addresses, f.err
}

// fakeGateway ghi lại mọi call, an toàn khi gọi song song
type fakeGateway struct {
	mu sync.Mutex

	createErr      error
	itemErr        error
	cartErr        error
	couponErr      error
	userCouponErr  error
	paymentErr     error
	paymentURL     string
	orderID        string
	orderRequests  []*orderModel.CreateOrderRequest
	idemKeys       []string
	itemRequests   []*orderModel.CreateOrderItemRequest
	removedCarts   []string
	couponUsage    map[string]int
	userCouponUse  map[string]int
	paymentCalls   int
	paymentAmounts []decimal.Decimal
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		orderID:       "ord-1",
		paymentURL:    "https://sandbox.vnpayment.vn/pay?token=abc",
		couponUsage:   map[string]int{},
		userCouponUse: map[string]int{},
	}
}

func (f *fakeGateway) CreateOrder(_ context.Context, req *orderModel.CreateOrderRequest, key string) (*orderModel.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderRequests = append(f.orderRequests, req)
	f.idemKeys = append(f.idemKeys, key)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &orderModel.Order{OrderID: f.orderID, TotalPrice: req.TotalPrice}, nil
}

func (f *fakeGateway) CreateOrderItem(_ context.Context, req *orderModel.CreateOrderItemRequest) (*orderModel.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemRequests = append(f.itemRequests, req)
	if f.itemErr != nil {
		return nil, f.itemErr
	}
	return &orderModel.OrderItem{OrderItemID: "oi-" + req.ProductID, OrderID: req.OrderID}, nil
}

func (f *fakeGateway) RemoveCartItem(_ context.Context, id string, ordered bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ordered {
		f.removedCarts = append(f.removedCarts, id)
	}
	return f.cartErr
}

func (f *fakeGateway) UpdateCouponUsage(_ context.Context, id string, used int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.couponUsage[id] = used
	return f.couponErr
}

func (f *fakeGateway) UpdateUserCouponUsage(_ context.Context, id string, used int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCouponUse[id] = used
	return f.userCouponErr
}

func (f *fakeGateway) CreatePaymentURL(_ context.Context, amount decimal.Decimal, _ string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentCalls++
	f.paymentAmounts = append(f.paymentAmounts, amount)
	return f.paymentURL, f.paymentErr
}

// số call sau CreateOrder
func (f *fakeGateway) followUpCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.itemRequests) + len(f.removedCarts) + len(f.couponUsage) + len(f.userCouponUse) + f.paymentCalls
}

// =====================================================
// JOURNAL / QUEUE FAKES
// =====================================================

type memJournal struct {
	mu   sync.Mutex
	subs []*journalModel.Submission
	err  error
}

func (j *memJournal) Record(_ context.Context, sub *journalModel.Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *sub
	j.subs = append(j.subs, &cp)
	return j.err
}

func (j *memJournal) FindByID(_ context.Context, id uuid.UUID) (*journalModel.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, s := range j.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, journalModel.ErrSubmissionNotFound
}

func (j *memJournal) UpdateSteps(context.Context, uuid.UUID, []journalModel.Step, journalModel.Status) error {
	return nil
}

func (j *memJournal) last() *journalModel.Submission {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.subs) == 0 {
		return nil
	}
	return j.subs[len(j.subs)-1]
}

type fakeEnqueuer struct {
	ids []uuid.UUID
}

func (f *fakeEnqueuer) EnqueueReconcile(_ context.Context, id uuid.UUID) error {
	f.ids = append(f.ids, id)
	return nil
}

// =====================================================
// BUILDERS
// =====================================================

type harness struct {
	gateway   *fakeGateway
	journal   *memJournal
	enqueuer  *fakeEnqueuer
	coupons   *fakeCouponSource
	sequencer *Sequencer
}

func newHarness() *harness {
	h := &harness{
		gateway:  newFakeGateway(),
		journal:  &memJournal{},
		enqueuer: &fakeEnqueuer{},
		coupons: &fakeCouponSource{
			coupons:     []couponModel.Coupon{save10(), big5M()},
			userCoupons: []couponModel.UserCoupon{{UserCouponID: "uc-1", UserID: "u1", CouponID: "cp-save10", UsedCount: 1}},
		},
	}
	h.sequencer = NewSequencer(
		h.gateway,
		newCouponService(h.coupons),
		pricingService.NewCalculator(),
		addressService.NewResolver(),
		h.journal,
		h.enqueuer,
		nil,
		SequencerConfig{SuccessRoute: "/checkout/success/%s"},
	)
	h.sequencer.now = func() time.Time { return fixedNow }
	return h
}

// session sẵn sàng submit: giỏ 15M, standard, địa chỉ mặc định a2
func readySession() *model.Session {
	return &model.Session{
		UserID:         "u1",
		Items:          cart15M(),
		SavedAddresses: savedAddresses(),
		Selection:      addressModel.Selection{Mode: addressModel.SelectionSaved, SavedAddressID: "a2"},
		ShippingMethod: pricingModel.ShippingStandard,
	}
}

func withSave10(sess *model.Session) *model.Session {
	c := save10()
	sess.CouponCode = c.CouponCode
	sess.Coupon = &c
	sess.UserCoupon = &couponModel.UserCoupon{UserCouponID: "uc-1", UserID: "u1", CouponID: c.CouponID, UsedCount: 1}
	return sess
}
