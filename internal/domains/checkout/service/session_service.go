package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	addressModel "storefront-checkout/internal/domains/address/model"
	addressService "storefront-checkout/internal/domains/address/service"
	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/checkout/repository"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
	pricingService "storefront-checkout/internal/domains/pricing/service"
	"storefront-checkout/pkg/logger"
)

type sessionService struct {
	sessions  repository.SessionStore
	carts     CartSource
	addresses AddressSource
	coupons   CouponApplier
	calc      *pricingService.Calculator
	resolver  *addressService.Resolver
	now       func() time.Time
}

func NewSessionService(
	sessions repository.SessionStore,
	carts CartSource,
	addresses AddressSource,
	coupons CouponApplier,
	calc *pricingService.Calculator,
	resolver *addressService.Resolver,
) SessionService {
	return &sessionService{
		sessions:  sessions,
		carts:     carts,
		addresses: addresses,
		coupons:   coupons,
		calc:      calc,
		resolver:  resolver,
		now:       time.Now,
	}
}

// Start snapshot giỏ hàng + địa chỉ, chọn sẵn địa chỉ mặc định, method=standard.
// Gọi lại Start sẽ ghi đè session cũ.
func (s *sessionService) Start(ctx context.Context, userID string) (*model.SessionView, error) {
	var (
		items []pricingModel.LineItem
		saved []addressModel.Address
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.carts.ListCartItems(gctx)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		saved, err = s.addresses.ListAddresses(gctx)
		if err != nil {
			return fmt.Errorf("list addresses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.ErrorWithFields("start checkout session", err, map[string]interface{}{"user_id": userID})
		return nil, model.ErrUpstreamUnavailable.Wrap(err, nil)
	}

	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, model.ErrEmptyCart.Wrap(err, map[string]interface{}{"product_id": items[i].ProductID})
		}
	}

	now := s.now()
	sess := &model.Session{
		UserID:         userID,
		Items:          items,
		SavedAddresses: saved,
		Selection:      s.resolver.DefaultSelection(saved),
		ShippingMethod: pricingModel.DefaultShippingMethod,
		StartedAt:      now,
		UpdatedAt:      now,
	}

	view, err := s.view(sess)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	logger.Info("checkout session started", map[string]interface{}{
		"user_id":     userID,
		"items":       len(items),
		"addresses":   len(saved),
		"has_default": sess.Selection.Mode == addressModel.SelectionSaved,
	})
	return view, nil
}

func (s *sessionService) Get(ctx context.Context, userID string) (*model.SessionView, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(sess)
}

func (s *sessionService) SetShippingMethod(ctx context.Context, userID, method string) (*model.SessionView, error) {
	return s.mutate(ctx, userID, func(next *model.Session) error {
		m := pricingModel.ShippingMethod(method)
		if !m.IsValid() {
			return model.ErrInvalidShippingMethod.Wrap(nil, map[string]interface{}{"method": method})
		}
		next.ShippingMethod = m
		return nil
	})
}

func (s *sessionService) SelectAddress(ctx context.Context, userID, addressID string) (*model.SessionView, error) {
	return s.mutate(ctx, userID, func(next *model.Session) error {
		sel, err := s.resolver.SelectSaved(next.Selection, addressID, next.SavedAddresses)
		if err != nil {
			return err
		}
		next.Selection = sel
		return nil
	})
}

func (s *sessionService) EnterNewAddress(ctx context.Context, userID string, input addressModel.NewAddressInput) (*model.SessionView, error) {
	return s.mutate(ctx, userID, func(next *model.Session) error {
		sel, err := s.resolver.EnterNew(next.Selection, input)
		if err != nil {
			return err
		}
		next.Selection = sel
		return nil
	})
}

// ApplyCoupon chạy validator trên subtotal hiện tại.
// Bị từ chối thì mã đang áp dụng (nếu có) vẫn giữ nguyên.
func (s *sessionService) ApplyCoupon(ctx context.Context, userID, code string) (*model.SessionView, error) {
	return s.mutate(ctx, userID, func(next *model.Session) error {
		app, err := s.coupons.Apply(ctx, userID, code, s.calc.Subtotal(next.Items))
		if err != nil {
			return err
		}
		next.CouponCode = app.Coupon.CouponCode
		next.Coupon = app.Coupon
		next.UserCoupon = app.UserCoupon
		return nil
	})
}

func (s *sessionService) RemoveCoupon(ctx context.Context, userID string) (*model.SessionView, error) {
	return s.mutate(ctx, userID, func(next *model.Session) error {
		next.ClearCoupon()
		return nil
	})
}

// mutate: load -> clone -> apply -> tính lại summary -> save.
// apply lỗi hoặc summary lỗi thì không save.
func (s *sessionService) mutate(ctx context.Context, userID string, apply func(next *model.Session) error) (*model.SessionView, error) {
	current, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()

	view, err := s.view(next)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *sessionService) view(sess *model.Session) (*model.SessionView, error) {
	summary, err := s.calc.Summarize(sess.Items, sess.ShippingMethod, sess.Coupon)
	if err != nil {
		if errors.Is(err, pricingModel.ErrUnknownShippingMethod) {
			return nil, model.ErrInvalidShippingMethod.Wrap(err, nil)
		}
		return nil, fmt.Errorf("summarize session: %w", err)
	}

	view := &model.SessionView{
		Session:         sess,
		Summary:         summary,
		ShippingOptions: pricingModel.ShippingOptions(),
	}
	// chưa chọn địa chỉ vẫn render được trang
	if addr, err := s.resolver.Resolve(sess.Selection, sess.SavedAddresses); err == nil {
		view.Address = addr
	}
	return view, nil
}
