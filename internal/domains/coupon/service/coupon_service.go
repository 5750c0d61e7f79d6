package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/pkg/logger"
)

// Application là kết quả áp mã: coupon + usage row của user (nếu có)
type Application struct {
	Coupon     *model.Coupon
	UserCoupon *model.UserCoupon
}

// CouponService ghép Catalog (dữ liệu) với Validator (luật)
type CouponService struct {
	catalog   *Catalog
	validator *Validator
}

func NewCouponService(catalog *Catalog, validator *Validator) *CouponService {
	return &CouponService{catalog: catalog, validator: validator}
}

// Apply load dữ liệu coupon của user rồi chạy ApplyCoupon
func (s *CouponService) Apply(ctx context.Context, userID, code string, subtotal decimal.Decimal) (*Application, error) {
	available, err := s.catalog.ActiveCoupons(ctx)
	if err != nil {
		logger.Error("load active coupons", err)
		return nil, model.ErrCouponCatalogUnavailable
	}

	userCoupons, err := s.catalog.UserCoupons(ctx, userID)
	if err != nil {
		logger.Error("load user coupons", err)
		return nil, model.ErrCouponCatalogUnavailable
	}

	coupon, err := s.validator.ApplyCoupon(code, available, userCoupons, subtotal)
	if err != nil {
		return nil, err
	}

	app := &Application{Coupon: coupon}
	if uc := model.FindUserCoupon(userCoupons, coupon.CouponID); uc != nil {
		cp := *uc
		app.UserCoupon = &cp
	}
	return app, nil
}

// Invalidate xoá cache coupon của user sau khi đặt hàng
func (s *CouponService) Invalidate(ctx context.Context, userID string) {
	s.catalog.Invalidate(ctx, userID)
}

// Refresh dùng cho job warm cache
func (s *CouponService) Refresh(ctx context.Context) (int, error) {
	return s.catalog.Refresh(ctx)
}

// IsRejection: lỗi do luật coupon (không phải lỗi hệ thống)
func IsRejection(err error) bool {
	var ce *model.CouponError
	return errors.As(err, &ce) && ce.Code != model.ErrCodeCouponCatalogFailure
}
