package service

import (
	"context"
	"fmt"
	"time"

	"storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/pkg/cache"
	"storefront-checkout/pkg/logger"
)

const (
	activeCouponsKey  = "coupon:active"
	userCouponsPrefix = "coupon:user:"
)

// Source - nơi lấy dữ liệu coupon (upstream client)
type Source interface {
	ListActiveCoupons(ctx context.Context) ([]model.Coupon, error)
	ListUserCoupons(ctx context.Context) ([]model.UserCoupon, error)
}

// Catalog load coupon + user-coupon ở chế độ isAll và memo trong cache
type Catalog struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
}

func NewCatalog(source Source, c cache.Cache, ttl time.Duration) *Catalog {
	return &Catalog{source: source, cache: c, ttl: ttl}
}

// ActiveCoupons trả về coupon đang active (đọc cache trước)
func (c *Catalog) ActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	var cached []model.Coupon
	if found, err := c.cache.Get(ctx, activeCouponsKey, &cached); err != nil {
		logger.Warn("coupon cache read failed", map[string]interface{}{"key": activeCouponsKey, "error": err.Error()})
	} else if found {
		return cached, nil
	}

	coupons, err := c.loadActive(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, activeCouponsKey, coupons)
	return coupons, nil
}

// UserCoupons trả về usage rows của user (đọc cache trước)
func (c *Catalog) UserCoupons(ctx context.Context, userID string) ([]model.UserCoupon, error) {
	key := userCouponsPrefix + userID

	var cached []model.UserCoupon
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		logger.Warn("coupon cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if found {
		return cached, nil
	}

	rows, err := c.source.ListUserCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user coupons: %w", err)
	}
	c.store(ctx, key, rows)
	return rows, nil
}

// Refresh load lại danh sách active và ghi đè cache, trả về số coupon
func (c *Catalog) Refresh(ctx context.Context) (int, error) {
	coupons, err := c.loadActive(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.cache.Set(ctx, activeCouponsKey, coupons, c.ttl); err != nil {
		return 0, fmt.Errorf("write coupon cache: %w", err)
	}
	return len(coupons), nil
}

// Invalidate xoá cache sau khi used_count thay đổi
func (c *Catalog) Invalidate(ctx context.Context, userID string) {
	keys := []string{activeCouponsKey}
	if userID != "" {
		keys = append(keys, userCouponsPrefix+userID)
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("coupon cache invalidate failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}
}

func (c *Catalog) loadActive(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := c.source.ListActiveCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}

	out := make([]model.Coupon, 0, len(coupons))
	for _, cp := range coupons {
		if !cp.IsActive {
			continue
		}
		if err := cp.Validate(); err != nil {
			logger.Warn("skip malformed coupon", map[string]interface{}{
				"coupon_id":   cp.CouponID,
				"coupon_code": cp.CouponCode,
				"error":       err.Error(),
			})
			continue
		}
		out = append(out, cp)
	}
	return out, nil
}

func (c *Catalog) store(ctx context.Context, key string, value interface{}) {
	if c.ttl <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		logger.Warn("coupon cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
