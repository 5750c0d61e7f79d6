package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/shared"
)

// Refresher - CouponService.Refresh
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// ============================================
// Coupon Warm Cache Handler (cron)
// ============================================

type WarmCacheHandler struct {
	coupons Refresher
	tokens  shared.ServiceTokenIssuer
}

func NewWarmCacheHandler(coupons Refresher, tokens shared.ServiceTokenIssuer) *WarmCacheHandler {
	return &WarmCacheHandler{
		coupons: coupons,
		tokens:  tokens,
	}
}

func (h *WarmCacheHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	ctx, err := shared.AuthorizeService(ctx, h.tokens, "worker:"+shared.TypeCouponWarmCache)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	count, err := h.coupons.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to warm coupon cache")
		return fmt.Errorf("refresh coupons: %w", err)
	}

	log.Info().
		Int("coupons", count).
		Dur("took", time.Since(start)).
		Msg("Coupon cache warmed")

	return nil
}
