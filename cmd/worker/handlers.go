package main

import (
	"github.com/hibiken/asynq"

	checkoutJob "storefront-checkout/internal/domains/checkout/job"
	couponJob "storefront-checkout/internal/domains/coupon/job"
	"storefront-checkout/internal/shared"
	"storefront-checkout/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcile *checkoutJob.ReconcileHandler
	warmCache *couponJob.WarmCacheHandler
}

// initializeHandlers lấy handler đã wire sẵn trong container
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcile: c.ReconcileHandler,
		warmCache: c.WarmCacheHandler,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Checkout
	mux.HandleFunc(shared.TypeCheckoutReconcile, h.reconcile.ProcessTask)

	// Coupon
	mux.HandleFunc(shared.TypeCouponWarmCache, h.warmCache.ProcessTask)
}
