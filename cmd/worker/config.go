package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/shared"
)

// queueWeights - checkout reconcile ưu tiên hơn warm cache
var queueWeights = map[string]int{
	shared.QueueCheckout: 6,
	shared.QueueCoupon:   3,
	shared.QueueDefault:  1,
}

// asynqConfig build cấu hình asynq.Server từ JobConfig
func asynqConfig(jobCfg config.JobConfig) asynq.Config {
	log.Printf("[Config] Concurrency: %d, Coupon warm cron: %q, Health port: %s",
		jobCfg.Concurrency, jobCfg.CouponWarmCronSpec, jobCfg.HealthPort)

	return asynq.Config{
		Queues:      queueWeights,
		Concurrency: jobCfg.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Printf("[Asynq] ❌ Task failed - Type: %s, Retry: %d/%d, Error: %v", task.Type(), retried, maxRetry, err)
		}),
	}
}
