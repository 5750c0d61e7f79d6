package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/shared"
	"storefront-checkout/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs đăng ký toàn bộ cron job
func (s *Scheduler) RegisterJobs() error {
	return s.registerCouponWarmCacheJob()
}

// ================================================
// JOB: Warm coupon cache (mặc định mỗi 5 phút)
// ================================================
// Cache coupon active có TTL ngắn, job refresh trước khi hết hạn
// để request apply coupon hiếm khi phải gọi upstream.
func (s *Scheduler) registerCouponWarmCacheJob() error {
	task := asynq.NewTask(shared.TypeCouponWarmCache, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.CouponWarmCronSpec,
		task,
		asynq.Queue(shared.QueueCoupon),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CouponWarmCache job", err)
		return err
	}

	logger.Info("✓ Registered CouponWarmCache", map[string]interface{}{
		"cron": s.jobConfig.CouponWarmCronSpec,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
