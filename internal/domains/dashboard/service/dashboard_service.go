package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront-checkout/internal/domains/dashboard/model"
	orderModel "storefront-checkout/internal/domains/order/model"
	"storefront-checkout/pkg/cache"
	"storefront-checkout/pkg/logger"
)

const statsKeyPrefix = "dashboard:stats:"

// maxRangeDays giới hạn độ dài chart range
const maxRangeDays = 366

// Source - các collection admin (upstream client, chế độ isAll)
type Source interface {
	ListOrders(ctx context.Context) ([]orderModel.Order, error)
	ListOrderItems(ctx context.Context) ([]orderModel.OrderItem, error)
	ListImports(ctx context.Context) ([]model.Import, error)
}

// StatsQuery - input của Stats. From/To zero = dùng kỳ hiện tại làm chart range.
// To là ngày cuối (bao gồm).
type StatsQuery struct {
	Period model.Period
	From   time.Time
	To     time.Time
}

type DashboardService struct {
	source Source
	agg    *Aggregator
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time
}

func NewDashboardService(source Source, agg *Aggregator, c cache.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{source: source, agg: agg, cache: c, ttl: ttl, now: time.Now}
}

// Stats tính số liệu dashboard, memo trong cache theo (period, range, kỳ hiện tại).
// cacheHit = true khi lấy từ cache.
func (s *DashboardService) Stats(ctx context.Context, q StatsQuery) (*model.Stats, bool, error) {
	if q.Period == "" {
		q.Period = model.PeriodMonth
	}
	if !q.Period.IsValid() {
		return nil, false, fmt.Errorf("%w: %q", model.ErrInvalidPeriod, q.Period)
	}

	now := s.now()
	cur, prev := s.agg.Windows(q.Period, now)

	from, to, err := s.chartRange(q, cur)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("%s%s:%s:%s:%d", statsKeyPrefix, q.Period, from.Format("20060102"), to.Format("20060102"), cur.Start.Unix())

	var cached model.Stats
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Warn("dashboard cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if found {
		return &cached, true, nil
	}

	var (
		orders  []orderModel.Order
		items   []orderModel.OrderItem
		imports []model.Import
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = s.source.ListOrders(gctx)
		return wrap("list orders", err)
	})
	g.Go(func() (err error) {
		items, err = s.source.ListOrderItems(gctx)
		return wrap("list order items", err)
	})
	g.Go(func() (err error) {
		imports, err = s.source.ListImports(gctx)
		return wrap("list imports", err)
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	count := func(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
	delivered := s.agg.Compare(count(s.agg.DeliveredCount(orders, cur)), count(s.agg.DeliveredCount(orders, prev)))
	newOrders := s.agg.Compare(count(s.agg.NewOrders(orders, cur)), count(s.agg.NewOrders(orders, prev)))

	stats := &model.Stats{
		Period:         q.Period,
		Current:        cur,
		Previous:       prev,
		Revenue:        s.agg.Compare(s.agg.Revenue(orders, cur), s.agg.Revenue(orders, prev)),
		DeliveredCount: delivered,
		NewOrders:      newOrders,
		ImportCost:     s.agg.Compare(s.agg.ImportCost(imports, cur), s.agg.ImportCost(imports, prev)),
		RangeFrom:      from,
		RangeTo:        to,
		TopSellers:     s.agg.TopSellers(orders, items, from, to, DefaultTopSellers),
		RevenueSeries:  s.agg.RevenueSeries(orders, from, to),
		GeneratedAt:    now,
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			logger.Warn("dashboard cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	logger.Debug("dashboard stats computed", map[string]interface{}{
		"period":  string(q.Period),
		"orders":  len(orders),
		"items":   len(items),
		"imports": len(imports),
	})
	return stats, false, nil
}

// chartRange trả về [from, to) theo ngày; to của query là ngày cuối (bao gồm)
func (s *DashboardService) chartRange(q StatsQuery, cur model.Window) (time.Time, time.Time, error) {
	if q.From.IsZero() && q.To.IsZero() {
		return cur.Start, cur.End, nil
	}
	if q.From.IsZero() || q.To.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to must be set together", model.ErrInvalidRange)
	}

	from := s.agg.startOfDay(q.From)
	to := s.agg.startOfDay(q.To).AddDate(0, 0, 1)
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", model.ErrInvalidRange)
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range longer than %d days", model.ErrInvalidRange, maxRangeDays)
	}
	return from, to, nil
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
