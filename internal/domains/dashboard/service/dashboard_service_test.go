package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/dashboard/model"
	orderModel "storefront-checkout/internal/domains/order/model"
	"storefront-checkout/pkg/cache"
)

type fakeSource struct {
	orders  []orderModel.Order
	items   []orderModel.OrderItem
	imports []model.Import
	err     error
	calls   int
}

func (f *fakeSource) ListOrders(context.Context) ([]orderModel.Order, error) {
	f.calls++
	return f.orders, f.err
}

func (f *fakeSource) ListOrderItems(context.Context) ([]orderModel.OrderItem, error) {
	return f.items, nil
}

func (f *fakeSource) ListImports(context.Context) ([]model.Import, error) {
	return f.imports, nil
}

func newDashboard(src *fakeSource) *DashboardService {
	svc := NewDashboardService(src, NewAggregator(time.UTC), cache.NewMemoryCache(), time.Minute)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStats_DefaultsToCurrentMonth(t *testing.T) {
	src := &fakeSource{
		orders: sampleOrders(),
		items: []orderModel.OrderItem{
			{OrderID: "o1", ProductID: "pA", Quantity: 2, SubtotalPrice: d(100)},
		},
		imports: []model.Import{{ImportID: "i1", ImportDate: at(2026, 3, 3, 0), TotalPrice: d(1000)}},
	}
	svc := newDashboard(src)

	stats, hit, err := svc.Stats(context.Background(), StatsQuery{})
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, model.PeriodMonth, stats.Period)
	assert.True(t, stats.RangeFrom.Equal(at(2026, 3, 1, 0)))
	assert.True(t, stats.RangeTo.Equal(at(2026, 4, 1, 0)))
	assert.True(t, stats.Revenue.Current.Equal(d(500)))
	assert.Equal(t, "25", stats.Revenue.Percent.String())
	assert.True(t, stats.ImportCost.Current.Equal(d(1000)))
	assert.True(t, stats.ImportCost.Percent.IsZero())
	require.Len(t, stats.TopSellers, 1)
	assert.Len(t, stats.RevenueSeries, 31)
}

func TestStats_Memoised(t *testing.T) {
	src := &fakeSource{orders: sampleOrders()}
	svc := newDashboard(src)
	ctx := context.Background()
	q := StatsQuery{Period: model.PeriodWeek}

	_, _, err := svc.Stats(ctx, q)
	require.NoError(t, err)
	stats, hit, err := svc.Stats(ctx, q)
	require.NoError(t, err)

	assert.True(t, hit)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, model.PeriodWeek, stats.Period)

	// input khác => key khác
	_, hit, err = svc.Stats(ctx, StatsQuery{Period: model.PeriodDay})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, src.calls)
}

func TestStats_CustomRangeIsInclusive(t *testing.T) {
	svc := newDashboard(&fakeSource{orders: sampleOrders()})

	stats, _, err := svc.Stats(context.Background(), StatsQuery{
		Period: model.PeriodMonth,
		From:   at(2026, 3, 1, 0),
		To:     at(2026, 3, 1, 0),
	})
	require.NoError(t, err)
	assert.True(t, stats.RangeTo.Equal(at(2026, 3, 2, 0)))
	require.Len(t, stats.RevenueSeries, 1)
	assert.True(t, stats.RevenueSeries[0].Revenue.Equal(d(200)))
}

func TestStats_InvalidInput(t *testing.T) {
	svc := newDashboard(&fakeSource{})
	ctx := context.Background()

	_, _, err := svc.Stats(ctx, StatsQuery{Period: "decade"})
	assert.ErrorIs(t, err, model.ErrInvalidPeriod)

	_, _, err = svc.Stats(ctx, StatsQuery{From: at(2026, 3, 5, 0)})
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, _, err = svc.Stats(ctx, StatsQuery{From: at(2026, 3, 5, 0), To: at(2026, 3, 1, 0)})
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, _, err = svc.Stats(ctx, StatsQuery{From: at(2024, 1, 1, 0), To: at(2026, 1, 1, 0)})
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestStats_UpstreamError(t *testing.T) {
	svc := newDashboard(&fakeSource{err: errors.New("502")})

	_, _, err := svc.Stats(context.Background(), StatsQuery{})
	assert.ErrorContains(t, err, "list orders")
}
