package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domains/dashboard/model"
	orderModel "storefront-checkout/internal/domains/order/model"
)

// DefaultTopSellers - số sản phẩm bán chạy hiển thị
const DefaultTopSellers = 10

var hundred = decimal.NewFromInt(100)

// Aggregator tổng hợp số liệu dashboard từ các collection đã fetch.
// Pure: cùng input thì cùng output, nên memo được.
type Aggregator struct {
	loc *time.Location
}

// NewAggregator - loc dùng để căn ngày/tuần/tháng/năm, nil = UTC
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

func (a *Aggregator) startOfDay(t time.Time) time.Time {
	t = t.In(a.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.loc)
}

// Windows trả về kỳ hiện tại (chứa now) và kỳ liền trước, căn theo lịch.
// Tuần bắt đầu từ thứ Hai.
func (a *Aggregator) Windows(period model.Period, now time.Time) (cur, prev model.Window) {
	day := a.startOfDay(now)

	var start time.Time
	step := func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

	switch period {
	case model.PeriodDay:
		start = day
	case model.PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		step = func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) }
	case model.PeriodYear:
		start = time.Date(day.Year(), 1, 1, 0, 0, 0, 0, a.loc)
		step = func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) }
	default: // month
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, a.loc)
		step = func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) }
	}

	cur = model.Window{Start: start, End: step(start, 1)}
	prev = model.Window{Start: step(start, -1), End: start}
	return cur, prev
}

// Revenue = Σ total_price của order đã thanh toán, theo payment_date
func (a *Aggregator) Revenue(orders []orderModel.Order, w model.Window) decimal.Decimal {
	sum := decimal.Zero
	for i := range orders {
		o := &orders[i]
		if o.IsPaid() && o.PaymentDate != nil && w.Contains(*o.PaymentDate) {
			sum = sum.Add(o.TotalPrice)
		}
	}
	return sum
}

// DeliveredCount đếm order delivered theo updated_at
func (a *Aggregator) DeliveredCount(orders []orderModel.Order, w model.Window) int {
	n := 0
	for i := range orders {
		if orders[i].IsDelivered() && w.Contains(orders[i].UpdatedAt) {
			n++
		}
	}
	return n
}

// NewOrders đếm order theo order_date (mọi trạng thái)
func (a *Aggregator) NewOrders(orders []orderModel.Order, w model.Window) int {
	n := 0
	for i := range orders {
		if w.Contains(orders[i].OrderDate) {
			n++
		}
	}
	return n
}

// ImportCost = Σ total_price của phiếu nhập theo import_date
func (a *Aggregator) ImportCost(imports []model.Import, w model.Window) decimal.Decimal {
	sum := decimal.Zero
	for _, im := range imports {
		if w.Contains(im.ImportDate) {
			sum = sum.Add(im.TotalPrice)
		}
	}
	return sum
}

// Compare: change = cur - prev, percent = change / prev × 100 (2 chữ số).
// prev = 0 thì percent = 0.
func (a *Aggregator) Compare(cur, prev decimal.Decimal) model.Delta {
	d := model.Delta{
		Current:  cur,
		Previous: prev,
		Change:   cur.Sub(prev),
		Percent:  decimal.Zero,
	}
	if !prev.IsZero() {
		d.Percent = d.Change.Div(prev).Mul(hundred).Round(2)
	}
	return d
}

// TopSellers gom order item của các order đã thanh toán trong [from, to),
// sort theo quantity giảm dần (hoà thì subtotal giảm dần, rồi product_id).
func (a *Aggregator) TopSellers(orders []orderModel.Order, items []orderModel.OrderItem, from, to time.Time, limit int) []model.TopSeller {
	if limit <= 0 {
		limit = DefaultTopSellers
	}
	w := model.Window{Start: from, End: to}

	paid := make(map[string]struct{})
	for i := range orders {
		o := &orders[i]
		if o.IsPaid() && o.PaymentDate != nil && w.Contains(*o.PaymentDate) {
			paid[o.OrderID] = struct{}{}
		}
	}

	byProduct := make(map[string]*model.TopSeller)
	for _, it := range items {
		if _, ok := paid[it.OrderID]; !ok {
			continue
		}
		ts, ok := byProduct[it.ProductID]
		if !ok {
			ts = &model.TopSeller{ProductID: it.ProductID, ProductName: it.ProductName, Thumbnail: it.Thumbnail, Subtotal: decimal.Zero}
			byProduct[it.ProductID] = ts
		}
		ts.Quantity += it.Quantity
		ts.Subtotal = ts.Subtotal.Add(it.SubtotalPrice)
	}

	out := make([]model.TopSeller, 0, len(byProduct))
	for _, ts := range byProduct {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Subtotal.Cmp(out[j].Subtotal); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RevenueSeries - doanh thu từng ngày trong [from, to), ngày không có doanh thu = 0
func (a *Aggregator) RevenueSeries(orders []orderModel.Order, from, to time.Time) []model.SeriesPoint {
	const layout = "2006-01-02"

	byDay := make(map[string]decimal.Decimal)
	w := model.Window{Start: from, End: to}
	for i := range orders {
		o := &orders[i]
		if !o.IsPaid() || o.PaymentDate == nil || !w.Contains(*o.PaymentDate) {
			continue
		}
		key := o.PaymentDate.In(a.loc).Format(layout)
		byDay[key] = byDay[key].Add(o.TotalPrice)
	}

	var out []model.SeriesPoint
	for day := a.startOfDay(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(layout)
		rev, ok := byDay[key]
		if !ok {
			rev = decimal.Zero
		}
		out = append(out, model.SeriesPoint{Date: key, Revenue: rev})
	}
	return out
}
