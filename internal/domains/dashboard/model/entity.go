package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Import - phiếu nhập hàng (chi phí nhập)
type Import struct {
	ImportID   string          `json:"import_id"`
	ImportDate time.Time       `json:"import_date"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Period - đơn vị so sánh kỳ này với kỳ trước
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodMonth, nil
	}
	p := Period(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// Window là khoảng [Start, End) căn theo lịch
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains: Start <= t < End
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Delta so sánh kỳ hiện tại và kỳ trước
type Delta struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Change   decimal.Decimal `json:"change"`
	Percent  decimal.Decimal `json:"percent"` // 0 khi previous = 0
}

// TopSeller - sản phẩm bán chạy trong khoảng chart
type TopSeller struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Thumbnail   string          `json:"thumbnail"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SeriesPoint - doanh thu theo ngày cho chart
type SeriesPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
}

// Stats - kết quả tổng hợp cho trang dashboard admin
type Stats struct {
	Period         Period        `json:"period"`
	Current        Window        `json:"current"`
	Previous       Window        `json:"previous"`
	Revenue        Delta         `json:"revenue"`
	DeliveredCount Delta         `json:"delivered_count"`
	NewOrders      Delta         `json:"new_orders"`
	ImportCost     Delta         `json:"import_cost"`
	RangeFrom      time.Time     `json:"range_from"`
	RangeTo        time.Time     `json:"range_to"`
	TopSellers     []TopSeller   `json:"top_sellers"`
	RevenueSeries  []SeriesPoint `json:"revenue_series"`
	GeneratedAt    time.Time     `json:"generated_at"`
}
