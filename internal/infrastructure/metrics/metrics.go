package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics gom các collector của checkout service
// Mọi method đều nil-safe để service/test không cần registry
type Metrics struct {
	UpstreamDuration *prometheus.HistogramVec
	Submissions      *prometheus.CounterVec
	BookkeepingCalls *prometheus.CounterVec
	CouponRejections *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

const namespace = "storefront_checkout"

// New tạo và register collectors vào reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the storefront REST API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Checkout submissions by outcome.",
		}, []string{"outcome"}),
		BookkeepingCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookkeeping_calls_total",
			Help:      "Post-order bookkeeping calls by step and result.",
		}, []string{"step", "result"}),
		CouponRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_rejections_total",
			Help:      "Coupon codes rejected by the client-side validator.",
		}, []string{"code"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.UpstreamDuration,
		m.Submissions,
		m.BookkeepingCalls,
		m.CouponRejections,
		m.HTTPRequests,
	)
	return m
}

func (m *Metrics) ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamDuration.WithLabelValues(endpoint, label).Observe(elapsed.Seconds())
}

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncBookkeeping(step string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.BookkeepingCalls.WithLabelValues(step, result).Inc()
}

func (m *Metrics) IncCouponRejection(code string) {
	if m == nil {
		return
	}
	m.CouponRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) IncHTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
