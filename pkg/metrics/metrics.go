package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loyalty_rewards"

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight     prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	pointAdjustments *prometheus.CounterVec
	pointsMoved      *prometheus.CounterVec
	qrIssued         *prometheus.CounterVec
	birthdayAwards   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		pointAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "adjustments_total",
			Help:      "Point adjustments by outcome.",
		}, []string{"outcome"}),
		pointsMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_total",
			Help:      "Points credited or debited.",
		}, []string{"direction"}),
		qrIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qr",
			Name:      "issued_total",
			Help:      "Transaction codes issued by capability.",
		}, []string{"capability"}),
		birthdayAwards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "birthday_awards_total",
			Help:      "Birthday bonuses granted.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.pointAdjustments,
		m.pointsMoved,
		m.qrIssued,
		m.birthdayAwards,
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncrementInFlight() { m.httpInFlight.Inc() }
func (m *Metrics) DecrementInFlight() { m.httpInFlight.Dec() }

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAdjustment counts a ledger mutation; outcome is "applied" or "rejected".
func (m *Metrics) RecordAdjustment(delta int64, applied bool) {
	if !applied {
		m.pointAdjustments.WithLabelValues("rejected").Inc()
		return
	}
	m.pointAdjustments.WithLabelValues("applied").Inc()

	switch {
	case delta > 0:
		m.pointsMoved.WithLabelValues("credit").Add(float64(delta))
	case delta < 0:
		m.pointsMoved.WithLabelValues("debit").Add(float64(-delta))
	}
}

func (m *Metrics) RecordQRIssued(capability string) {
	m.qrIssued.WithLabelValues(capability).Inc()
}

func (m *Metrics) RecordBirthdayAward() {
	m.birthdayAwards.Inc()
}
