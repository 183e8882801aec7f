package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tradeledger"

// Metrics exposes expense engine instruments. A nil *Metrics is a no-op.
type Metrics struct {
	invoiceOps        *prometheus.CounterVec
	idempotentReplays prometheus.Counter
	versionConflicts  prometheus.Counter
	writeDuration     *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers the instruments on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invoiceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expense",
			Name:      "invoice_operations_total",
			Help:      "Expense invoice operations by action and outcome.",
		}, []string{"action", "outcome"}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expense",
			Name:      "idempotent_replays_total",
			Help:      "Create requests answered from an existing idempotency key.",
		}),
		versionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expense",
			Name:      "version_conflicts_total",
			Help:      "Mutations rejected by the optimistic version check.",
		}),
		writeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "expense",
			Name:      "write_duration_seconds",
			Help:      "Time spent inside write transactions.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.invoiceOps,
		m.idempotentReplays,
		m.versionConflicts,
		m.writeDuration,
		m.httpRequests,
		m.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) InvoiceOperation(action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.invoiceOps.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}

func (m *Metrics) VersionConflict() {
	if m == nil {
		return
	}
	m.versionConflicts.Inc()
}

func (m *Metrics) ObserveWrite(action string, started time.Time) {
	if m == nil {
		return
	}
	m.writeDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, started time.Time) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}

// GinMiddleware records request counts and latency by matched route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), start)
	}
}
