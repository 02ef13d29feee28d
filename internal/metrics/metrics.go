// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes.
const (
	CheckoutSucceeded = "succeeded"
	CheckoutRejected  = "rejected"
	CheckoutFailed    = "failed"
)

// Metrics groups the service collectors. All methods are safe on a nil receiver.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests         *prometheus.CounterVec
	latencyMS        *prometheus.HistogramVec
	checkouts        *prometheus.CounterVec
	orderValueCents  prometheus.Counter
	stockAdjustments *prometheus.CounterVec
	unitsSold        prometheus.Counter
	outboxEvents     *prometheus.CounterVec
}

// New registers the collectors on reg under namespace.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		orderValueCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_value_cents_total",
			Help:      "Sum of placed order totals in cents.",
		}),
		stockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "adjustments_total",
			Help:      "Applied stock adjustments by change type.",
		}, []string{"change_type"}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "units_sold_total",
			Help:      "Units decremented by checkout.",
		}),
		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox deliveries by event type and result.",
		}, []string{"event_type", "result"}),
	}

	reg.MustRegister(
		m.requests,
		m.latencyMS,
		m.checkouts,
		m.orderValueCents,
		m.stockAdjustments,
		m.unitsSold,
		m.outboxEvents,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latencyMS.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
}

// ObserveCheckout records a checkout outcome. totalCents and units only count on success.
func (m *Metrics) ObserveCheckout(outcome string, totalCents int64, units int) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
	if outcome == CheckoutSucceeded {
		m.orderValueCents.Add(float64(totalCents))
		m.unitsSold.Add(float64(units))
	}
}

// ObserveStockAdjustment records an applied inventory change.
func (m *Metrics) ObserveStockAdjustment(changeType string) {
	if m == nil {
		return
	}
	m.stockAdjustments.WithLabelValues(changeType).Inc()
}

// OutboxPublished records a delivered outbox event.
func (m *Metrics) OutboxPublished(eventType string) {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues(eventType, "published").Inc()
}

// OutboxFailed records a failed outbox delivery.
func (m *Metrics) OutboxFailed(eventType string) {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues(eventType, "failed").Inc()
}
