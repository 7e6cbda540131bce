// Package monitoring exposes the Prometheus metrics for the ordering
// and reservation flow, served on the dedicated metrics port.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated registry so tests can create isolated
// instances without clashing on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	checkoutDuration     *prometheus.HistogramVec
	ordersCreated        *prometheus.CounterVec
	reservationsCreated  prometheus.Counter
	capacityConflicts    prometheus.Counter
	checkoutFailures     *prometheus.CounterVec
	compensatingCancels  prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	checkoutDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Time taken to finalize a checkout",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"fulfillment_type"},
	)

	ordersCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, by fulfillment type",
		},
		[]string{"fulfillment_type"},
	)

	reservationsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservations created through checkout or the booking form",
		},
	)

	capacityConflicts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "capacity_conflicts_total",
			Help: "Booking attempts rejected because the table bucket was full",
		},
	)

	checkoutFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Failed checkout attempts, by error kind",
		},
		[]string{"kind"},
	)

	compensatingCancels := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compensating_cancellations_total",
			Help: "Reservations cancelled because order creation failed afterwards",
		},
	)

	registry.MustRegister(
		checkoutDuration,
		ordersCreated,
		reservationsCreated,
		capacityConflicts,
		checkoutFailures,
		compensatingCancels,
	)

	return &Metrics{
		registry:            registry,
		checkoutDuration:    checkoutDuration,
		ordersCreated:       ordersCreated,
		reservationsCreated: reservationsCreated,
		capacityConflicts:   capacityConflicts,
		checkoutFailures:    checkoutFailures,
		compensatingCancels: compensatingCancels,
	}
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCheckout records the duration of one finalize call.
func (m *Metrics) ObserveCheckout(fulfillmentType string, d time.Duration) {
	m.checkoutDuration.WithLabelValues(fulfillmentType).Observe(d.Seconds())
}

// OrderCreated counts a created order.
func (m *Metrics) OrderCreated(fulfillmentType string) {
	m.ordersCreated.WithLabelValues(fulfillmentType).Inc()
}

// ReservationCreated counts a created reservation.
func (m *Metrics) ReservationCreated() {
	m.reservationsCreated.Inc()
}

// CapacityConflict counts a full-bucket rejection.
func (m *Metrics) CapacityConflict() {
	m.capacityConflicts.Inc()
}

// CheckoutFailed counts a failed finalize by error kind.
func (m *Metrics) CheckoutFailed(kind string) {
	m.checkoutFailures.WithLabelValues(kind).Inc()
}

// CompensatingCancel counts a reservation rolled back after order
// creation failed.
func (m *Metrics) CompensatingCancel() {
	m.compensatingCancels.Inc()
}
