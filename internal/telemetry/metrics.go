package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orderbridge/shipping/pkg/carrier"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ShipmentsTotal   *prometheus.CounterVec
	ShipmentDuration *prometheus.HistogramVec
	CarrierErrors    *prometheus.CounterVec
	CarrierRetries   *prometheus.CounterVec
	AlertsTotal      *prometheus.CounterVec
}

// NewMetrics creates Prometheus metrics registered against the default
// registry.
func NewMetrics() *Metrics {
	return NewMetricsFor(prometheus.DefaultRegisterer)
}

// NewMetricsFor creates Prometheus metrics registered against reg. Tests
// pass a fresh registry so parallel packages do not collide.
func NewMetricsFor(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ShipmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_shipments_total",
				Help: "Total number of shipment workflow runs by carrier and outcome",
			},
			[]string{"carrier", "outcome"},
		),
		ShipmentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipping_shipment_duration_seconds",
				Help:    "Shipment workflow duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
		CarrierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_carrier_errors_total",
				Help: "Total carrier API errors by carrier and error kind",
			},
			[]string{"carrier", "kind"},
		),
		CarrierRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_carrier_retries_total",
				Help: "Total retried carrier calls by carrier and operation",
			},
			[]string{"carrier", "operation"},
		),
		AlertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_operator_alerts_total",
				Help: "Total operator alerts sent by reason",
			},
			[]string{"reason"},
		),
	}
}

// RecordShipment records one completed workflow run.
func (m *Metrics) RecordShipment(carrier, outcome string, duration time.Duration) {
	m.ShipmentsTotal.WithLabelValues(carrier, outcome).Inc()
	m.ShipmentDuration.WithLabelValues(carrier).Observe(duration.Seconds())
}

// RecordError records a carrier error metric.
func (m *Metrics) RecordError(carrier, kind string) {
	m.CarrierErrors.WithLabelValues(carrier, kind).Inc()
}

// RecordAlert records an operator alert.
func (m *Metrics) RecordAlert(reason string) {
	m.AlertsTotal.WithLabelValues(reason).Inc()
}

// ErrorKind maps a workflow error to the metric label for its failure
// class.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, carrier.ErrAuth):
		return "auth"
	case errors.Is(err, carrier.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, carrier.ErrBadRequest):
		return "bad_request"
	case errors.Is(err, carrier.ErrNoRatesAvailable):
		return "no_rates"
	case errors.Is(err, carrier.ErrMissingTracking):
		return "missing_tracking"
	default:
		return "other"
	}
}
