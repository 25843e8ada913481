// Package prom exports intersection controller events as Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-intersection/intersection"
)

// Metrics implements intersection.Observer on top of Prometheus collectors.
// Register it with a prometheus.Registerer before use.
type Metrics struct {
	arrivals  *prometheus.CounterVec
	blocked   *prometheus.CounterVec
	admitted  *prometheus.CounterVec
	departed  *prometheus.CounterVec
	residents prometheus.Gauge
	waitSecs  prometheus.Histogram
	attempts  prometheus.Histogram
}

// New returns Metrics whose metric names are prefixed with namespace.
func New(namespace string) *Metrics {
	route := []string{"origin", "destination"}
	return &Metrics{
		arrivals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "arrivals_total",
			Help: "Vehicles that called Enter.",
		}, route),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "blocked_total",
			Help: "Admission attempts that had to wait.",
		}, route),
		admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "admitted_total",
			Help: "Vehicles admitted into the intersection.",
		}, route),
		departed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "departed_total",
			Help: "Vehicles that left the intersection.",
		}, route),
		residents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "residents",
			Help: "Vehicles currently inside the intersection.",
		}),
		waitSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "admission_wait_seconds",
			Help:    "Time from Enter to admission.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "intersection", Name: "admission_attempts",
			Help:    "Admission checks needed per vehicle.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.arrivals, m.blocked, m.admitted, m.departed, m.residents, m.waitSecs, m.attempts}
}

func labels(r intersection.Route) prometheus.Labels {
	return prometheus.Labels{"origin": r.Origin.String(), "destination": r.Destination.String()}
}

// VehicleArrived counts an Enter call.
func (m *Metrics) VehicleArrived(r intersection.Route) {
	m.arrivals.With(labels(r)).Inc()
}

// VehicleBlocked counts a failed admission attempt.
func (m *Metrics) VehicleBlocked(r intersection.Route, _ intersection.Route) {
	m.blocked.With(labels(r)).Inc()
}

// VehicleAdmitted records the admission and how long it took.
func (m *Metrics) VehicleAdmitted(r intersection.Route, wait time.Duration, attempts int) {
	m.admitted.With(labels(r)).Inc()
	m.residents.Inc()
	m.waitSecs.Observe(wait.Seconds())
	m.attempts.Observe(float64(attempts))
}

// VehicleLeft records a departure and the remaining occupancy.
func (m *Metrics) VehicleLeft(r intersection.Route, residents int) {
	m.departed.With(labels(r)).Inc()
	m.residents.Set(float64(residents))
}
