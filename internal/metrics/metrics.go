// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "batterymon"

// Metrics groups the collectors updated by the dashboard controller.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	level      prometheus.Gauge
	autoUpdate prometheus.Gauge
	readings   *prometheus.CounterVec
	fallbacks  prometheus.Counter
	sinkErrors *prometheus.CounterVec
	cycle      prometheus.Histogram
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		level: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "level_percent",
			Help:      "Most recent battery level.",
		}),
		autoUpdate: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "auto_update_enabled",
			Help:      "1 while the auto-update timer is running.",
		}),
		readings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Readings pushed into the history, by band and source.",
		}, []string{"band", "source"}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_fallbacks_total",
			Help:      "Cycles where telemetry failed and the random walk was used.",
		}),
		sinkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed publishes, by sink.",
		}, []string{"sink"}),
		cycle: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time taken by one generate/classify/update cycle.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 3, 10},
		}),
	}
}

// ObserveReading records a reading that reached the history
func (m *Metrics) ObserveReading(level int, band, source string) {
	if m == nil {
		return
	}
	m.level.Set(float64(level))
	m.readings.WithLabelValues(band, source).Inc()
}

// ObserveFallback counts a telemetry failure
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// ObserveSinkError counts a failed publish
func (m *Metrics) ObserveSinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// ObserveCycle records how long a cycle took
func (m *Metrics) ObserveCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.cycle.Observe(d.Seconds())
}

// SetAutoUpdate mirrors the timer state
func (m *Metrics) SetAutoUpdate(on bool) {
	if m == nil {
		return
	}
	if on {
		m.autoUpdate.Set(1)
	} else {
		m.autoUpdate.Set(0)
	}
}
