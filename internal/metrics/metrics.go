package metrics

import (
	"context"
	"math"
	"net/http"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hostctl"

// Metrics owns a private registry with action and telemetry series.
type Metrics struct {
	registry *prometheus.Registry

	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	battery  prometheus.Gauge
	charging prometheus.Gauge
	ticks    prometheus.Counter
	updated  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Dispatched actions by name and outcome kind.",
		}, []string{"action", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent handling an action.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"action"}),
		battery: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_percent",
			Help:      "Battery charge; NaN when unknown.",
		}),
		charging: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_charging",
			Help:      "1 when charging, 0 when discharging, -1 when unknown.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_ticks_total",
			Help:      "Completed telemetry poller ticks.",
		}),
		updated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "telemetry_updated_timestamp_seconds",
			Help:      "Unix time of the last committed snapshot.",
		}),
	}

	m.battery.Set(math.NaN())
	m.charging.Set(-1)

	m.registry.MustRegister(
		m.actions,
		m.duration,
		m.battery,
		m.charging,
		m.ticks,
		m.updated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Observe counts a completed dispatch.
func (m *Metrics) Observe(_ context.Context, req action.Request, res action.Result, elapsed time.Duration) {
	m.actions.WithLabelValues(req.Name, string(res.Kind)).Inc()
	m.duration.WithLabelValues(req.Name).Observe(elapsed.Seconds())
}

// Notify mirrors a committed snapshot into the gauges.
func (m *Metrics) Notify(snap telemetry.Snapshot) {
	m.ticks.Inc()

	if snap.BatteryKnown() {
		m.battery.Set(float64(snap.BatteryPercent))
	} else {
		m.battery.Set(math.NaN())
	}

	switch snap.Charging {
	case telemetry.ChargeCharging:
		m.charging.Set(1)
	case telemetry.ChargeDischarging:
		m.charging.Set(0)
	default:
		m.charging.Set(-1)
	}

	if !snap.UpdatedAt.IsZero() {
		m.updated.Set(float64(snap.UpdatedAt.UnixNano()) / 1e9)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
