package metrics

import (
	"net/http"
	"time"

	"github.com/jengzang/trackmap-go/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the processing metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	reg *prometheus.Registry

	DaysProcessed  prometheus.Counter
	FixesProcessed prometheus.Counter
	Events         *prometheus.CounterVec // kind label: movement|disruption|stop
	KmPosts        prometheus.Counter
	SpeedRuns      prometheus.Counter
	RunsFailed     prometheus.Counter

	RunDuration prometheus.Histogram
	LastRunDays prometheus.Gauge
}

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		DaysProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackmap_days_processed_total",
			Help: "Total days classified.",
		}),
		FixesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackmap_fixes_processed_total",
			Help: "Total GPS fixes consumed by the engine.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackmap_events_total",
			Help: "Classified events by kind.",
		}, []string{"kind"}),
		KmPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackmap_km_posts_total",
			Help: "Total kilometer posts placed.",
		}),
		SpeedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackmap_speed_runs_total",
			Help: "Total speed runs extracted.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackmap_runs_failed_total",
			Help: "Total processing runs that returned an error.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackmap_run_duration_seconds",
			Help:    "Duration of a full processing run.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		LastRunDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trackmap_last_run_days",
			Help: "Number of days in the most recent run.",
		}),
	}

	reg.MustRegister(
		c.DaysProcessed,
		c.FixesProcessed,
		c.Events,
		c.KmPosts,
		c.SpeedRuns,
		c.RunsFailed,
		c.RunDuration,
		c.LastRunDays,
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// ObserveDay records one processed day
func (c *Collector) ObserveDay(r models.DayResult) {
	if c == nil {
		return
	}
	c.DaysProcessed.Inc()
	c.FixesProcessed.Add(float64(len(r.Day.Fixes)))
	for _, e := range r.Events {
		c.Events.WithLabelValues(string(e.Kind)).Inc()
	}
	c.KmPosts.Add(float64(len(r.KmPosts)))
	c.SpeedRuns.Add(float64(len(r.SpeedRuns)))
}

// ObserveRun records a finished run
func (c *Collector) ObserveRun(days int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.RunDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.RunsFailed.Inc()
		return
	}
	c.LastRunDays.Set(float64(days))
}
