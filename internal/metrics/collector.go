// Package metrics exposes turn-handling metrics on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Race winners.
const (
	WinnerPipeline = "pipeline"
	WinnerDeadline = "deadline"
)

// Delivery paths of a late result.
const (
	DeliveryPush     = "push"
	DeliveryPending  = "pending"
	DeliveryOverride = "override"
	DeliveryDropped  = "dropped"
)

// Collector records gateway metrics. All methods are safe on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	turnsTotal        *prometheus.CounterVec
	raceWinsTotal     *prometheus.CounterVec
	pipelineDuration  prometheus.Histogram
	actionCallsTotal  *prometheus.CounterVec
	tokenRefreshTotal *prometheus.CounterVec
	duplicatesTotal   prometheus.Counter
	lockContention    prometheus.Counter
	deliveriesTotal   *prometheus.CounterVec
	decisionsTotal    *prometheus.CounterVec
	autoResolvedTotal *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, plus Go and process collectors.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		turnsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Inbound chat events by handler and outcome",
		}, []string{"handler", "outcome"}),
		raceWinsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_wins_total",
			Help:      "Whether the pipeline or the response deadline finished first",
		}, []string{"winner"}),
		pipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time from pipeline start to result",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 6, 10, 20, 40},
		}),
		actionCallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_calls_total",
			Help:      "Tenant API calls by outcome",
		}, []string{"outcome"}),
		tokenRefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Tenant token refreshes by outcome",
		}, []string{"outcome"}),
		duplicatesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_events_total",
			Help:      "Redelivered events dropped by deduplication",
		}),
		lockContention: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_contention_total",
			Help:      "Messages rejected because the conversation was busy",
		}),
		deliveriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_deliveries_total",
			Help:      "Delivery path taken by results that missed the deadline",
		}, []string{"path"}),
		decisionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Pipeline outcomes by policy branch",
		}, []string{"branch"}),
		autoResolvedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_resolutions_total",
			Help:      "Parameter auto-resolution attempts by outcome",
		}, []string{"outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) Turn(handler, outcome string) {
	if c == nil {
		return
	}
	c.turnsTotal.WithLabelValues(handler, outcome).Inc()
}

func (c *Collector) RaceWon(winner string) {
	if c == nil {
		return
	}
	c.raceWinsTotal.WithLabelValues(winner).Inc()
}

func (c *Collector) PipelineFinished(d time.Duration) {
	if c == nil {
		return
	}
	c.pipelineDuration.Observe(d.Seconds())
}

func (c *Collector) ActionCall(outcome string) {
	if c == nil {
		return
	}
	c.actionCallsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) TokenRefresh(outcome string) {
	if c == nil {
		return
	}
	c.tokenRefreshTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) DuplicateDropped() {
	if c == nil {
		return
	}
	c.duplicatesTotal.Inc()
}

func (c *Collector) LockContended() {
	if c == nil {
		return
	}
	c.lockContention.Inc()
}

func (c *Collector) LateDelivery(path string) {
	if c == nil {
		return
	}
	c.deliveriesTotal.WithLabelValues(path).Inc()
}

func (c *Collector) Decision(branch string) {
	if c == nil {
		return
	}
	c.decisionsTotal.WithLabelValues(branch).Inc()
}

func (c *Collector) AutoResolution(outcome string) {
	if c == nil {
		return
	}
	c.autoResolvedTotal.WithLabelValues(outcome).Inc()
}
