// Package metrics exposes engine and HTTP counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a registry and the collectors registered on it. It satisfies
// the engine observer interface.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry
	buckets   []float64

	mutationsApplied    *prometheus.CounterVec
	mutationsRolledBack *prometheus.CounterVec
	ghostsMinted        prometheus.Counter
	ghostsResolved      prometheus.Counter
	ghostEventsResolved prometheus.Counter
	playersDropped      prometheus.Counter
	reconcileRuns       prometheus.Counter
	reconcileMatches    *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "footics",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r.initialize()
	return r
}

func (r *Recorder) initialize() {
	auto := promauto.With(r.registry)

	r.mutationsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "mutations_applied_total",
		Help:      "Lineup mutations persisted, by operation.",
	}, []string{"op"})
	r.mutationsRolledBack = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "mutations_rolled_back_total",
		Help:      "Lineup mutations restored after a failed write, by operation.",
	}, []string{"op"})
	r.ghostsMinted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "ghosts_minted_total",
		Help:      "Ghost tokens minted for unidentified substituted players.",
	})
	r.ghostsResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "ghosts_resolved_total",
		Help:      "Ghost tokens bound to a real player.",
	})
	r.ghostEventsResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "ghost_events_resolved_total",
		Help:      "Events rewritten by ghost resolution.",
	})
	r.playersDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "engine",
		Name:      "formation_players_dropped_total",
		Help:      "Players left without a slot by a formation change.",
	})
	r.reconcileRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "reconcile",
		Name:      "runs_total",
		Help:      "Completed reconcile runs.",
	})
	r.reconcileMatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "reconcile",
		Name:      "matches_total",
		Help:      "Matches visited by reconcile, by outcome.",
	}, []string{"outcome"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by route, method and status code.",
	}, []string{"route", "method", "code"})
	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route and method.",
		Buckets:   r.buckets,
	}, []string{"route", "method"})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) MutationApplied(op string) {
	r.mutationsApplied.WithLabelValues(op).Inc()
}

func (r *Recorder) MutationRolledBack(op string) {
	r.mutationsRolledBack.WithLabelValues(op).Inc()
}

func (r *Recorder) GhostMinted() {
	r.ghostsMinted.Inc()
}

func (r *Recorder) GhostResolved(events int) {
	r.ghostsResolved.Inc()
	r.ghostEventsResolved.Add(float64(events))
}

func (r *Recorder) PlayersDropped(count int) {
	if count > 0 {
		r.playersDropped.Add(float64(count))
	}
}

func (r *Recorder) ReconcileFinished(matches, changed, failed int) {
	r.reconcileRuns.Inc()
	r.reconcileMatches.WithLabelValues("changed").Add(float64(changed))
	r.reconcileMatches.WithLabelValues("failed").Add(float64(failed))
	r.reconcileMatches.WithLabelValues("unchanged").Add(float64(max(matches-changed-failed, 0)))
}

// ObserveHTTP records one finished request. Route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
