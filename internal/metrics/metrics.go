// Package metrics exposes Prometheus instrumentation for the pool service.
// All recording methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	standingsFetches  *prometheus.CounterVec
	standingsDuration prometheus.Histogram
	computations      prometheus.Counter
	unmatchedTeams    prometheus.Gauge
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	lastRefresh       prometheus.Gauge
}

// New registers the collectors with reg. Passing nil uses a fresh registry,
// which keeps tests independent of the global default.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "overs_pool_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "overs_pool_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		standingsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "overs_pool_standings_fetches_total",
			Help: "Standings provider fetches by result (ok, error).",
		}, []string{"result"}),
		standingsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "overs_pool_standings_fetch_duration_seconds",
			Help:    "Histogram of standings fetch durations.",
			Buckets: prometheus.DefBuckets,
		}),
		computations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overs_pool_computations_total",
			Help: "Total pool computations.",
		}),
		unmatchedTeams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overs_pool_unmatched_teams",
			Help: "Prediction rows that found no standing in the latest computation.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overs_pool_cache_hits_total",
			Help: "Total cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overs_pool_cache_misses_total",
			Help: "Total cache misses observed.",
		}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "overs_pool_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful pool computation.",
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.standingsFetches,
		m.standingsDuration,
		m.computations,
		m.unmatchedTeams,
		m.cacheHits,
		m.cacheMisses,
		m.lastRefresh,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// StandingsFetch records one provider fetch.
func (m *Metrics) StandingsFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.standingsDuration.Observe(d.Seconds())
	if err != nil {
		m.standingsFetches.WithLabelValues("error").Inc()
		return
	}
	m.standingsFetches.WithLabelValues("ok").Inc()
}

// Computed records a finished pool computation.
func (m *Metrics) Computed(at time.Time, unmatched int) {
	if m == nil {
		return
	}
	m.computations.Inc()
	m.unmatchedTeams.Set(float64(unmatched))
	m.lastRefresh.Set(float64(at.Unix()))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
