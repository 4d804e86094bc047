// Package metrics exposes Prometheus collectors for the contest backend.
// All recording methods are safe to call on a nil *Collector.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contest"

type Collector struct {
	ratingsSubmitted *prometheus.CounterVec
	registrations    *prometheus.CounterVec
	syncRuns         *prometheus.CounterVec
	syncDuration     *prometheus.HistogramVec
	participants     prometheus.Gauge
	httpDuration     *prometheus.HistogramVec
}

// New registers the contest collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		ratingsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ratings_submitted_total",
				Help:      "Judge ratings accepted, by participation type.",
			},
			[]string{"type"},
		),
		registrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Participants admitted to the registry, by source.",
			},
			[]string{"source"},
		),
		syncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_runs_total",
				Help:      "Remote synchronisation attempts, by feed and outcome.",
			},
			[]string{"feed", "status"},
		),
		syncDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_duration_seconds",
				Help:      "Duration of remote feed fetches.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		participants: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "participants",
				Help:      "Participants currently held in the registry.",
			},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"},
		),
	}
}

func (c *Collector) RatingSubmitted(participationType string) {
	if c == nil {
		return
	}
	c.ratingsSubmitted.WithLabelValues(participationType).Inc()
}

func (c *Collector) ParticipantsAdmitted(source string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.registrations.WithLabelValues(source).Add(float64(n))
}

func (c *Collector) SyncCompleted(feed string, err error, took time.Duration) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.syncRuns.WithLabelValues(feed, status).Inc()
	c.syncDuration.WithLabelValues(feed).Observe(took.Seconds())
}

func (c *Collector) SetParticipants(n int) {
	if c == nil {
		return
	}
	c.participants.Set(float64(n))
}

// Middleware records request latency labelled with the matched chi route.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
