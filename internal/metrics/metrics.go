// Package metrics holds the Prometheus collectors for analyses, pipeline
// stages, provider calls and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "algolens"

// Registry owns a private Prometheus registry and the collectors on it.
// A nil *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
	ProviderRequests    *prometheus.CounterVec
	ProviderDuration    *prometheus.HistogramVec
	ProviderTokens      *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initPipelineMetrics()
	r.initProviderMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initPipelineMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by static class and verdict",
		},
		[]string{"class", "verdict"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage",
			Buckets:   []float64{.001, .01, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)
}

func (r *Registry) initProviderMetrics() {
	r.ProviderRequests = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Intelligence provider calls by outcome",
		},
		[]string{"provider", "operation", "status"},
	)

	r.ProviderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Intelligence provider call latency including retries",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider", "operation"},
	)

	r.ProviderTokens = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_tokens_total",
			Help:      "Tokens consumed by intelligence providers",
		},
		[]string{"provider", "direction"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) RecordAnalysis(class, verdict string) {
	if r == nil {
		return
	}
	r.AnalysesTotal.WithLabelValues(class, verdict).Inc()
}

func (r *Registry) RecordStage(stage string, duration time.Duration) {
	if r == nil {
		return
	}
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordProviderCall records one logical provider call. status is "ok",
// "error" or "unconfigured".
func (r *Registry) RecordProviderCall(provider, operation, status string, duration time.Duration, inputTokens, outputTokens int) {
	if r == nil {
		return
	}
	r.ProviderRequests.WithLabelValues(provider, operation, status).Inc()
	r.ProviderDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if inputTokens > 0 {
		r.ProviderTokens.WithLabelValues(provider, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		r.ProviderTokens.WithLabelValues(provider, "output").Add(float64(outputTokens))
	}
}

func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
