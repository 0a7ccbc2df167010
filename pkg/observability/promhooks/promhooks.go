// Package promhooks implements the observability hooks with Prometheus
// metrics.
//
//	reg := promhooks.NewRegistry()
//	observability.SetBatchHooks(reg)
//	observability.SetStoreHooks(reg)
//	observability.SetHTTPHooks(reg)
//	mux.Handle("/metrics", reg.Handler())
package promhooks

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imfine/texwire/pkg/observability"
)

const namespace = "texwire"

// Registry holds the texwire metrics and implements every hook interface.
type Registry struct {
	registry *prometheus.Registry

	BatchesTotal    *prometheus.CounterVec
	BatchDuration   *prometheus.HistogramVec
	BatchNodes      *prometheus.CounterVec
	BatchesInFlight prometheus.Gauge
	StoreOpsTotal   *prometheus.CounterVec
	StoreWriteBytes *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	HTTPInFlight    prometheus.Gauge
}

var (
	_ observability.BatchHooks = (*Registry)(nil)
	_ observability.StoreHooks = (*Registry)(nil)
	_ observability.HTTPHooks  = (*Registry)(nil)
)

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Registry{
		registry: reg,
		BatchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Total number of graph edit batches",
			},
			[]string{"batch", "status"},
		),
		BatchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Graph edit batch latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"batch"},
		),
		BatchNodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_created_total",
				Help:      "Nodes or files created by committed batches",
			},
			[]string{"batch"},
		),
		BatchesInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batches_in_flight",
				Help:      "Current number of running batches",
			},
		),
		StoreOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Graph store operations by backend and result",
			},
			[]string{"backend", "op"},
		),
		StoreWriteBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_write_bytes",
				Help:      "Size of stored graph documents in bytes",
				Buckets:   []float64{512, 4096, 32768, 262144, 2097152},
			},
			[]string{"backend"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Install registers r as the process-wide batch, store and HTTP hooks.
func (r *Registry) Install() {
	observability.SetBatchHooks(r)
	observability.SetStoreHooks(r)
	observability.SetHTTPHooks(r)
}

func (r *Registry) OnBatchStart(context.Context, string, string, int) {
	r.BatchesInFlight.Inc()
}

func (r *Registry) OnBatchComplete(_ context.Context, batch, _ string, created int, d time.Duration, err error) {
	r.BatchesInFlight.Dec()
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.BatchesTotal.WithLabelValues(batch, status).Inc()
	r.BatchDuration.WithLabelValues(batch).Observe(d.Seconds())
	if err == nil {
		r.BatchNodes.WithLabelValues(batch).Add(float64(created))
	}
}

func (r *Registry) OnGraphLoad(_ context.Context, backend string) {
	r.StoreOpsTotal.WithLabelValues(backend, "load").Inc()
}

func (r *Registry) OnGraphMiss(_ context.Context, backend string) {
	r.StoreOpsTotal.WithLabelValues(backend, "miss").Inc()
}

func (r *Registry) OnGraphSave(_ context.Context, backend string, size int) {
	r.StoreOpsTotal.WithLabelValues(backend, "save").Inc()
	r.StoreWriteBytes.WithLabelValues(backend).Observe(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPInFlight.Dec()
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
