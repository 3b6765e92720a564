// Package metrics records pipeline and HTTP activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "dailybit"

// Recorder owns a private registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	ingestTotal    *prometheus.CounterVec
	ingestChunks   *prometheus.CounterVec
	searchTotal    *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchFound    *prometheus.HistogramVec
	answerTotal    *prometheus.CounterVec
	answerDuration *prometheus.HistogramVec
	httpTotal      *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates a recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ingestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_documents_total",
				Help:      "Documents ingested, by partition and status.",
			},
			[]string{"partition", "status"},
		),
		ingestChunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_chunks_total",
				Help:      "Chunks written to the vector store.",
			},
			[]string{"partition"},
		),
		searchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_requests_total",
				Help:      "Retrievals, by partition and whether they were successful.",
			},
			[]string{"partition", "successful"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Retrieval latency including query embedding.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"partition"},
		),
		searchFound: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_chunks_found",
				Help:      "Chunks returned per retrieval.",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
			[]string{"partition"},
		),
		answerTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Answers, by outcome (grounded, fallback, failed).",
			},
			[]string{"outcome"},
		),
		answerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "answer_duration_seconds",
				Help:      "End-to-end answer latency.",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests, by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ingestTotal,
		r.ingestChunks,
		r.searchTotal,
		r.searchDuration,
		r.searchFound,
		r.answerTotal,
		r.answerDuration,
		r.httpTotal,
		r.httpDuration,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the exposition format for /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveIngest records one document ingestion.
func (r *Recorder) ObserveIngest(partition domain.Partition, chunks int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ingestTotal.WithLabelValues(partition.String(), status).Inc()
	if chunks > 0 {
		r.ingestChunks.WithLabelValues(partition.String()).Add(float64(chunks))
	}
}

// ObserveSearch records one retrieval.
func (r *Recorder) ObserveSearch(partition domain.Partition, found int, successful bool, elapsed time.Duration) {
	p := partition.String()
	r.searchTotal.WithLabelValues(p, strconv.FormatBool(successful)).Inc()
	r.searchDuration.WithLabelValues(p).Observe(elapsed.Seconds())
	r.searchFound.WithLabelValues(p).Observe(float64(found))
}

// ObserveAnswer records one answer with its outcome.
func (r *Recorder) ObserveAnswer(outcome string, elapsed time.Duration) {
	r.answerTotal.WithLabelValues(outcome).Inc()
	r.answerDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request. Route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
