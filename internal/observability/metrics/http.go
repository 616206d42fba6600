package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchTotal         *prometheus.CounterVec
	searchDuration      *prometheus.HistogramVec
	searchRetainedFiles *prometheus.HistogramVec
	searchDegradedTotal *prometheus.CounterVec

	chatIntentTotal     *prometheus.CounterVec
	chatContextPassages *prometheus.HistogramVec
	chatNoContextTotal  *prometheus.CounterVec
	chatDuration        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalassist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalassist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "legalassist",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalassist",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total completed clause searches.",
		},
		[]string{"service"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalassist",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Clause search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	searchRetainedFiles := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalassist",
			Subsystem: "search",
			Name:      "retained_files",
			Help:      "Distribution of document groups retained per search.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"service"},
	)
	searchDegradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalassist",
			Subsystem: "search",
			Name:      "degraded_total",
			Help:      "Total searches answered with empty results after a retrieval outage.",
		},
		[]string{"service"},
	)
	chatIntentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalassist",
			Subsystem: "chat",
			Name:      "intent_total",
			Help:      "Total chat turns by detected intent.",
		},
		[]string{"service", "intent"},
	)
	chatContextPassages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalassist",
			Subsystem: "chat",
			Name:      "context_passages",
			Help:      "Distribution of passages assembled into the chat context.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 12},
		},
		[]string{"service"},
	)
	chatNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legalassist",
			Subsystem: "chat",
			Name:      "no_context_total",
			Help:      "Total document-question turns answered without retrieved context.",
		},
		[]string{"service"},
	)
	chatDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legalassist",
			Subsystem: "chat",
			Name:      "duration_seconds",
			Help:      "Chat turn duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		searchTotal,
		searchDuration,
		searchRetainedFiles,
		searchDegradedTotal,
		chatIntentTotal,
		chatContextPassages,
		chatNoContextTotal,
		chatDuration,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		searchTotal:         searchTotal,
		searchDuration:      searchDuration,
		searchRetainedFiles: searchRetainedFiles,
		searchDegradedTotal: searchDegradedTotal,
		chatIntentTotal:     chatIntentTotal,
		chatContextPassages: chatContextPassages,
		chatNoContextTotal:  chatNoContextTotal,
		chatDuration:        chatDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSearch(service string, retainedFiles int, degraded bool, duration time.Duration) {
	m.searchTotal.WithLabelValues(service).Inc()
	m.searchRetainedFiles.WithLabelValues(service).Observe(float64(retainedFiles))
	m.searchDuration.WithLabelValues(service).Observe(duration.Seconds())
	if degraded {
		m.searchDegradedTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordChatTurn(service, intent string, contextPassages int, duration time.Duration) {
	if intent == "" {
		intent = "unknown"
	}
	m.chatIntentTotal.WithLabelValues(service, intent).Inc()
	m.chatDuration.WithLabelValues(service).Observe(duration.Seconds())

	if intent != "rag" {
		return
	}
	m.chatContextPassages.WithLabelValues(service).Observe(float64(contextPassages))
	if contextPassages == 0 {
		m.chatNoContextTotal.WithLabelValues(service).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
