package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Lafiorentina/siteweb/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fiorentina", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fiorentina", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fiorentina", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fiorentina", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	ContentFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fiorentina", Name: "content_fetches_total", Help: "Section content fetches."},
		[]string{"section", "outcome"}, // outcome: ok|error|discarded
	)
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fiorentina", Name: "form_submissions_total", Help: "Form submissions by final state."},
		[]string{"form", "state"},
	)
	LimiterEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fiorentina", Name: "limiter_events_total", Help: "Submission limiter decisions."},
		[]string{"backend", "event"}, // event: allow|deny|error
	)
)

// Serve exposes reg on addr/metrics in the background and returns the server for shutdown.
// An empty addr disables it and returns nil.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, ContentFetches, FormSubmissions, LimiterEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveFetch(section, outcome string) {
	ContentFetches.WithLabelValues(section, outcome).Inc()
}

func ObserveSubmission(form, state string) {
	FormSubmissions.WithLabelValues(form, state).Inc()
}

func ObserveLimiter(backend, event string) { // event: allow|deny|error
	LimiterEvents.WithLabelValues(backend, event).Inc()
}

type errLabel struct {
	err   error
	label string
}

var (
	labelsMu  sync.RWMutex
	errLabels []errLabel
)

// RegisterErrLabel makes LabelErr report label for any error matching target (errors.Is).
// Adapters register their sentinels at init.
func RegisterErrLabel(target error, label string) {
	labelsMu.Lock()
	errLabels = append(errLabels, errLabel{err: target, label: label})
	labelsMu.Unlock()
}

// LabelErr classifies err for log fields and metric labels.
func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	switch {
	case errors.Is(err, domain.ErrNoDocument):
		return "no_document"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	labelsMu.RLock()
	for _, l := range errLabels {
		if errors.Is(err, l.err) {
			labelsMu.RUnlock()
			return l.label
		}
	}
	labelsMu.RUnlock()
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return "timeout"
		}
		return "network"
	}
	return "other"
}
