package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation modes used as the mode label.
const (
	ModeJSON   = "json"
	ModeStream = "stream"
)

// Outcomes used as the status label.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusUpstream = "upstream_error"
	StatusAborted  = "aborted"
)

// Recorder reports relay metrics using Prometheus primitives. A nil
// *Recorder records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	fragments   prometheus.Counter
	validations *prometheus.CounterVec
}

// NewRecorder registers the relay collectors on registry, or on a fresh
// registry when nil.
func NewRecorder(registry *prometheus.Registry) (*Recorder, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playground_generate_requests_total",
			Help: "Total number of generate requests by mode and outcome",
		}, []string{"mode", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playground_generate_duration_seconds",
			Help:    "Generate request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playground_stream_fragments_total",
			Help: "Total number of content fragments relayed to stream clients",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "playground_validation_failures_total",
			Help: "Total number of rejected generate requests by reason",
		}, []string{"reason"}),
	}
	for _, collector := range []prometheus.Collector{r.requests, r.durations, r.fragments, r.validations} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveRequest counts one finished generate request.
func (r *Recorder) ObserveRequest(mode, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(mode, status).Inc()
	r.durations.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveFragment counts a relayed stream fragment.
func (r *Recorder) ObserveFragment() {
	if r == nil {
		return
	}
	r.fragments.Inc()
}

// ObserveValidationFailure counts a rejected request.
func (r *Recorder) ObserveValidationFailure(reason string) {
	if r == nil {
		return
	}
	r.validations.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
