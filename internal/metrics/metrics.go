// Package metrics holds the Prometheus collectors for outbound Swit API calls
// and OAuth token operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Token operation names used as the "operation" label.
const (
	OperationExchange = "exchange"
	OperationRefresh  = "refresh"
	OperationLogout   = "logout"
)

// Recorder records API and token metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	tokenOperations *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors on a fresh registry.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry, registry)
}

// NewWithRegistry creates a Recorder registering on reg and serving from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Recorder, error) {
	r := &Recorder{
		gatherer: gatherer,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swit_api_requests_total",
			Help: "Total number of Swit API requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swit_api_request_duration_seconds",
			Help:    "Latency of Swit API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		tokenOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swit_oauth_token_operations_total",
			Help: "OAuth token operations by operation and result",
		}, []string{"operation", "result"}), // result: success|failure
	}

	for _, c := range []prometheus.Collector{r.apiRequests, r.apiDuration, r.tokenOperations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObserveAPIRequest records one API call. status is the HTTP status code, or 0
// when no response was received.
func (r *Recorder) ObserveAPIRequest(endpoint string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.apiRequests.WithLabelValues(endpoint, label).Inc()
	r.apiDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveTokenOperation records the outcome of an exchange, refresh or logout.
func (r *Recorder) ObserveTokenOperation(operation string, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.tokenOperations.WithLabelValues(operation, result).Inc()
}

// Handler returns the /metrics HTTP handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
