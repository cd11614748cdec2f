package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderramin/debot/internal/llm"
)

// Metrics holds all Prometheus metrics for DEbot
type Metrics struct {
	// Conversation metrics
	MessagesTotal   *prometheus.CounterVec
	MessageDuration *prometheus.HistogramVec

	// Recommendation metrics
	RecommendationsTotal *prometheus.CounterVec
	ExternalFailures     *prometheus.CounterVec

	// LLM metrics
	LLMRequests *prometheus.CounterVec
	LLMLatency  *prometheus.HistogramVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics. Every call returns
// the same instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			MessagesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "debot_messages_total",
					Help: "Total number of user messages handled, by reply branch",
				},
				[]string{"branch"},
			),
			MessageDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "debot_message_duration_seconds",
					Help:    "Time to handle one user message in seconds",
					Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
				},
				[]string{"branch"},
			),
			RecommendationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "debot_recommendations_total",
					Help: "Total number of lessons recommended, by module",
				},
				[]string{"module"},
			),
			ExternalFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "debot_external_failures_total",
					Help: "Total number of failed external service calls",
				},
				[]string{"service"},
			),
			LLMRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "debot_llm_requests_total",
					Help: "Total number of LLM API requests",
				},
				[]string{"task", "model", "success"},
			),
			LLMLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "debot_llm_request_duration_seconds",
					Help:    "Duration of LLM API requests in seconds",
					Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
				},
				[]string{"task", "model"},
			),
		}
	})
	return sharedMetrics
}

// RecordMessage records one handled message and how long it took
func (m *Metrics) RecordMessage(branch string, elapsed time.Duration) {
	m.MessagesTotal.WithLabelValues(branch).Inc()
	m.MessageDuration.WithLabelValues(branch).Observe(elapsed.Seconds())
}

// RecordRecommendation records a lesson recommended from a module
func (m *Metrics) RecordRecommendation(moduleIndex int) {
	m.RecommendationsTotal.WithLabelValues(strconv.Itoa(moduleIndex)).Inc()
}

// RecordFailure records a failed call to an external service
func (m *Metrics) RecordFailure(service string) {
	m.ExternalFailures.WithLabelValues(service).Inc()
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(event llm.LLMCallEvent) {
	m.LLMRequests.WithLabelValues(string(event.Task), event.Model, strconv.FormatBool(event.Success)).Inc()
	m.LLMLatency.WithLabelValues(string(event.Task), event.Model).Observe(float64(event.LatencyMs) / 1000.0)
}
