// Package metrics provides Prometheus metrics for the NBA MCP server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric the server records.
type Manager struct {
	registry *prometheus.Registry

	// Tool surface
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec

	// Upstream provider
	providerRequests *prometheus.CounterVec
	providerLatency  prometheus.Histogram
	providerRetries  prometheus.Counter

	// Lineup-shift engine
	gamesExtracted prometheus.Counter
	gameErrors     prometheus.Counter
	shiftsEmitted  prometheus.Counter
}

// New builds a Manager with its own registry.
func New(namespace string) *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool name and status.",
		}, []string{"tool", "status"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "MCP tool handler duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Upstream stats provider requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
		providerLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Upstream stats provider request latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		providerRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_retries_total",
			Help:      "Retried upstream requests after transient failures.",
		}),
		gamesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shift_games_extracted_total",
			Help:      "Candidate games scanned by the shift engine.",
		}),
		gameErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shift_game_errors_total",
			Help:      "Candidate games skipped due to per-game errors.",
		}),
		shiftsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_emitted_total",
			Help:      "Matching lineup shifts emitted across all requests.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordToolCall records one tool invocation.
func (m *Manager) RecordToolCall(tool, status string, d time.Duration) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// RecordProviderRequest records one upstream request.
func (m *Manager) RecordProviderRequest(endpoint, status string, d time.Duration) {
	m.providerRequests.WithLabelValues(endpoint, status).Inc()
	m.providerLatency.Observe(d.Seconds())
}

// RecordProviderRetry counts a retry attempt after a transient failure.
func (m *Manager) RecordProviderRetry() {
	m.providerRetries.Inc()
}

// RecordGameExtracted counts a candidate game scanned by the shift engine.
func (m *Manager) RecordGameExtracted() {
	m.gamesExtracted.Inc()
}

// RecordGameError counts a candidate game skipped after an error.
func (m *Manager) RecordGameError() {
	m.gameErrors.Inc()
}

// RecordShifts counts emitted shifts.
func (m *Manager) RecordShifts(n int) {
	m.shiftsEmitted.Add(float64(n))
}
