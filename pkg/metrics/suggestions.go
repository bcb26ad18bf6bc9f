package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK        = "ok"
	OutcomeCached    = "cached"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
	OutcomeStale     = "stale"
	OutcomeBadFormat = "bad_format"
)

// SuggestionMetrics records generation cycles of the suggestion loop.
type SuggestionMetrics struct {
	duration    *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
	external    *prometheus.CounterVec
}

// NewSuggestionMetrics registers the suggestion metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewSuggestionMetrics(reg prometheus.Registerer) *SuggestionMetrics {
	if reg == nil {
		return &SuggestionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gifty_generation_duration_seconds",
		Help:    "Duration of text generation calls in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"provider", "flow"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gifty_suggestion_cycles_total",
		Help: "Suggestion cycles by outcome.",
	}, []string{"provider", "flow", "outcome"})
	parseErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gifty_parse_failures_total",
		Help: "Generator replies rejected by the parser.",
	}, []string{"flow", "kind"})
	external := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gifty_external_calls_total",
		Help: "Calls to third-party APIs by outcome.",
	}, []string{"service", "outcome"})
	reg.MustRegister(duration, outcomes, parseErrors, external)
	return &SuggestionMetrics{
		duration:    duration,
		outcomes:    outcomes,
		parseErrors: parseErrors,
		external:    external,
	}
}

func (m *SuggestionMetrics) ObserveGeneration(provider, flow string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(provider), normalizeLabel(flow)).Observe(d.Seconds())
}

func (m *SuggestionMetrics) IncOutcome(provider, flow, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(provider), normalizeLabel(flow), normalizeLabel(outcome)).Inc()
}

func (m *SuggestionMetrics) IncParseFailure(flow, kind string) {
	if m == nil || m.parseErrors == nil {
		return
	}
	m.parseErrors.WithLabelValues(normalizeLabel(flow), normalizeLabel(kind)).Inc()
}

func (m *SuggestionMetrics) IncExternal(service string, err error) {
	if m == nil || m.external == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.external.WithLabelValues(normalizeLabel(service), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
