package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives settlement measurements. Services depend on this rather
// than on prometheus so tests can pass NopRecorder.
type Recorder interface {
	WagerSettled(outcome string)
	WagerSkipped(reason string)
	SettlementError(stage string)
	FeedMessage(status string)
	ObserveRun(kind string, d time.Duration)
}

// SettlementMetrics is the prometheus-backed Recorder
type SettlementMetrics struct {
	settled  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	feed     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSettlementMetrics creates the collectors and registers them on reg.
// Passing nil registers on the default registry.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &SettlementMetrics{
		settled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_wagers_settled_total",
			Help: "wagers moved to a terminal state, by outcome",
		}, []string{"outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_wagers_skipped_total",
			Help: "wagers left open for manual review, by reason",
		}, []string{"reason"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_errors_total",
			Help: "settlement failures by stage",
		}, []string{"stage"}),
		feed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_feed_messages_total",
			Help: "result feed messages by processing status",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settlement_run_duration_seconds",
			Help:    "duration of settlement runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	reg.MustRegister(m.settled, m.skipped, m.errors, m.feed, m.duration)
	return m
}

func (m *SettlementMetrics) WagerSettled(outcome string) {
	m.settled.WithLabelValues(outcome).Inc()
}

func (m *SettlementMetrics) WagerSkipped(reason string) {
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *SettlementMetrics) SettlementError(stage string) {
	m.errors.WithLabelValues(stage).Inc()
}

func (m *SettlementMetrics) FeedMessage(status string) {
	m.feed.WithLabelValues(status).Inc()
}

func (m *SettlementMetrics) ObserveRun(kind string, d time.Duration) {
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) WagerSettled(string) {}
func (NopRecorder) WagerSkipped(string) {}
func (NopRecorder) SettlementError(string) {}
func (NopRecorder) FeedMessage(string) {}
func (NopRecorder) ObserveRun(string, time.Duration) {}
