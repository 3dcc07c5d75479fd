package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSettlementMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSettlementMetrics(reg)

	m.WagerSettled("won")
	m.WagerSettled("won")
	m.WagerSettled("lost")
	m.WagerSkipped("unresolved")
	m.SettlementError("wallet")
	m.FeedMessage("decode_error")
	m.ObserveRun("event", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.settled.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.settled.WithLabelValues("lost")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("unresolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("wallet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feed.WithLabelValues("decode_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestSettlementMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSettlementMetrics(reg)
	assert.Panics(t, func() { NewSettlementMetrics(reg) })
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	assert.NotPanics(t, func() {
		r.WagerSettled("won")
		r.ObserveRun("event", time.Second)
	})
}
