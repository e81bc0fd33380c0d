package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordTick(0.001)
	r.RecordTick(0.002)
	r.RecordTransition("crypto", "profit")
	r.RecordFallback("list_markets")
	r.RecordPrice("forex", "eurusd", 1.0892)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("crypto", "profit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("list_markets")))
	assert.Equal(t, 1.0892, testutil.ToFloat64(r.price.WithLabelValues("forex", "eurusd")))
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
