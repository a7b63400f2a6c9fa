package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.SignalEmitted("BTCUSDT", "15m", "ENTER-LONG")
	r.SignalEmitted("BTCUSDT", "15m", "ENTER-LONG")
	r.SignalSuppressed("BTCUSDT", "15m", "ENTER-LONG")
	r.Error(ErrDataFetch)
	r.LastPrice("BTCUSDT", "15m", 101.5)
	r.CycleDuration(0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.signalsEmitted.WithLabelValues("BTCUSDT", "15m", "ENTER-LONG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signalsSuppressed.WithLabelValues("BTCUSDT", "15m", "ENTER-LONG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues(ErrDataFetch)))
	assert.Equal(t, 101.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("BTCUSDT", "15m")))

	n, err := testutil.GatherAndCount(reg, "wunder_bot_cycle_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordersDoNotCollideOnPrivateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}
