package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wunder_bot"

// Error kinds.
const (
	ErrDataFetch = "data_fetch"
	ErrDelivery  = "delivery"
	ErrPanic     = "panic"
	ErrConfig    = "config"
)

// Recorder: счётчики движка сигналов.
type Recorder struct {
	signalsEmitted    *prometheus.CounterVec
	signalsSuppressed *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	lastPrice         *prometheus.GaugeVec
	cycleDuration     prometheus.Histogram
}

// New registers the vectors in reg. A nil reg means a private registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Recorder{
		signalsEmitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_emitted_total",
				Help:      "Signals delivered to the alert sink",
			},
			[]string{"symbol", "timeframe", "kind"},
		),
		signalsSuppressed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_suppressed_total",
				Help:      "Non-HOLD signals rejected by the position gate",
			},
			[]string{"symbol", "timeframe", "kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Per-instrument failures by kind",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_price",
				Help:      "Last evaluated close per instrument",
			},
			[]string{"symbol", "timeframe"},
		),
		cycleDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of a full evaluation cycle",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (r *Recorder) SignalEmitted(symbol, timeframe, kind string) {
	r.signalsEmitted.WithLabelValues(symbol, timeframe, kind).Inc()
}

func (r *Recorder) SignalSuppressed(symbol, timeframe, kind string) {
	r.signalsSuppressed.WithLabelValues(symbol, timeframe, kind).Inc()
}

func (r *Recorder) Error(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) LastPrice(symbol, timeframe string, price float64) {
	r.lastPrice.WithLabelValues(symbol, timeframe).Set(price)
}

func (r *Recorder) CycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}
