package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trading_analyser"

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticks       prometheus.Counter
	tickLatency prometheus.Histogram
	transitions *prometheus.CounterVec
	price       *prometheus.GaugeVec
	fallbacks   *prometheus.CounterVec
	publishes   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks",
		}),
		tickLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of a full mutate and evaluate pass",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_transitions_total",
			Help:      "Signals completed, by market type and result",
		}, []string{"market_type", "result"}),
		price: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "instrument_price",
			Help:      "Current simulated price per instrument",
		}, []string{"market_type", "instrument"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_data_fallbacks_total",
			Help:      "Market data requests served from mock data",
		}, []string{"operation"}),
		publishes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publishes_total",
			Help:      "Refresh and outcome events delivered, by sink and result",
		}, []string{"sink", "result"}),
		errorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors encountered",
		}, []string{"type"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (r *Recorder) RecordTick(seconds float64) {
	r.ticks.Inc()
	r.tickLatency.Observe(seconds)
}

func (r *Recorder) RecordTransition(marketType, result string) {
	r.transitions.WithLabelValues(marketType, result).Inc()
}

func (r *Recorder) RecordPrice(marketType, id string, price float64) {
	r.price.WithLabelValues(marketType, id).Set(price)
}

func (r *Recorder) RecordFallback(op string) {
	r.fallbacks.WithLabelValues(op).Inc()
}

func (r *Recorder) RecordPublish(sink, result string) {
	r.publishes.WithLabelValues(sink, result).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordTick(float64)                  {}
func (Nop) RecordTransition(string, string)     {}
func (Nop) RecordPrice(string, string, float64) {}
func (Nop) RecordFallback(string)               {}
func (Nop) RecordPublish(string, string)        {}
func (Nop) RecordError(string)                  {}
func (Nop) RecordLatency(string, float64)       {}
