package interpreter

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	calls      *prometheus.CounterVec
	queueDepth prometheus.Gauge
	duration   *prometheus.HistogramVec
}

func newMetrics() *metrics {
	return &metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rotkit_interpreter_calls_total",
				Help: "Total number of interpreter calls by mode and outcome.",
			},
			[]string{"mode", "status"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rotkit_interpreter_queue_depth",
				Help: "Number of queued calls that have not completed.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rotkit_interpreter_call_duration_seconds",
				Help:    "Time spent executing interpreter calls.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"mode"},
		),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.calls, m.queueDepth, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
