package interpreter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultQueueSize is the capacity of the call FIFO when none is given.
const DefaultQueueSize = 1000

// Option applies configuration to an Interpreter.
type Option func(*Interpreter)

// WithQueueSize sets the capacity of the call FIFO. Values below 1 keep
// the default.
func WithQueueSize(size int) Option {
	return func(in *Interpreter) {
		if size > 0 {
			in.queueSize = size
		}
	}
}

// WithLogger sets the logger used for call outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithRegisterer registers the interpreter metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(in *Interpreter) {
		in.registerer = reg
	}
}

// WithTracer sets the tracer used for per-call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(in *Interpreter) {
		if tracer != nil {
			in.tracer = tracer
		}
	}
}
