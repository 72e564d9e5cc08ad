package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrStopped is returned for calls made after Stop.
	ErrStopped = errors.New("interpreter stopped")

	// ErrQueueFull is returned by Queue when the FIFO has no free slot.
	ErrQueueFull = errors.New("interpreter queue full")

	// ErrPanic wraps the value recovered from a panicking call.
	ErrPanic = errors.New("call panicked")
)

// Mode says how a call reached the execution lock.
type Mode string

const (
	ModeApply Mode = "apply"
	ModeQueue Mode = "queue"
)

// Func is a unit of work run under the execution lock.
type Func func(ctx context.Context) (any, error)

// Result describes one finished call.
type Result struct {
	ID       string
	Name     string
	Mode     Mode
	Value    any
	Err      error
	Duration time.Duration
}

// Observer is notified after every call, in either mode.
type Observer interface {
	Notify(Result)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Result)

// Notify calls f(r).
func (f ObserverFunc) Notify(r Result) { f(r) }

type call struct {
	id   string
	name string
	fn   Func
}

// Interpreter runs calls one at a time under a single execution lock.
// Safe for concurrent use.
type Interpreter struct {
	queueSize  int
	logger     *slog.Logger
	registerer prometheus.Registerer
	tracer     trace.Tracer
	metrics    *metrics

	queue   chan call
	done    chan struct{}
	exited  chan struct{}
	execMu  sync.Mutex
	locked  atomic.Bool
	started bool

	// mu guards the fields below.
	mu      sync.Mutex
	stopped bool
	pending int
	idle    chan struct{}

	obsMu     sync.RWMutex
	observers map[string]Observer
}

// New creates an Interpreter. The worker does not run until Start.
// Returns an error if the metrics cannot be registered.
func New(opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
		tracer:    otel.Tracer("github.com/nmr-relax/rotkit/internal/interpreter"),
		metrics:   newMetrics(),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
		idle:      make(chan struct{}),
		observers: make(map[string]Observer),
	}
	close(in.idle)

	for _, opt := range opts {
		opt(in)
	}
	in.queue = make(chan call, in.queueSize)

	if in.registerer != nil {
		if err := in.metrics.register(in.registerer); err != nil {
			return nil, fmt.Errorf("register interpreter metrics: %w", err)
		}
	}

	return in, nil
}

// Start launches the worker goroutine.
// Idempotent: safe to call multiple times (no-op after first, and after Stop).
func (in *Interpreter) Start() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.started || in.stopped {
		return
	}
	in.started = true
	go in.work()
}

// work is the worker loop. Queued calls run in FIFO order until shutdown.
func (in *Interpreter) work() {
	defer close(in.exited)
	for {
		select {
		case c := <-in.queue:
			in.execute(context.Background(), ModeQueue, c.id, c.name, c.fn)
			in.finishPending()
		case <-in.done:
			return
		}
	}
}

// Apply runs fn on the calling goroutine under the execution lock and
// returns its value and error. A panic inside fn is returned as an error
// wrapping ErrPanic.
func (in *Interpreter) Apply(ctx context.Context, name string, fn Func) (any, error) {
	in.mu.Lock()
	stopped := in.stopped
	in.mu.Unlock()
	if stopped {
		return nil, ErrStopped
	}

	res := in.execute(ctx, ModeApply, uuid.NewString(), name, fn)
	return res.Value, res.Err
}

// Queue appends fn to the FIFO and returns the call ID without waiting.
// The outcome is delivered to observers once the worker has run it.
func (in *Interpreter) Queue(name string, fn Func) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.stopped {
		return "", ErrStopped
	}

	c := call{id: uuid.NewString(), name: name, fn: fn}
	select {
	case in.queue <- c:
	default:
		return "", ErrQueueFull
	}

	if in.pending == 0 {
		in.idle = make(chan struct{})
	}
	in.pending++
	in.metrics.queueDepth.Set(float64(in.pending))

	in.logger.Debug("call queued", "id", c.id, "name", name, "pending", in.pending)
	return c.id, nil
}

func (in *Interpreter) finishPending() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.pending--
	in.metrics.queueDepth.Set(float64(in.pending))
	if in.pending == 0 {
		close(in.idle)
	}
}

// Flush blocks until every queued call has completed or ctx is done.
func (in *Interpreter) Flush(ctx context.Context) error {
	in.mu.Lock()
	idle := in.idle
	in.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Empty reports whether no queued call is waiting or running.
func (in *Interpreter) Empty() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pending == 0
}

// Locked reports whether a call currently holds the execution lock.
func (in *Interpreter) Locked() bool {
	return in.locked.Load()
}

// Stop refuses new calls, waits for the queued ones to finish and then
// stops the worker. If ctx ends first the worker is stopped anyway and
// ctx.Err() is returned. Calls queued on an interpreter that was never
// started are discarded.
func (in *Interpreter) Stop(ctx context.Context) error {
	in.mu.Lock()
	if in.stopped {
		in.mu.Unlock()
		return nil
	}
	in.stopped = true
	started := in.started
	in.mu.Unlock()

	if !started {
		close(in.done)
		return nil
	}

	err := in.Flush(ctx)
	close(in.done)
	<-in.exited
	return err
}

// Register adds an observer under name, replacing any previous one.
func (in *Interpreter) Register(name string, o Observer) {
	in.obsMu.Lock()
	defer in.obsMu.Unlock()
	in.observers[name] = o
}

// Unregister removes the observer registered under name.
func (in *Interpreter) Unregister(name string) {
	in.obsMu.Lock()
	defer in.obsMu.Unlock()
	delete(in.observers, name)
}

func (in *Interpreter) execute(ctx context.Context, mode Mode, id, name string, fn Func) Result {
	ctx, span := in.tracer.Start(ctx, "interpreter."+string(mode),
		trace.WithAttributes(
			attribute.String("call.id", id),
			attribute.String("call.name", name),
		),
	)
	defer span.End()

	in.execMu.Lock()
	in.locked.Store(true)
	start := time.Now()
	value, err := invoke(ctx, fn)
	elapsed := time.Since(start)
	in.locked.Store(false)
	in.execMu.Unlock()

	res := Result{ID: id, Name: name, Mode: mode, Value: value, Err: err, Duration: elapsed}

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.logger.Error("call failed", "id", id, "name", name, "mode", mode, "error", err)
	} else {
		in.logger.Debug("call completed", "id", id, "name", name, "mode", mode, "duration", elapsed)
	}
	in.metrics.calls.WithLabelValues(string(mode), status).Inc()
	in.metrics.duration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())

	in.notify(res)
	return res
}

func invoke(ctx context.Context, fn Func) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx)
}

// notify calls every observer in name order. A panicking observer is
// logged and skipped.
func (in *Interpreter) notify(res Result) {
	in.obsMu.RLock()
	names := make([]string, 0, len(in.observers))
	for name := range in.observers {
		names = append(names, name)
	}
	observers := make([]Observer, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		observers = append(observers, in.observers[name])
	}
	in.obsMu.RUnlock()

	for i, o := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					in.logger.Error("observer panicked", "observer", names[i], "panic", r)
				}
			}()
			o.Notify(res)
		}()
	}
}
