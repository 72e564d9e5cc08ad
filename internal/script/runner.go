package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/interpreter"
	"github.com/nmr-relax/rotkit/internal/model"
	"github.com/nmr-relax/rotkit/internal/rotation"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index     int                `json:"index" yaml:"index"`
	Name      string             `json:"name" yaml:"name"`
	Op        Op                 `json:"op" yaml:"op"`
	CallID    string             `json:"callId" yaml:"callId"`
	Rotations []convert.Rotation `json:"rotations,omitempty" yaml:"rotations,omitempty"`
	Error     string             `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration      `json:"-" yaml:"-"`
}

// Report collects the step results of one run, in step order.
type Report struct {
	Name   string       `json:"name" yaml:"name"`
	Order  string       `json:"order" yaml:"order"`
	Steps  []StepResult `json:"steps" yaml:"steps"`
	Failed int          `json:"failed" yaml:"failed"`
}

// OK reports whether every step succeeded.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Runner executes scripts on an interpreter.
type Runner struct {
	interp *interpreter.Interpreter
	order  model.EulerOrder
	seed   *uint64
	logger *slog.Logger
}

// RunnerOption applies configuration to a Runner.
type RunnerOption func(*Runner)

// WithDefaultOrder sets the Euler convention used when neither the script
// nor the step names one.
func WithDefaultOrder(order model.EulerOrder) RunnerOption {
	return func(r *Runner) {
		r.order = order
	}
}

// WithSeed makes random steps without their own seed reproducible. Step i
// is seeded with seed+i.
func WithSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.seed = &seed
	}
}

// WithRunnerLogger sets the logger used for run progress.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner that queues steps on interp. The interpreter
// must be started.
func NewRunner(interp *interpreter.Interpreter, opts ...RunnerOption) *Runner {
	r := &Runner{
		interp: interp,
		order:  model.OrderZYZ,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates s, queues every step, waits for the queue to drain and
// returns the results in step order. A failing step is recorded in the
// report and does not stop the ones after it.
//
// The returned error is a ValidationErrors for an invalid script, or the
// error that prevented the steps from being queued or awaited.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if errs := ValidateScript(s); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	order := r.order
	if s.DefaultOrder != "" {
		order, _ = model.ParseEulerOrder(s.DefaultOrder)
	}

	c := newCollector()
	observer := "script:" + uuid.NewString()
	r.interp.Register(observer, c)
	defer r.interp.Unregister(observer)

	r.logger.Info("running script", "name", s.Name, "steps", len(s.Steps), "order", order)

	ids := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		id, err := r.enqueue(ctx, c, i, step, order)
		if err != nil {
			return nil, fmt.Errorf("queue step %d: %w", i, err)
		}
		ids[i] = id
	}

	if err := r.interp.Flush(ctx); err != nil {
		return nil, fmt.Errorf("wait for script: %w", err)
	}

	report := &Report{Name: s.Name, Order: order.String(), Steps: make([]StepResult, len(s.Steps))}
	for i, step := range s.Steps {
		res := c.get(ids[i])
		sr := StepResult{
			Index:    i,
			Name:     step.Label(i),
			Op:       step.Op,
			CallID:   ids[i],
			Duration: res.Duration,
		}
		if res.Err != nil {
			sr.Error = res.Err.Error()
			report.Failed++
		} else if rots, ok := res.Value.([]convert.Rotation); ok {
			sr.Rotations = rots
		}
		report.Steps[i] = sr
	}

	r.logger.Info("script finished", "name", s.Name, "failed", report.Failed)
	return report, nil
}

// enqueue queues one step. When the queue is full it waits for it to
// drain once and retries.
func (r *Runner) enqueue(ctx context.Context, c *collector, i int, step Step, order model.EulerOrder) (string, error) {
	fn := func(context.Context) (any, error) {
		return r.runStep(i, step, order)
	}

	id, err := c.track(func() (string, error) { return r.interp.Queue(step.Label(i), fn) })
	if errors.Is(err, interpreter.ErrQueueFull) {
		if err := r.interp.Flush(ctx); err != nil {
			return "", err
		}
		id, err = c.track(func() (string, error) { return r.interp.Queue(step.Label(i), fn) })
	}
	return id, err
}

func (r *Runner) runStep(i int, step Step, order model.EulerOrder) ([]convert.Rotation, error) {
	to := model.ReprMatrix
	if step.To != "" {
		to, _ = model.ParseRepresentation(step.To)
	}

	switch step.Op {
	case OpConvert:
		out, err := convert.Convert(step.Rotation, to, order)
		if err != nil {
			return nil, err
		}
		return []convert.Rotation{out}, nil

	case OpReverse:
		out, err := convert.Reverse(step.Rotation, order)
		if err != nil {
			return nil, err
		}
		if step.To != "" {
			if out, err = convert.Convert(out, to, order); err != nil {
				return nil, err
			}
		}
		return []convert.Rotation{out}, nil

	case OpCompose:
		R, err := convert.Compose(step.Rotations, order)
		if err != nil {
			return nil, err
		}
		return render(to, order, R)

	case OpAlign:
		R, err := convert.Align(step.Vectors[0], step.Vectors[1])
		if err != nil {
			return nil, err
		}
		return render(to, order, R)

	case OpRandom:
		mode, _ := convert.ParseRandomMode(step.Mode)
		var angle float64
		if step.Angle != nil {
			angle = *step.Angle
		}

		seed := step.Seed
		if seed == nil && r.seed != nil {
			s := *r.seed + uint64(i)
			seed = &s
		}
		rng := convert.NewRand(seed)

		count := step.Count
		if count == 0 {
			count = 1
		}
		Rs := make([]rotation.Matrix, count)
		for k := range Rs {
			R, err := convert.Random(rng, mode, angle)
			if err != nil {
				return nil, err
			}
			Rs[k] = R
		}
		return render(to, order, Rs...)
	}

	return nil, fmt.Errorf("invalid op %q", step.Op)
}

func render(to model.Representation, order model.EulerOrder, Rs ...rotation.Matrix) ([]convert.Rotation, error) {
	out := make([]convert.Rotation, len(Rs))
	for i, R := range Rs {
		rot, err := convert.FromMatrix(R, to, order)
		if err != nil {
			return nil, err
		}
		out[i] = rot
	}
	return out, nil
}

// collector is an interpreter observer that keeps the results of the
// calls it queued itself.
type collector struct {
	mu      sync.Mutex
	tracked map[string]bool
	results map[string]interpreter.Result
}

func newCollector() *collector {
	return &collector{
		tracked: make(map[string]bool),
		results: make(map[string]interpreter.Result),
	}
}

// track runs queue while holding the collector lock, so a result cannot
// be delivered before its ID is known.
func (c *collector) track(queue func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := queue()
	if err == nil {
		c.tracked[id] = true
	}
	return id, err
}

// Notify implements interpreter.Observer.
func (c *collector) Notify(res interpreter.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tracked[res.ID] {
		c.results[res.ID] = res
	}
}

func (c *collector) get(id string) interpreter.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[id]
}
