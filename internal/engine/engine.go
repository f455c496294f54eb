package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/metrics"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
)

var (
	// ErrQueueFull is returned when no queue slot is free.
	ErrQueueFull = errors.New("engine: plan queue full")
	// ErrTimeout is returned when a plan does not finish within the configured timeout.
	ErrTimeout = errors.New("engine: plan timed out")
)

// Result is the outcome of one queued plan.
type Result struct {
	PlanID    string             `json:"plan_id"`
	Request   planner.Request    `json:"-"`
	Itinerary *planner.Itinerary `json:"itinerary"`
	Store     graph.Store        `json:"-"` // snapshot the plan ran against
	Duration  time.Duration      `json:"-"`
	Err       error              `json:"-"`
}

// snapshot is the store and scoring a plan runs against. Replaced as a whole.
type snapshot struct {
	store   graph.Store
	weights planner.Weights
}

// Engine runs plans from a bounded queue on a fixed set of workers.
// Every job builds its own planner search; only the store is shared.
type Engine struct {
	current atomic.Pointer[snapshot]
	pool    *workerPool[*planJob, *Result]
	conf    config.EngineConf
}

type planJob struct {
	id      string
	req     planner.Request
	resultC chan *Result
}

// New creates an Engine using conf and starts the worker pool.
func New(ctx context.Context, store graph.Store, weights planner.Weights, conf config.EngineConf) *Engine {
	e := &Engine{conf: conf}
	e.current.Store(&snapshot{store: store, weights: weights})

	e.pool = newWorkerPool[*planJob, *Result](
		ctx,
		conf.PlanWorkers,
		conf.QueueDepth,
		func(_ context.Context, j *planJob) *Result {
			return e.run(j)
		},
		func(j *planJob, r *Result) {
			j.resultC <- r
		},
	)
	return e
}

// SwapStore atomically replaces the store used by plans started afterwards.
func (e *Engine) SwapStore(store graph.Store) {
	old := e.current.Load()
	e.current.Store(&snapshot{store: store, weights: old.weights})
}

// SetWeights atomically replaces the scoring used by plans started afterwards.
func (e *Engine) SetWeights(w planner.Weights) {
	old := e.current.Load()
	e.current.Store(&snapshot{store: old.store, weights: w})
}

// Store returns the active store.
func (e *Engine) Store() graph.Store {
	return e.current.Load().store
}

// PlanSync queues req and waits for its result.
// Planner errors (unknown start city, invalid request) come back unchanged.
func (e *Engine) PlanSync(ctx context.Context, id string, req planner.Request) (*Result, error) {
	j := &planJob{id: id, req: req, resultC: make(chan *Result, 1)}
	if !e.pool.Submit(j) {
		metrics.PlansDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}
	metrics.PlansEnqueued.Inc()

	timeout := time.Duration(e.conf.PlanTimeoutMs) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-j.resultC:
		if res.Err != nil {
			return res, res.Err
		}
		return res, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) run(j *planJob) *Result {
	start := time.Now()
	snap := e.current.Load()

	it, err := planner.New(snap.store, planner.WithWeights(snap.weights)).Plan(j.req)
	res := &Result{PlanID: j.id, Request: j.req, Itinerary: it, Store: snap.store, Duration: time.Since(start), Err: err}

	metrics.PlanDuration.Observe(float64(res.Duration.Microseconds()) / 1000)
	switch {
	case errors.Is(err, graph.ErrNotFound):
		metrics.PlansCompleted.WithLabelValues(metrics.OutcomeNotFound).Inc()
	case err != nil:
		metrics.PlansCompleted.WithLabelValues(metrics.OutcomeError).Inc()
	case it.Found():
		metrics.PlansCompleted.WithLabelValues(metrics.OutcomeFound).Inc()
	default:
		metrics.PlansCompleted.WithLabelValues(metrics.OutcomeInfeasible).Inc()
	}
	if err != nil {
		slog.Info("plan failed", "plan_id", j.id, "start", j.req.Start, "err", err)
		return res
	}

	metrics.NodesExpanded.Observe(float64(it.Stats.Expanded))
	slog.Debug("plan finished",
		"plan_id", j.id,
		"start", j.req.Start,
		"budget", j.req.Budget,
		"days", j.req.Days,
		"preference", j.req.Preference,
		"found", it.Found(),
		"cost", it.TotalCost,
		"expanded", it.Stats.Expanded,
		"pruned", it.Stats.Pruned,
		"skipped", it.Stats.Skipped,
		"duration", res.Duration,
	)
	return res
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
