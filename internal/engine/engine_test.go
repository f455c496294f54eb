package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/engine"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
)

func chain(names ...string) *graph.Graph {
	g := graph.NewGraph()
	for _, n := range names {
		g.AddCity(graph.City{Name: n, DailyCost: 5, Rating: 3, Category: graph.CategoryCultural})
	}
	for i := 0; i+1 < len(names); i++ {
		g.AddEdge(graph.Edge{From: names[i], To: names[i+1], TravelCost: 10})
	}
	return g
}

func newEngine(t *testing.T, store graph.Store, conf config.EngineConf) *engine.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e := engine.New(ctx, store, planner.DefaultWeights(), conf)
	t.Cleanup(func() {
		cancel()
		e.Shutdown()
	})
	return e
}

var defaultConf = config.EngineConf{PlanWorkers: 2, QueueDepth: 8, PlanTimeoutMs: 2000}

func TestPlanSync(t *testing.T) {
	e := newEngine(t, chain("A", "B", "C"), defaultConf)

	res, err := e.PlanSync(context.Background(), "p1", planner.Request{Start: "A", Budget: 100, Days: 2, Preference: graph.CategoryCultural})
	require.NoError(t, err)
	assert.Equal(t, "p1", res.PlanID)
	assert.Equal(t, []string{"A", "B", "C"}, res.Itinerary.Path)
	assert.Equal(t, 30, res.Itinerary.TotalCost)
}

func TestPlanSync_UnknownStart(t *testing.T) {
	e := newEngine(t, chain("A", "B"), defaultConf)

	_, err := e.PlanSync(context.Background(), "p2", planner.Request{Start: "Q", Budget: 100, Days: 1})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestPlanSync_QueueFullAndTimeout(t *testing.T) {
	// No workers: the first job sits in the queue until it times out.
	e := newEngine(t, chain("A", "B"), config.EngineConf{PlanWorkers: 0, QueueDepth: 1, PlanTimeoutMs: 20})
	req := planner.Request{Start: "A", Budget: 100, Days: 1}

	_, err := e.PlanSync(context.Background(), "first", req)
	assert.ErrorIs(t, err, engine.ErrTimeout)
	assert.Equal(t, 1.0, e.QueueUtilization())

	_, err = e.PlanSync(context.Background(), "second", req)
	assert.ErrorIs(t, err, engine.ErrQueueFull)
}

func TestSwapStore(t *testing.T) {
	e := newEngine(t, chain("A", "B"), defaultConf)
	req := planner.Request{Start: "A", Budget: 100, Days: 2}

	res, err := e.PlanSync(context.Background(), "before", req)
	require.NoError(t, err)
	assert.False(t, res.Itinerary.Found())

	e.SwapStore(chain("A", "B", "C"))
	res, err = e.PlanSync(context.Background(), "after", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Itinerary.Path)
}

func TestSetWeights(t *testing.T) {
	// Two equal-cost branches; only the preference bonus on Y separates them.
	g := graph.NewGraph()
	g.AddCity(graph.City{Name: "S", DailyCost: 10, Rating: 1, Category: graph.CategoryLuxury})
	g.AddCity(graph.City{Name: "X", DailyCost: 10, Rating: 2, Category: graph.CategoryBeach})
	g.AddCity(graph.City{Name: "Y", DailyCost: 10, Rating: 2, Category: graph.CategoryCultural})
	g.AddCity(graph.City{Name: "T", DailyCost: 10, Rating: 1, Category: graph.CategoryLuxury})
	for _, e := range []graph.Edge{{From: "S", To: "X", TravelCost: 100}, {From: "S", To: "Y", TravelCost: 100}, {From: "X", To: "T", TravelCost: 100}, {From: "Y", To: "T", TravelCost: 100}} {
		g.AddEdge(e)
	}
	e := newEngine(t, g, defaultConf)
	req := planner.Request{Start: "S", Budget: 1000, Days: 2, Preference: graph.CategoryCultural}

	res, err := e.PlanSync(context.Background(), "w1", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "Y", "T"}, res.Itinerary.Path)

	e.SetWeights(planner.Weights{RatingWeight: 25, DayEstimate: 50})
	res, err = e.PlanSync(context.Background(), "w2", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "X", "T"}, res.Itinerary.Path)
}

func TestPlanSync_ConcurrentCallersGetIdenticalResults(t *testing.T) {
	e := newEngine(t, chain("A", "B", "C", "D"), config.EngineConf{PlanWorkers: 4, QueueDepth: 64, PlanTimeoutMs: 2000})
	req := planner.Request{Start: "A", Budget: 100, Days: 3, Preference: graph.CategoryCultural}

	var wg sync.WaitGroup
	results := make([]*engine.Result, 32)
	errs := make([]error, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.PlanSync(context.Background(), fmt.Sprintf("c%d", i), req)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"A", "B", "C", "D"}, results[i].Itinerary.Path)
		assert.Equal(t, 45, results[i].Itinerary.TotalCost)
	}
}

func TestShutdown_RejectsNewPlans(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e := engine.New(ctx, chain("A"), planner.DefaultWeights(), defaultConf)
	e.Shutdown()

	_, err := e.PlanSync(context.Background(), "late", planner.Request{Start: "A"})
	assert.ErrorIs(t, err, engine.ErrQueueFull)
}
