package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/engine"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	l, err := config.NewLoader("../../configs/catalog.yaml")
	require.NoError(t, err)
	cfg := *l.Config()
	cfg.Store.Driver = config.DriverMemory
	return &cfg
}

func startEngine(t *testing.T, store graph.Store) *engine.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e := engine.New(ctx, store, planner.DefaultWeights(), config.EngineConf{PlanWorkers: 1, QueueDepth: 4, PlanTimeoutMs: 2000})
	t.Cleanup(func() {
		cancel()
		e.Shutdown()
	})
	return e
}

func TestOpen_Memory(t *testing.T) {
	c, err := catalog.Open(context.Background(), loadConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, config.DriverMemory, c.Driver)
	assert.Equal(t, 20, c.Graph.CityCount())
	assert.Equal(t, 20, c.Index.Size())
	_, err = c.Store.City("Bali")
	assert.NoError(t, err)
}

func TestOpen_SQLiteSeeded(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Store = config.StoreConf{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "t.db"), Seed: true}

	c, err := catalog.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, config.DriverSQLite, c.Driver)
	assert.Equal(t, 20, c.Graph.EdgeCount())
	city, err := c.Store.City("Cairo")
	require.NoError(t, err)
	assert.Equal(t, 60, city.DailyCost)
}

func TestManager_ApplySwapsCatalogAndWeights(t *testing.T) {
	cfg := loadConfig(t)
	initial, err := catalog.Open(context.Background(), cfg)
	require.NoError(t, err)
	eng := startEngine(t, initial.Store)
	m := catalog.NewManager(initial, eng)

	next := *cfg
	next.Cities = append(append([]config.CityDef{}, cfg.Cities...), config.CityDef{Name: "Lisbon", DailyCost: 70, Rating: 4, Category: "Beach", X: 50, Y: 250})
	next.Routes = append(append([]config.RouteDef{}, cfg.Routes...), config.RouteDef{From: "Barcelona", To: "Lisbon", TravelCost: 30})
	require.NoError(t, m.Apply(context.Background(), &next))

	assert.Equal(t, 21, m.Current().Graph.CityCount())
	res, err := eng.PlanSync(context.Background(), "x", planner.Request{Start: "Barcelona", Budget: 500, Days: 1, Preference: graph.CategoryBeach})
	require.NoError(t, err)
	assert.Equal(t, []string{"Barcelona", "Lisbon"}, res.Itinerary.Path)
	assert.Equal(t, 120, res.Itinerary.TotalCost)
}

func TestManager_ApplyRejectsInvalidAndDriverChange(t *testing.T) {
	cfg := loadConfig(t)
	initial, err := catalog.Open(context.Background(), cfg)
	require.NoError(t, err)
	m := catalog.NewManager(initial, startEngine(t, initial.Store))

	bad := *cfg
	bad.Version = ""
	assert.Error(t, m.Apply(context.Background(), &bad))

	other := *cfg
	other.Store = config.StoreConf{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")}
	assert.ErrorIs(t, m.Apply(context.Background(), &other), catalog.ErrDriverChange)

	assert.Same(t, initial, m.Current())
}

func TestWeightsFromConfig(t *testing.T) {
	one, zero, three := 1, 0, 3
	w := catalog.WeightsFromConfig(config.ScoringConf{RatingWeight: &one, PreferenceBonus: &zero, DayEstimate: &three})
	assert.Equal(t, planner.Weights{RatingWeight: 1, PreferenceBonus: 0, DayEstimate: 3}, w)

	assert.Equal(t, planner.DefaultWeights(), catalog.WeightsFromConfig(config.ScoringConf{}))
}
