// Package catalog opens the configured GraphStore and keeps the active one
// current across config reloads.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/engine"
	"github.com/gyaneshwarpardhi/tripplanner/internal/geo"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/metrics"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/store/sqlitestore"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

// ErrDriverChange is returned when a reload asks for a different store driver.
var ErrDriverChange = errors.New("catalog: store driver change requires a restart")

// Catalog is one loaded generation of city data.
type Catalog struct {
	Driver string
	Store  graph.Store  // what the planner searches
	Graph  *graph.Graph // listing and map view of the same data
	Index  *geo.Index
	sqlite *sqlitestore.Store
	closer func() error
}

// Close releases the backing store, if any.
func (c *Catalog) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// Travellers returns the saved-traveller store matching the catalog's driver:
// the users table of the SQLite database, or a fresh in-memory store.
// It outlives memory catalogs swapped in by reloads.
func (c *Catalog) Travellers(ctx context.Context) (traveller.Store, error) {
	if c.sqlite == nil {
		return traveller.NewMemoryStore(), nil
	}
	return c.sqlite.Travellers(ctx)
}

// Open builds a Catalog from a validated config.
func Open(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		g, err := graph.Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}
		return &Catalog{Driver: config.DriverMemory, Store: g, Graph: g, Index: geo.NewIndex(g.Cities())}, nil

	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.Store.Seed {
			cities, edges, err := graph.Convert(cfg)
			if err == nil {
				err = s.Seed(ctx, cities, edges)
			}
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("seed %s: %w", cfg.Store.SQLitePath, err)
			}
		} else if err := s.Prepare(ctx); err != nil {
			s.Close()
			return nil, err
		}
		g, err := s.Snapshot(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
		return &Catalog{Driver: config.DriverSQLite, Store: s, Graph: g, Index: geo.NewIndex(g.Cities()), sqlite: s, closer: s.Close}, nil
	}
	return nil, fmt.Errorf("catalog: unknown store driver %q", cfg.Store.Driver)
}

// WeightsFromConfig maps the scoring section onto planner weights.
// Unset fields keep the planner defaults.
func WeightsFromConfig(s config.ScoringConf) planner.Weights {
	w := planner.DefaultWeights()
	if s.RatingWeight != nil {
		w.RatingWeight = *s.RatingWeight
	}
	if s.PreferenceBonus != nil {
		w.PreferenceBonus = *s.PreferenceBonus
	}
	if s.DayEstimate != nil {
		w.DayEstimate = *s.DayEstimate
	}
	return w
}

// Manager owns the active Catalog and pushes replacements into the engine.
type Manager struct {
	mu      sync.Mutex // serializes Apply
	current atomic.Pointer[Catalog]
	eng     *engine.Engine
}

// NewManager wraps an already opened catalog that eng is planning against.
func NewManager(initial *Catalog, eng *engine.Engine) *Manager {
	m := &Manager{eng: eng}
	m.current.Store(initial)
	metrics.CatalogCities.Set(float64(initial.Graph.CityCount()))
	return m
}

// Current returns the active catalog.
func (m *Manager) Current() *Catalog {
	return m.current.Load()
}

// Apply validates cfg and swaps in a catalog built from it. The scoring
// weights always follow cfg. A SQLite catalog is left in place because
// reseeding would rewrite tables under in-flight plans.
func (m *Manager) Apply(ctx context.Context, cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := config.Validate(cfg); err != nil {
		metrics.CatalogReloads.WithLabelValues("invalid").Inc()
		return err
	}
	old := m.current.Load()
	if cfg.Store.Driver != old.Driver {
		metrics.CatalogReloads.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w (%s -> %s)", ErrDriverChange, old.Driver, cfg.Store.Driver)
	}
	m.eng.SetWeights(WeightsFromConfig(cfg.Scoring))

	if old.Driver == config.DriverSQLite {
		slog.Warn("sqlite catalog is not reloaded at runtime; scoring updated only", "path", cfg.Store.SQLitePath)
		metrics.CatalogReloads.WithLabelValues("scoring_only").Inc()
		return nil
	}

	next, err := Open(ctx, cfg)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return err
	}
	m.current.Store(next)
	m.eng.SwapStore(next.Store)
	if err := old.Close(); err != nil {
		slog.Warn("closing previous catalog", "err", err)
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogCities.Set(float64(next.Graph.CityCount()))
	slog.Info("catalog reloaded", "cities", next.Graph.CityCount(), "routes", next.Graph.EdgeCount())
	return nil
}
