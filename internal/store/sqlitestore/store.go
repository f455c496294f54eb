// Package sqlitestore serves cities and routes from a SQLite database laid out
// as two tables, cities and distances.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
)

const schema = `
CREATE TABLE cities(
    name TEXT PRIMARY KEY,
    daily_cost INTEGER NOT NULL,
    rating INTEGER NOT NULL,
    category TEXT NOT NULL,
    x REAL NOT NULL DEFAULT 0,
    y REAL NOT NULL DEFAULT 0
);
CREATE TABLE distances(
    from_city TEXT NOT NULL,
    to_city TEXT NOT NULL,
    travel_cost INTEGER NOT NULL
);
CREATE INDEX idx_distances_from ON distances(from_city);
`

// Store implements graph.Store on top of SQLite.
// Lookups are read-only; the database must not change while plans run.
type Store struct {
	db       *sql.DB
	path     string
	cityStmt *sql.Stmt
	edgeStmt *sql.Stmt
}

var _ graph.Store = (*Store)(nil)

// Open connects to the database at path, enabling WAL and a busy timeout.
// Call Seed or Prepare before using the result as a graph.Store.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", path, (5 * time.Second).Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases prepared statements and the connection pool.
func (s *Store) Close() error {
	if s.cityStmt != nil {
		s.cityStmt.Close()
	}
	if s.edgeStmt != nil {
		s.edgeStmt.Close()
	}
	return s.db.Close()
}

// Seed drops and recreates both tables and inserts the given catalog in one
// transaction. Route insertion order becomes the outgoing-edge order.
func (s *Store) Seed(ctx context.Context, cities []graph.City, edges []graph.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DROP TABLE IF EXISTS cities", "DROP TABLE IF EXISTS distances", schema} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed: schema: %w", err)
		}
	}

	insCity, err := tx.PrepareContext(ctx, "INSERT INTO cities VALUES (?,?,?,?,?,?)")
	if err != nil {
		return fmt.Errorf("seed: prepare cities: %w", err)
	}
	defer insCity.Close()
	for _, c := range cities {
		if _, err := insCity.ExecContext(ctx, c.Name, c.DailyCost, c.Rating, string(c.Category), c.X, c.Y); err != nil {
			return fmt.Errorf("seed: city %s: %w", c.Name, err)
		}
	}

	insEdge, err := tx.PrepareContext(ctx, "INSERT INTO distances VALUES (?,?,?)")
	if err != nil {
		return fmt.Errorf("seed: prepare distances: %w", err)
	}
	defer insEdge.Close()
	for _, e := range edges {
		if _, err := insEdge.ExecContext(ctx, e.From, e.To, e.TravelCost); err != nil {
			return fmt.Errorf("seed: route %s->%s: %w", e.From, e.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return s.prepare(ctx)
}

// Prepare readies the lookup statements against existing tables.
func (s *Store) Prepare(ctx context.Context) error {
	return s.prepare(ctx)
}

func (s *Store) prepare(ctx context.Context) error {
	if s.cityStmt != nil {
		return nil
	}
	cityStmt, err := s.db.PrepareContext(ctx,
		"SELECT name, daily_cost, rating, category, x, y FROM cities WHERE name = ?")
	if err != nil {
		return fmt.Errorf("prepare city lookup: %w", err)
	}
	edgeStmt, err := s.db.PrepareContext(ctx,
		"SELECT from_city, to_city, travel_cost FROM distances WHERE from_city = ? ORDER BY rowid")
	if err != nil {
		cityStmt.Close()
		return fmt.Errorf("prepare edge lookup: %w", err)
	}
	s.cityStmt, s.edgeStmt = cityStmt, edgeStmt
	return nil
}

// City implements graph.Store.
func (s *Store) City(name string) (graph.City, error) {
	if s.cityStmt == nil {
		return graph.City{}, errors.New("sqlitestore: store not prepared")
	}
	var (
		c   graph.City
		cat string
	)
	err := s.cityStmt.QueryRow(name).Scan(&c.Name, &c.DailyCost, &c.Rating, &cat, &c.X, &c.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.City{}, fmt.Errorf("%w: %q", graph.ErrNotFound, name)
	}
	if err != nil {
		return graph.City{}, fmt.Errorf("city %s: %w", name, err)
	}
	c.Category = graph.Category(cat)
	return c, nil
}

// OutgoingEdges implements graph.Store.
func (s *Store) OutgoingEdges(name string) ([]graph.Edge, error) {
	if s.edgeStmt == nil {
		return nil, errors.New("sqlitestore: store not prepared")
	}
	rows, err := s.edgeStmt.Query(name)
	if err != nil {
		return nil, fmt.Errorf("edges of %s: %w", name, err)
	}
	defer rows.Close()

	edges := []graph.Edge{}
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.From, &e.To, &e.TravelCost); err != nil {
			return nil, fmt.Errorf("edges of %s: %w", name, err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Cities returns every city sorted by name.
func (s *Store) Cities(ctx context.Context) ([]graph.City, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, daily_cost, rating, category, x, y FROM cities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []graph.City
	for rows.Next() {
		var (
			c   graph.City
			cat string
		)
		if err := rows.Scan(&c.Name, &c.DailyCost, &c.Rating, &cat, &c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("list cities: %w", err)
		}
		c.Category = graph.Category(cat)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Edges returns every route in insertion order.
func (s *Store) Edges(ctx context.Context) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT from_city, to_city, travel_cost FROM distances ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var out []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.From, &e.To, &e.TravelCost); err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Snapshot copies the database into an in-memory graph.Graph, the form the
// listing and map endpoints consume.
func (s *Store) Snapshot(ctx context.Context) (*graph.Graph, error) {
	cities, err := s.Cities(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.Edges(ctx)
	if err != nil {
		return nil, err
	}
	g := graph.NewGraph()
	for _, c := range cities {
		g.AddCity(c)
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g, nil
}
