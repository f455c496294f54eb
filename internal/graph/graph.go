package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a city name is not in the store.
var ErrNotFound = errors.New("graph: city not found")

// Store is the read-only lookup surface the planner searches over.
// Implementations must return outgoing edges in a stable order.
type Store interface {
	// City returns the attributes of name, or an error wrapping ErrNotFound.
	City(name string) (City, error)
	// OutgoingEdges returns the edges leaving name; empty when there are none.
	OutgoingEdges(name string) ([]Edge, error)
}

// Graph is the in-memory Store.
// It is immutable once built; hot-reload creates a new Graph and swaps atomically.
type Graph struct {
	cities map[string]City
	out    map[string][]Edge // from → edges in declaration order
	order  []Edge
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		cities: make(map[string]City),
		out:    make(map[string][]Edge),
	}
}

// AddCity registers a city by name, replacing any previous entry.
func (g *Graph) AddCity(c City) {
	g.cities[c.Name] = c
}

// AddEdge appends a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(e Edge) {
	g.out[e.From] = append(g.out[e.From], e)
	g.order = append(g.order, e)
}

// City implements Store.
func (g *Graph) City(name string) (City, error) {
	c, ok := g.cities[name]
	if !ok {
		return City{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// OutgoingEdges implements Store.
func (g *Graph) OutgoingEdges(name string) ([]Edge, error) {
	return g.out[name], nil
}

// Cities returns all cities sorted by name.
func (g *Graph) Cities() []City {
	out := make([]City, 0, len(g.cities))
	for _, c := range g.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Edges returns every edge in declaration order.
func (g *Graph) Edges() []Edge {
	return g.order
}

// CityCount returns the number of registered cities.
func (g *Graph) CityCount() int {
	return len(g.cities)
}

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int {
	return len(g.order)
}
