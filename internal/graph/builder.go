package graph

import (
	"fmt"

	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
)

// Build constructs a Graph from a validated Config.
// Categories are resolved here; zero parsing happens at planning time.
func Build(cfg *config.Config) (*Graph, error) {
	cities, edges, err := Convert(cfg)
	if err != nil {
		return nil, err
	}
	g := NewGraph()
	for _, c := range cities {
		g.AddCity(c)
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g, nil
}

// Convert turns the catalog section of cfg into typed cities and edges.
func Convert(cfg *config.Config) ([]City, []Edge, error) {
	cities := make([]City, 0, len(cfg.Cities))
	known := make(map[string]struct{}, len(cfg.Cities))
	for _, def := range cfg.Cities {
		cat, err := ParseCategory(def.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("city %s: %w", def.Name, err)
		}
		cities = append(cities, City{
			Name:      def.Name,
			DailyCost: def.DailyCost,
			Rating:    def.Rating,
			Category:  cat,
			X:         def.X,
			Y:         def.Y,
		})
		known[def.Name] = struct{}{}
	}
	edges := make([]Edge, 0, len(cfg.Routes))
	for i, r := range cfg.Routes {
		if _, ok := known[r.From]; !ok {
			return nil, nil, fmt.Errorf("routes[%d]: %w: %q", i, ErrNotFound, r.From)
		}
		if _, ok := known[r.To]; !ok {
			return nil, nil, fmt.Errorf("routes[%d]: %w: %q", i, ErrNotFound, r.To)
		}
		edges = append(edges, Edge{From: r.From, To: r.To, TravelCost: r.TravelCost})
	}
	return cities, edges, nil
}
