// Package geo places cities on the 2D map: nearest-city lookup and GeoJSON
// output for the external renderer. Nothing here influences planning.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
)

// Feature kinds written to the "kind" property.
const (
	KindCity      = "city"
	KindRoute     = "route"
	KindItinerary = "itinerary"
)

// Catalog is the read surface MapFeatures draws from.
type Catalog interface {
	Cities() []graph.City
	Edges() []graph.Edge
}

// Position returns the map point of c.
func Position(c graph.City) orb.Point {
	return orb.Point{c.X, c.Y}
}

// MapFeatures returns one Point per city, one LineString per route and, when
// path is non-empty, a LineString tracing the itinerary.
func MapFeatures(cat Catalog, path []string) (*geojson.FeatureCollection, error) {
	cities := cat.Cities()
	pos := make(map[string]orb.Point, len(cities))
	fc := geojson.NewFeatureCollection()

	for _, c := range cities {
		pos[c.Name] = Position(c)
		f := geojson.NewFeature(Position(c))
		f.Properties["kind"] = KindCity
		f.Properties["name"] = c.Name
		f.Properties["rating"] = c.Rating
		f.Properties["category"] = string(c.Category)
		f.Properties["daily_cost"] = c.DailyCost
		fc.Append(f)
	}

	for _, e := range cat.Edges() {
		from, ok := pos[e.From]
		if !ok {
			return nil, fmt.Errorf("route %s->%s: %w: %q", e.From, e.To, graph.ErrNotFound, e.From)
		}
		to, ok := pos[e.To]
		if !ok {
			return nil, fmt.Errorf("route %s->%s: %w: %q", e.From, e.To, graph.ErrNotFound, e.To)
		}
		f := geojson.NewFeature(orb.LineString{from, to})
		f.Properties["kind"] = KindRoute
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		f.Properties["travel_cost"] = e.TravelCost
		fc.Append(f)
	}

	if len(path) == 0 {
		return fc, nil
	}
	line := make(orb.LineString, 0, len(path))
	for _, name := range path {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("itinerary: %w: %q", graph.ErrNotFound, name)
		}
		line = append(line, p)
	}
	f := geojson.NewFeature(line)
	f.Properties["kind"] = KindItinerary
	f.Properties["cities"] = path
	f.Properties["length"] = planar.Length(line)
	fc.Append(f)
	return fc, nil
}

// RouteLength sums the straight-line map distance along path.
func RouteLength(store graph.Store, path []string) (float64, error) {
	line := make(orb.LineString, 0, len(path))
	for _, name := range path {
		c, err := store.City(name)
		if err != nil {
			return 0, err
		}
		line = append(line, Position(c))
	}
	return planar.Length(line), nil
}
