package geo_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tripplanner/internal/geo"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
)

func triangle() *graph.Graph {
	g := graph.NewGraph()
	g.AddCity(graph.City{Name: "A", DailyCost: 1, Rating: 1, Category: graph.CategoryBeach, X: 0, Y: 0})
	g.AddCity(graph.City{Name: "B", DailyCost: 1, Rating: 2, Category: graph.CategoryBeach, X: 3, Y: 4})
	g.AddCity(graph.City{Name: "C", DailyCost: 1, Rating: 3, Category: graph.CategoryLuxury, X: 100, Y: 100})
	g.AddEdge(graph.Edge{From: "A", To: "B", TravelCost: 5})
	g.AddEdge(graph.Edge{From: "B", To: "C", TravelCost: 7})
	return g
}

func TestIndex_Nearest(t *testing.T) {
	ix := geo.NewIndex(triangle().Cities())
	assert.Equal(t, 3, ix.Size())

	c, ok := ix.Nearest(90, 95)
	require.True(t, ok)
	assert.Equal(t, "C", c.Name)

	near := ix.NearestK(1, 1, 2)
	require.Len(t, near, 2)
	assert.Equal(t, "A", near[0].Name)
	assert.Equal(t, "B", near[1].Name)

	assert.Empty(t, ix.NearestK(1, 1, 0))
}

func TestIndex_Empty(t *testing.T) {
	ix := geo.NewIndex(nil)
	_, ok := ix.Nearest(0, 0)
	assert.False(t, ok)
}

func TestMapFeatures(t *testing.T) {
	fc, err := geo.MapFeatures(triangle(), []string{"A", "B", "C"})
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")]++
	}
	assert.Equal(t, map[string]int{geo.KindCity: 3, geo.KindRoute: 2, geo.KindItinerary: 1}, kinds)

	last := fc.Features[len(fc.Features)-1]
	assert.InDelta(t, 5+math.Hypot(97, 96), last.Properties["length"], 1e-9)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"FeatureCollection"`)
}

func TestMapFeatures_UnknownPathCity(t *testing.T) {
	_, err := geo.MapFeatures(triangle(), []string{"A", "Nowhere"})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestRouteLength(t *testing.T) {
	l, err := geo.RouteLength(triangle(), []string{"A", "B"})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, l, 1e-9)

	_, err = geo.RouteLength(triangle(), []string{"Z"})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}
