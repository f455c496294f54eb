package geo

import (
	"github.com/dhconnelly/rtreego"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
)

// pointTolerance is the half-width of the box each city occupies in the tree.
const pointTolerance = 0.01

// cityEntry wraps a city for R-tree storage.
type cityEntry struct {
	city graph.City
	box  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *cityEntry) Bounds() rtreego.Rect {
	return e.box
}

// Index answers nearest-city queries by map position.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex builds an index over cities.
func NewIndex(cities []graph.City) *Index {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	for _, c := range cities {
		tree.Insert(&cityEntry{
			city: c,
			box:  rtreego.Point{c.X, c.Y}.ToRect(pointTolerance),
		})
	}
	return &Index{tree: tree}
}

// Size returns the number of indexed cities.
func (ix *Index) Size() int {
	return ix.tree.Size()
}

// Nearest returns the city closest to (x, y); false when the index is empty.
func (ix *Index) Nearest(x, y float64) (graph.City, bool) {
	item := ix.tree.NearestNeighbor(rtreego.Point{x, y})
	if item == nil {
		return graph.City{}, false
	}
	return item.(*cityEntry).city, true
}

// NearestK returns up to k cities ordered by distance from (x, y).
func (ix *Index) NearestK(x, y float64, k int) []graph.City {
	if k <= 0 {
		return []graph.City{}
	}
	items := ix.tree.NearestNeighbors(k, rtreego.Point{x, y})
	out := make([]graph.City, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, item.(*cityEntry).city)
	}
	return out
}
