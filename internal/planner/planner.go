// Package planner builds multi-day itineraries with a budget-constrained
// best-first search over a graph.Store.
//
// Each day the traveller either stays on the current city's outgoing edges or
// the branch dies; a transition to a neighbour charges the edge's travel cost
// plus one day in the city being left. Candidates are ordered by
//
//	priority = (cost - rating*RatingWeight - preferenceBonus) + remainingDays*DayEstimate
//
// where the bonuses belong to the city being left and remainingDays counts from
// the node being expanded. The first node popped on the final day wins; there is
// no destination city. A (city, day) pair is expanded at most once.
package planner

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
)

// ErrInvalidRequest is returned for negative budgets or day counts.
var ErrInvalidRequest = errors.New("planner: invalid request")

// Weights tunes the search priority.
type Weights struct {
	RatingWeight    int // discount per rating point of the city being left
	PreferenceBonus int // discount when the city being left matches the preference
	DayEstimate     int // heuristic cost per remaining day
}

// DefaultWeights returns the standard scoring: 25 per rating point, 40 for a
// preferred category, 50 per remaining day.
func DefaultWeights() Weights {
	return Weights{RatingWeight: 25, PreferenceBonus: 40, DayEstimate: 50}
}

// Request describes one planning query.
type Request struct {
	Start      string
	Budget     int
	Days       int
	Preference graph.Category
}

// Stats counts search work for a single Plan call.
type Stats struct {
	Expanded int `json:"expanded"`
	Pushed   int `json:"pushed"`
	Pruned   int `json:"pruned"`  // neighbours dropped for exceeding the budget
	Skipped  int `json:"skipped"` // pops of an already expanded (city, day)
}

// Itinerary is the outcome of a search. An empty Path means no plan fits the
// budget; that is a normal result, not an error.
type Itinerary struct {
	Path      []string `json:"path"`
	TotalCost int      `json:"total_cost"`
	Stats     Stats    `json:"stats"`
}

// Found reports whether the search produced a plan.
func (it *Itinerary) Found() bool { return len(it.Path) > 0 }

// Planner runs searches against a read-only store. It holds no per-search
// state and is safe for concurrent use if the store is.
type Planner struct {
	store   graph.Store
	weights Weights
}

// Option configures a Planner.
type Option func(*Planner)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(p *Planner) { p.weights = w }
}

// New returns a Planner over store.
func New(store graph.Store, opts ...Option) *Planner {
	p := &Planner{store: store, weights: DefaultWeights()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan searches for a path of exactly req.Days transitions starting at
// req.Start whose accumulated cost stays within req.Budget.
//
// An unknown start city fails with an error wrapping graph.ErrNotFound.
// Infeasibility returns an Itinerary with an empty path and zero cost.
func (p *Planner) Plan(req Request) (*Itinerary, error) {
	if req.Budget < 0 || req.Days < 0 {
		return nil, fmt.Errorf("%w: budget %d and days %d must be non-negative", ErrInvalidRequest, req.Budget, req.Days)
	}
	if _, err := p.store.City(req.Start); err != nil {
		return nil, fmt.Errorf("start city: %w", err)
	}

	s := &search{
		store:    p.store,
		weights:  p.weights,
		req:      req,
		expanded: make(map[state]struct{}),
	}
	return s.run()
}

// search holds the state of one Plan call and is discarded afterwards.
type search struct {
	store    graph.Store
	weights  Weights
	req      Request
	frontier frontier
	expanded map[state]struct{}
	seq      int
	stats    Stats
}

func (s *search) run() (*Itinerary, error) {
	s.push(&node{city: s.req.Start})

	for s.frontier.Len() > 0 {
		n := heap.Pop(&s.frontier).(*node)
		key := state{city: n.city, day: n.day}
		if _, seen := s.expanded[key]; seen {
			s.stats.Skipped++
			continue
		}
		s.expanded[key] = struct{}{}
		s.stats.Expanded++

		if n.day == s.req.Days {
			return &Itinerary{Path: n.path(), TotalCost: n.cost, Stats: s.stats}, nil
		}
		if err := s.expand(n); err != nil {
			return nil, err
		}
	}
	return &Itinerary{Path: []string{}, Stats: s.stats}, nil
}

func (s *search) expand(n *node) error {
	city, err := s.store.City(n.city)
	if err != nil {
		return fmt.Errorf("expand %s on day %d: %w", n.city, n.day, err)
	}
	edges, err := s.store.OutgoingEdges(n.city)
	if err != nil {
		return fmt.Errorf("edges of %s: %w", n.city, err)
	}

	bonus := city.Rating * s.weights.RatingWeight
	if city.Category == s.req.Preference {
		bonus += s.weights.PreferenceBonus
	}
	h := (s.req.Days - n.day) * s.weights.DayEstimate

	for _, e := range edges {
		cost := n.cost + e.TravelCost + city.DailyCost
		if cost > s.req.Budget {
			s.stats.Pruned++
			continue
		}
		s.push(&node{
			priority: cost - bonus + h,
			city:     e.To,
			cost:     cost,
			day:      n.day + 1,
			parent:   n,
		})
	}
	return nil
}

func (s *search) push(n *node) {
	n.seq = s.seq
	s.seq++
	s.stats.Pushed++
	heap.Push(&s.frontier, n)
}
