package planner

import "container/heap"

// node is one entry of the search tree. The itinerary prefix is recovered by
// walking parent links, so pushing a node never copies a path.
type node struct {
	priority int
	city     string
	cost     int
	day      int
	seq      int // insertion order, last tie-breaker
	parent   *node
}

// path returns the cities from the root to n.
func (n *node) path() []string {
	depth := 0
	for cur := n; cur != nil; cur = cur.parent {
		depth++
	}
	out := make([]string, depth)
	for cur := n; cur != nil; cur = cur.parent {
		depth--
		out[depth] = cur.city
	}
	return out
}

// state identifies a (city, day) pair in the expanded set.
type state struct {
	city string
	day  int
}

// frontier implements heap.Interface as a min-heap on priority.
// Ties fall back to city name, cost, day, then insertion order.
type frontier []*node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.city != b.city {
		return a.city < b.city
	}
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.day != b.day {
		return a.day < b.day
	}
	return a.seq < b.seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(*node))
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

var _ heap.Interface = (*frontier)(nil)
