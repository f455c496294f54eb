// Package traveller keeps saved travel requests together with the last
// itinerary planned for each of them.
package traveller

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
)

// ErrNotFound is returned for an unknown traveller ID.
var ErrNotFound = errors.New("traveller: not found")

// Traveller is one saved request. Result is empty until a plan is found.
type Traveller struct {
	ID         int64          `json:"id"`
	Username   string         `json:"username"`
	StartCity  string         `json:"start_city"`
	Budget     int            `json:"budget"`
	Days       int            `json:"days"`
	Preference graph.Category `json:"preference"`
	Result     string         `json:"result"`
}

// New returns an unsaved traveller for a validated planner request.
func New(username string, req planner.Request) Traveller {
	return Traveller{
		Username:   username,
		StartCity:  req.Start,
		Budget:     req.Budget,
		Days:       req.Days,
		Preference: req.Preference,
	}
}

// Request converts the saved fields back into a planner request.
func (t Traveller) Request() planner.Request {
	return planner.Request{Start: t.StartCity, Budget: t.Budget, Days: t.Days, Preference: t.Preference}
}

// Store persists travellers. IDs are assigned by Add and never reused.
type Store interface {
	Add(ctx context.Context, t Traveller) (Traveller, error)
	Get(ctx context.Context, id int64) (Traveller, error)
	List(ctx context.Context) ([]Traveller, error)
	Delete(ctx context.Context, id int64) error
	SaveResult(ctx context.Context, id int64, result string) error
}

// MemoryStore is a Store that lives as long as the process.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Traveller
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[int64]Traveller)}
}

func (m *MemoryStore) Add(_ context.Context, t Traveller) (Traveller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	m.byID[t.ID] = t
	return t, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (Traveller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byID[id]
	if !ok {
		return Traveller{}, ErrNotFound
	}
	return t, nil
}

// List returns travellers in ID order.
func (m *MemoryStore) List(_ context.Context) ([]Traveller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Traveller, 0, len(m.byID))
	for _, t := range m.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) SaveResult(_ context.Context, id int64, result string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	t.Result = result
	m.byID[id] = t
	return nil
}
