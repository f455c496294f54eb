package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/store/sqlitestore"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

func TestTravellers_CRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)
	ts, err := s.Travellers(ctx)
	require.NoError(t, err)

	req := planner.Request{Start: "Paris", Budget: 500, Days: 2, Preference: graph.CategoryCultural}
	ana, err := ts.Add(ctx, traveller.New("ana", req))
	require.NoError(t, err)
	ben, err := ts.Add(ctx, traveller.New("ben", req))
	require.NoError(t, err)
	assert.Less(t, ana.ID, ben.ID)

	got, err := ts.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana, got)
	assert.Equal(t, req, got.Request())

	require.NoError(t, ts.SaveResult(ctx, ana.ID, "Paris → Rome → Venice | $290"))
	got, err = ts.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris → Rome → Venice | $290", got.Result)

	require.NoError(t, ts.Delete(ctx, ben.ID))
	list, err := ts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ana", list[0].Username)
}

func TestTravellers_Unknown(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)
	ts, err := s.Travellers(ctx)
	require.NoError(t, err)

	_, err = ts.Get(ctx, 42)
	assert.ErrorIs(t, err, traveller.ErrNotFound)
	assert.ErrorIs(t, ts.Delete(ctx, 42), traveller.ErrNotFound)
	assert.ErrorIs(t, ts.SaveResult(ctx, 42, "x"), traveller.ErrNotFound)

	list, err := ts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTravellers_SurviveReseedAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "travel.db")
	city := graph.City{Name: "Paris", DailyCost: 120, Rating: 5, Category: graph.CategoryCultural}

	s, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, []graph.City{city}, nil))
	ts, err := s.Travellers(ctx)
	require.NoError(t, err)
	_, err = ts.Add(ctx, traveller.New("ana", planner.Request{Start: "Paris", Budget: 10, Days: 0, Preference: graph.CategoryBeach}))
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, []graph.City{city}, nil))
	require.NoError(t, s.Close())

	s, err = sqlitestore.Open(path)
	require.NoError(t, err)
	defer s.Close()
	ts, err = s.Travellers(ctx)
	require.NoError(t, err)
	list, err := ts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ana", list[0].Username)
	assert.Equal(t, graph.CategoryBeach, list[0].Preference)
}
