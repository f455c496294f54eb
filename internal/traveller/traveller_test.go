package traveller_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := traveller.NewMemoryStore()
	req := planner.Request{Start: "Paris", Budget: 500, Days: 2, Preference: graph.CategoryCultural}

	ana, err := s.Add(ctx, traveller.New("ana", req))
	require.NoError(t, err)
	ben, err := s.Add(ctx, traveller.New("ben", req))
	require.NoError(t, err)
	assert.Equal(t, int64(1), ana.ID)
	assert.Equal(t, int64(2), ben.ID)
	assert.Equal(t, req, ana.Request())

	require.NoError(t, s.SaveResult(ctx, ben.ID, "Paris → Rome | $170"))
	got, err := s.Get(ctx, ben.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris → Rome | $170", got.Result)

	require.NoError(t, s.Delete(ctx, ana.ID))
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ben", list[0].Username)

	// IDs are not reused after a delete.
	cleo, err := s.Add(ctx, traveller.New("cleo", req))
	require.NoError(t, err)
	assert.Equal(t, int64(3), cleo.ID)
}

func TestMemoryStore_Unknown(t *testing.T) {
	ctx := context.Background()
	s := traveller.NewMemoryStore()

	_, err := s.Get(ctx, 7)
	assert.ErrorIs(t, err, traveller.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 7), traveller.ErrNotFound)
	assert.ErrorIs(t, s.SaveResult(ctx, 7, "x"), traveller.ErrNotFound)
}
