package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStoreMemoizesListing(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached := NewCachedStore(inner)

	_, err := inner.Create(ctx, CreateRecordRequest{
		BuildingName:   "Storage Silo",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	first, err := cached.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Mutating a returned slice entry must not poison the cache.
	first[0].BuildingName = "tampered"
	second, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Storage Silo", second[0].BuildingName)
}

func TestCachedStoreInvalidatesOnMutation(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedStore(NewMemoryStore())

	recs, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	created, err := cached.Create(ctx, CreateRecordRequest{
		BuildingName:   "Old Hall",
		DemolitionDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	recs, err = cached.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	_, err = cached.Update(ctx, created.ID, UpdateRecordRequest{BuildingName: strPtr("New Hall")})
	require.NoError(t, err)

	recs, err = cached.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "New Hall", recs[0].BuildingName)

	require.NoError(t, cached.Delete(ctx, created.ID))
	recs, err = cached.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
