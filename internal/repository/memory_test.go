package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Korixo/demolition-tracker/internal/common"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CreateRecordRequest{
		OwnerName:      strPtr("Sarah Parker"),
		BuildingName:   "Storage Silo",
		DemolitionDate: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
		Notes:          strPtr("confirmed on site"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Storage Silo", got.BuildingName)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "confirmed on site", *got.Notes)

	updated, err := store.Update(ctx, created.ID, UpdateRecordRequest{
		DemolitionDate: timePtr(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Storage Silo", updated.BuildingName)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), updated.DemolitionDate)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStoreListOrderedByDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	later, err := store.Create(ctx, CreateRecordRequest{
		BuildingName:   "Old Hall",
		DemolitionDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	sooner, err := store.Create(ctx, CreateRecordRequest{
		BuildingName:   "Storage Silo",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, sooner.ID, recs[0].ID)
	assert.Equal(t, later.ID, recs[1].ID)
}

func TestMemoryStoreValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, CreateRecordRequest{
		BuildingName:   "   ",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = store.Create(ctx, CreateRecordRequest{BuildingName: "Silo"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = store.Update(ctx, uuid.New(), UpdateRecordRequest{BuildingName: strPtr("")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMemoryStoreMissingRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Update(ctx, uuid.New(), UpdateRecordRequest{BuildingName: strPtr("Silo")})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), common.ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, CreateRecordRequest{
		OwnerName:      strPtr("Sarah Parker"),
		BuildingName:   "Storage Silo",
		DemolitionDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	*got.OwnerName = "tampered"
	got.BuildingName = "tampered"

	again, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Parker", *again.OwnerName)
	assert.Equal(t, "Storage Silo", again.BuildingName)
}
