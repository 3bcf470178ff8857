package memory_test

import (
	"context"
	"testing"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertReplacesById(t *testing.T) {
	store := memory.New()

	require.NoError(t, store.UpsertHotels(context.Background(), []schema.HotelRecord{
		{ID: "solvex_1", Name: "Old Name"},
		{ID: "solvex_2", Name: "Other"},
	}))
	require.NoError(t, store.UpsertHotels(context.Background(), []schema.HotelRecord{
		{ID: "solvex_1", Name: "New Name"},
	}))

	assert.Equal(t, 2, store.Len())

	record, found, err := store.Hotel(context.Background(), "solvex_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "New Name", record.Name)
}

func TestHotelMiss(t *testing.T) {
	store := memory.New()

	_, found, err := store.Hotel(context.Background(), "solvex_404")
	require.NoError(t, err)
	assert.False(t, found)
}
