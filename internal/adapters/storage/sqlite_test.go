package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/levswing/internal/adapters/storage"
	"github.com/alejandrodnm/levswing/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSQLiteStorage_SaveAndLoadCloses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.SaveCloses(ctx, "TQQQ", []domain.Close{
		{Date: day(2024, 1, 3), Price: 51},
		{Date: day(2024, 1, 2), Price: 50},
	})
	require.NoError(t, err)

	closes, err := db.LoadCloses(ctx, "TQQQ", time.Time{})
	require.NoError(t, err)
	require.Len(t, closes, 2)

	// Ordenados por fecha asc
	assert.Equal(t, day(2024, 1, 2), closes[0].Date)
	assert.InDelta(t, 50.0, closes[0].Price, 1e-9)
	assert.InDelta(t, 51.0, closes[1].Price, 1e-9)
}

func TestSQLiteStorage_LoadClosesSince(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveCloses(ctx, "TQQQ", []domain.Close{
		{Date: day(2010, 2, 11), Price: 1},
		{Date: day(2024, 1, 2), Price: 50},
	}))

	closes, err := db.LoadCloses(ctx, "TQQQ", day(2020, 1, 1))
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.Equal(t, day(2024, 1, 2), closes[0].Date)
}

func TestSQLiteStorage_UpsertRewritesAdjustedCloses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveCloses(ctx, "SQQQ", []domain.Close{{Date: day(2024, 1, 2), Price: 20}}))
	// Mismo valor: no-op
	require.NoError(t, db.SaveCloses(ctx, "SQQQ", []domain.Close{{Date: day(2024, 1, 2), Price: 20}}))
	// Ajuste por split
	require.NoError(t, db.SaveCloses(ctx, "SQQQ", []domain.Close{{Date: day(2024, 1, 2), Price: 40}}))

	closes, err := db.LoadCloses(ctx, "SQQQ", time.Time{})
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.InDelta(t, 40.0, closes[0].Price, 1e-9)
}

func TestSQLiteStorage_SymbolsAreIsolated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveCloses(ctx, "TQQQ", []domain.Close{{Date: day(2024, 1, 2), Price: 50}}))

	closes, err := db.LoadCloses(ctx, "SQQQ", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, closes)
}

func TestSQLiteStorage_SaveClosesValidation(t *testing.T) {
	db := newTestDB(t)

	assert.ErrorIs(t, db.SaveCloses(context.Background(), "", []domain.Close{{Date: day(2024, 1, 2), Price: 1}}), storage.ErrInvalidInput)
	assert.NoError(t, db.SaveCloses(context.Background(), "TQQQ", nil))
}
