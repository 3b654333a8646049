package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	jnl, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { jnl.Close() })
	return jnl
}

func TestRecordAndListOrders(t *testing.T) {
	ctx := context.Background()
	jnl := openTestJournal(t)

	first := OrderRecord{
		PlacedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Symbol:     "GBPUSD",
		OrderType:  "Buy Limit",
		Volume:     1.42,
		Entry:      1.14480,
		StopLoss:   1.14336,
		TakeProfit: 1.28930,
		ResultCode: "TRADE_RETCODE_DONE",
		OrderID:    "46870472",
	}
	second := OrderRecord{
		PlacedAt:   time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
		Symbol:     "XAUUSD",
		OrderType:  "Sell",
		Volume:     0.15,
		Entry:      1950.0,
		StopLoss:   1960.0,
		TakeProfit: 1900.0,
		ResultCode: "TRADE_RETCODE_DONE",
		OrderID:    "46870473",
	}

	require.NoError(t, jnl.RecordOrder(ctx, first))
	require.NoError(t, jnl.RecordOrder(ctx, second))

	records, err := jnl.ListOrders(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "GBPUSD", records[0].Symbol)
	assert.Equal(t, "Buy Limit", records[0].OrderType)
	assert.Equal(t, 1.42, records[0].Volume)
	assert.Equal(t, "46870472", records[0].OrderID)
	assert.Equal(t, "XAUUSD", records[1].Symbol)
	assert.True(t, records[0].PlacedAt.Before(records[1].PlacedAt))
}

func TestRecordOrderFillsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	jnl := openTestJournal(t)

	require.NoError(t, jnl.RecordOrder(ctx, OrderRecord{
		Symbol:     "EURUSD",
		OrderType:  "Buy",
		Volume:     0.30,
		ResultCode: "TRADE_RETCODE_DONE",
	}))

	records, err := jnl.ListOrders(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].PlacedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), records[0].PlacedAt, time.Minute)
}

func TestListOrdersOldestFirst(t *testing.T) {
	ctx := context.Background()
	jnl := openTestJournal(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	// Insert out of order; listing must sort by placement time.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		require.NoError(t, jnl.RecordOrder(ctx, OrderRecord{
			PlacedAt:  base.Add(offset),
			Symbol:    "GBPUSD",
			OrderType: "Buy",
			Volume:    0.10,
		}))
	}

	records, err := jnl.ListOrders(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].PlacedAt.Before(records[i-1].PlacedAt))
	}
}

func TestListOrdersEmpty(t *testing.T) {
	jnl := openTestJournal(t)

	records, err := jnl.ListOrders(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListOrdersTimeRange(t *testing.T) {
	ctx := context.Background()
	jnl := openTestJournal(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, jnl.RecordOrder(ctx, OrderRecord{
			PlacedAt:  base.Add(time.Duration(i) * time.Hour),
			Symbol:    "GBPUSD",
			OrderType: "Buy",
			Volume:    0.10,
		}))
	}

	records, err := jnl.ListOrders(ctx, base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].PlacedAt.Equal(base.Add(time.Hour)))
	assert.True(t, records[1].PlacedAt.Equal(base.Add(2*time.Hour)))

	// Open-ended lower bound.
	records, err = jnl.ListOrders(ctx, time.Time{}, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Open-ended upper bound.
	records, err = jnl.ListOrders(ctx, base.Add(3*time.Hour), time.Time{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
