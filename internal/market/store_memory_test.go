package market_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLedger/internal/market"
)

func TestMemStore_UpsertKeepsSlot(t *testing.T) {
	s := market.NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, market.Item{ID: "x", Price: "1"}))
	require.NoError(t, s.Put(ctx, market.Item{ID: "y", Price: "2"}))
	require.NoError(t, s.Put(ctx, market.Item{ID: "x", Price: "9"}))

	items, err := s.Values(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "x", items[0].ID)
	assert.Equal(t, "9", items[0].Price)
	assert.Equal(t, "y", items[1].ID)
}

func TestMemStore_GetAbsent(t *testing.T) {
	s := market.NewMemStore()

	_, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore_ValuesEmpty(t *testing.T) {
	s := market.NewMemStore()

	items, err := s.Values(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
