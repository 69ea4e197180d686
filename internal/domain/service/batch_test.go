//go:build unit

package service_test

import (
	"strings"
	"testing"
	"time"

	"rental-storefront/internal/domain/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockedService(t *testing.T) *service.Service {
	t.Helper()
	svc, err := service.NewService("Party Tent", "heavy-equipment", service.KindEquipment, 15000, 0, true)
	require.NoError(t, err)
	return svc
}

func addBatch(t *testing.T, svc *service.Service, id string, quantity int, purchased time.Time) {
	t.Helper()
	b, err := service.NewBatch(id, "acme", quantity, decimal.NewFromInt(100), purchased, nil)
	require.NoError(t, err)
	require.NoError(t, svc.AddBatch(b))
}

func TestAddBatch(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("increments total quantity", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "b1", 5, base)
		addBatch(t, svc, "b2", 3, base.AddDate(0, 0, 1))

		assert.Equal(t, 8, svc.Quantity())
		assert.Equal(t, 8, svc.BatchQuantitySum())
	})

	t.Run("rejects duplicate active batch id", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "b1", 5, base)

		dup, err := service.NewBatch("b1", "acme", 2, decimal.NewFromInt(100), base, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, svc.AddBatch(dup), service.ErrBatchExists)
	})

	t.Run("rejects empty batch id", func(t *testing.T) {
		_, err := service.NewBatch("", "acme", 2, decimal.NewFromInt(100), base, nil)
		assert.ErrorIs(t, err, service.ErrEmptyBatchID)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := service.NewBatch("b1", "acme", -1, decimal.NewFromInt(100), base, nil)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})
}

func TestReduceQuantity(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		batches       []int // quantities, oldest first
		reduce        int
		wantConsumed  int
		wantShortfall int
		wantTotal     int
	}{
		{
			name:         "consumes oldest batch first",
			batches:      []int{5, 3},
			reduce:       4,
			wantConsumed: 4,
			wantTotal:    4,
		},
		{
			name:         "spans multiple batches",
			batches:      []int{5, 3},
			reduce:       7,
			wantConsumed: 7,
			wantTotal:    1,
		},
		{
			name:          "shortfall floors at zero",
			batches:       []int{5, 3},
			reduce:        10,
			wantConsumed:  8,
			wantShortfall: 2,
			wantTotal:     0,
		},
		{
			name:         "zero amount is a no-op",
			batches:      []int{5},
			reduce:       0,
			wantConsumed: 0,
			wantTotal:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStockedService(t)
			for i, qty := range tt.batches {
				addBatch(t, svc, "b"+string(rune('1'+i)), qty, base.AddDate(0, 0, i))
			}

			result, err := svc.ReduceQuantity(tt.reduce)
			require.NoError(t, err)

			assert.Equal(t, tt.reduce, result.Requested)
			assert.Equal(t, tt.wantConsumed, result.Consumed)
			assert.Equal(t, tt.wantShortfall, result.Shortfall)
			assert.Equal(t, tt.wantTotal, svc.Quantity())
			assert.Equal(t, tt.wantTotal, svc.BatchQuantitySum())
		})
	}

	t.Run("oldest batch drains before newer ones", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "old", 5, base)
		addBatch(t, svc, "new", 5, base.AddDate(0, 0, 1))

		_, err := svc.ReduceQuantity(5)
		require.NoError(t, err)

		for _, b := range svc.Batches() {
			switch b.ID() {
			case "old":
				assert.False(t, b.IsActive())
				assert.Equal(t, 0, b.Quantity())
			case "new":
				assert.True(t, b.IsActive())
				assert.Equal(t, 5, b.Quantity())
			}
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		svc := newStockedService(t)
		_, err := svc.ReduceQuantity(-1)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})
}

func TestRestoreQuantity(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("credits the newest active batch", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "old", 5, base)
		addBatch(t, svc, "new", 3, base.AddDate(0, 0, 1))

		result, err := svc.RestoreQuantity(2, base.AddDate(0, 0, 2))
		require.NoError(t, err)

		assert.Equal(t, 2, result.Restored)
		assert.Equal(t, "new", result.BatchID)
		assert.False(t, result.Synthetic)
		assert.Equal(t, 10, svc.Quantity())
	})

	t.Run("creates a synthetic batch when none remain", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "b1", 3, base)
		_, err := svc.ReduceQuantity(3)
		require.NoError(t, err)

		result, err := svc.RestoreQuantity(2, base.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.True(t, result.Synthetic)
		assert.True(t, strings.HasPrefix(result.BatchID, "restored-"))
		assert.Equal(t, 2, svc.Quantity())
		assert.Equal(t, 2, svc.BatchQuantitySum())
	})

	t.Run("reduce then restore round-trips the total", func(t *testing.T) {
		svc := newStockedService(t)
		addBatch(t, svc, "b1", 5, base)
		addBatch(t, svc, "b2", 3, base.AddDate(0, 0, 1))

		reduced, err := svc.ReduceQuantity(6)
		require.NoError(t, err)
		_, err = svc.RestoreQuantity(reduced.Consumed, base.AddDate(0, 0, 2))
		require.NoError(t, err)

		assert.Equal(t, 8, svc.Quantity())
		assert.Equal(t, svc.BatchQuantitySum(), svc.Quantity())
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		svc := newStockedService(t)
		result, err := svc.RestoreQuantity(0, base)
		require.NoError(t, err)
		assert.Zero(t, result.Restored)
		assert.Empty(t, svc.Batches())
	})
}

func TestBatchExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expiring := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	svc := newStockedService(t)
	for _, b := range []struct {
		id      string
		expires *time.Time
	}{
		{"soon", expiring(3)},
		{"later", expiring(30)},
		{"past", expiring(-1)},
		{"never", nil},
	} {
		batch, err := service.NewBatch(b.id, "acme", 1, decimal.NewFromInt(100), now.AddDate(0, 0, -10), b.expires)
		require.NoError(t, err)
		require.NoError(t, svc.AddBatch(batch))
	}

	t.Run("expiring within horizon", func(t *testing.T) {
		got := svc.ExpiringBatches(now, 7)
		require.Len(t, got, 1)
		assert.Equal(t, "soon", got[0].ID())
	})

	t.Run("already expired", func(t *testing.T) {
		got := svc.ExpiredBatches(now)
		require.Len(t, got, 1)
		assert.Equal(t, "past", got[0].ID())
	})
}
