//go:build unit

package delivery_test

import (
	"testing"
	"time"

	"rental-storefront/internal/domain/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start time.Time, minutes int) delivery.Window {
	t.Helper()
	w, err := delivery.NewWindow(start, minutes)
	require.NoError(t, err)
	return w
}

func TestNewWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("positive duration", func(t *testing.T) {
		w, err := delivery.NewWindow(start, 90)
		require.NoError(t, err)
		assert.Equal(t, start.Add(90*time.Minute), w.End())
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		_, err := delivery.NewWindow(start, 0)
		assert.ErrorIs(t, err, delivery.ErrInvalidWindow)
	})
}

func TestConflictsWith(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	buffer := time.Hour

	// existing occupies 10:00-12:00
	existing := func(t *testing.T) delivery.Window {
		return mustWindow(t, base, 120)
	}

	tests := []struct {
		name         string
		start        time.Time
		minutes      int
		wantConflict bool
	}{
		{
			name:         "start inside existing",
			start:        base.Add(30 * time.Minute),
			minutes:      30,
			wantConflict: true,
		},
		{
			name:         "end inside existing",
			start:        base.Add(-30 * time.Minute),
			minutes:      60,
			wantConflict: true,
		},
		{
			name:         "existing fully inside requested",
			start:        base.Add(-time.Hour),
			minutes:      300,
			wantConflict: true,
		},
		{
			name:         "requested fully inside existing",
			start:        base.Add(30 * time.Minute),
			minutes:      60,
			wantConflict: true,
		},
		{
			name:         "start within buffer after existing ends",
			start:        base.Add(150 * time.Minute), // 12:30, buffer runs to 13:00
			minutes:      60,
			wantConflict: true,
		},
		{
			name:         "start exactly at buffer boundary is clear",
			start:        base.Add(180 * time.Minute), // 13:00
			minutes:      60,
			wantConflict: false,
		},
		{
			name:         "well before existing",
			start:        base.Add(-3 * time.Hour),
			minutes:      60,
			wantConflict: false,
		},
		{
			name:         "well after existing and buffer",
			start:        base.Add(5 * time.Hour),
			minutes:      60,
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requested := mustWindow(t, tt.start, tt.minutes)
			assert.Equal(t, tt.wantConflict, requested.ConflictsWith(existing(t), buffer))
		})
	}
}

func TestNextAvailableAfter(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w := mustWindow(t, start, 120)

	next := w.NextAvailableAfter(time.Hour)
	assert.Equal(t, start.Add(3*time.Hour), next)

	// a window starting exactly at next must not conflict
	follow := mustWindow(t, next, 60)
	assert.False(t, follow.ConflictsWith(w, time.Hour))
}
