package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcpmon/mcpmon/internal/domain"
)

func TestCache_GetFreshness(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		observed  time.Time
		readAt    time.Time
		wantFresh bool
	}{
		{
			name:      "immediately fresh",
			observed:  base,
			readAt:    base,
			wantFresh: true,
		},
		{
			name:      "fresh just inside the window",
			observed:  base,
			readAt:    base.Add(30*time.Second - time.Millisecond),
			wantFresh: true,
		},
		{
			name:      "stale exactly at the window boundary",
			observed:  base,
			readAt:    base.Add(30 * time.Second),
			wantFresh: false,
		},
		{
			name:      "stale well past the window",
			observed:  base,
			readAt:    base.Add(5 * time.Minute),
			wantFresh: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache := NewCache(DefaultFreshnessWindow)
			cache.Put("alpha", domain.HealthStateHealthy, tc.observed)

			entry, fresh := cache.Get("alpha", tc.readAt)
			require.Equal(t, tc.wantFresh, fresh)
			if fresh {
				require.Equal(t, domain.HealthStateHealthy, entry.State)
				require.Equal(t, tc.observed, entry.ObservedAt)
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	t.Parallel()

	cache := NewCache(DefaultFreshnessWindow)

	_, fresh := cache.Get("missing", time.Now())
	require.False(t, fresh)
}

func TestCache_PutOverwrites(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cache := NewCache(DefaultFreshnessWindow)
	cache.Put("alpha", domain.HealthStateHealthy, now.Add(-time.Second))
	cache.Put("alpha", domain.HealthStateUnhealthy, now)

	entry, fresh := cache.Get("alpha", now)
	require.True(t, fresh)
	require.Equal(t, domain.HealthStateUnhealthy, entry.State)
	require.Equal(t, now, entry.ObservedAt)
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cache := NewCache(DefaultFreshnessWindow)
	cache.Put("alpha", domain.HealthStateHealthy, now)
	cache.Invalidate("alpha")

	_, fresh := cache.Get("alpha", now)
	require.False(t, fresh)
}

func TestNewCache_defaultsNonPositiveWindow(t *testing.T) {
	t.Parallel()

	cache := NewCache(0)
	require.Equal(t, DefaultFreshnessWindow, cache.window)
}
