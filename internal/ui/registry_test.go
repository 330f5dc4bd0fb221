package ui

import (
	"fmt"
	"testing"
	"time"

	"ligapro-predictor/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReusesControllers(t *testing.T) {
	r, err := NewRegistry(&config.Config{DefaultHome: "Emelec", DefaultAway: "Barcelona SC"}, newDirectory(t), nil, zerolog.Nop())
	require.NoError(t, err)

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())

	a.Swap()
	assert.Equal(t, "Emelec", r.Get("b").Snapshot().Home, "sessions must not share selection")
}

func TestRegistryRejectsUnknownDefaults(t *testing.T) {
	_, err := NewRegistry(&config.Config{DefaultHome: "Emelec", DefaultAway: "Santos"}, newDirectory(t), nil, zerolog.Nop())
	assert.Error(t, err)
}

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	r, err := NewRegistry(&config.Config{DefaultHome: "Emelec", DefaultAway: "Barcelona SC"}, newDirectory(t), nil, zerolog.Nop())
	require.NoError(t, err)
	clock := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRegistryLookupAndPreviewDoNotCreate(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, ok := r.Lookup("a")
	assert.False(t, ok)

	p := r.Preview("a")
	assert.Equal(t, "Emelec", p.Snapshot().Home)
	assert.Equal(t, 0, r.Len())

	c := r.Get("a")
	got, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestRegistrySweepsIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(t)

	r.Get("old")
	*clock = clock.Add(20 * time.Minute)
	r.Get("fresh")
	*clock = clock.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	_, ok := r.Lookup("old")
	assert.False(t, ok)
	_, ok = r.Lookup("fresh")
	assert.True(t, ok)
}

func TestRegistryLookupKeepsSessionAlive(t *testing.T) {
	r, clock := newTestRegistry(t)

	r.Get("a")
	*clock = clock.Add(25 * time.Minute)
	_, _ = r.Lookup("a")
	*clock = clock.Add(25 * time.Minute)

	assert.Zero(t, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryEvictsOldestAtCapacity(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.maxSessions = 3

	for i := range 10 {
		r.Get(fmt.Sprintf("s%d", i))
		*clock = clock.Add(time.Second)
	}

	assert.Equal(t, 3, r.Len())
	for _, id := range []string{"s7", "s8", "s9"} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, id)
	}
}
