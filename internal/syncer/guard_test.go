package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuardBlocksSecondAcquire(t *testing.T) {
	g := newMemoryGuard(time.Minute)
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx, "s1"))
	assert.ErrorIs(t, g.Acquire(ctx, "s1"), ErrSeasonBusy)
	assert.NoError(t, g.Acquire(ctx, "s2"))
}

func TestMemoryGuardReleaseAllowsReacquire(t *testing.T) {
	g := newMemoryGuard(time.Minute)
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx, "s1"))
	g.Release(ctx, "s1")
	assert.NoError(t, g.Acquire(ctx, "s1"))
}

func TestMemoryGuardExpiry(t *testing.T) {
	g := newMemoryGuard(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx, "s1"))
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, g.Acquire(ctx, "s1"))
}

func TestNewActiveGuardDefaultsToMemory(t *testing.T) {
	g, err := NewActiveGuard("", "", 0, 0)
	require.NoError(t, err)
	_, ok := g.(*memoryGuard)
	assert.True(t, ok)
}
