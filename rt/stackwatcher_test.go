package rt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackWatcherDepthLimit(t *testing.T) {
	w := NewStackWatcher(PolicyDepth)
	w.SetMaxDepth(2)

	require.NoError(t, w.EnterMethod(0))
	require.NoError(t, w.EnterMethod(0))
	err := w.EnterMethod(0)
	require.ErrorIs(t, err, ErrOutOfStack)

	w.EnterCatchBlock(0, 0)
	assert.Zero(t, w.CurrentDepth())
	assert.Zero(t, w.CurrentSize())
	assert.NoError(t, w.EnterMethod(0))
	assert.Equal(t, int32(1), w.CurrentDepth())
}

func TestStackWatcherSizeLimit(t *testing.T) {
	w := NewStackWatcher(PolicySize)
	w.SetMaxSize(100)

	require.NoError(t, w.EnterMethod(30))
	assert.Equal(t, int32(30+ReservedSandboxSlots+ReservedHostSlots), w.CurrentSize())
	require.NoError(t, w.EnterMethod(30), "exactly at the limit")
	assert.ErrorIs(t, w.EnterMethod(0), ErrOutOfStack)
	assert.Zero(t, w.CurrentDepth(), "depth is not tracked under PolicySize")
}

func TestStackWatcherHugeFrame(t *testing.T) {
	w := NewStackWatcher(PolicySize)
	w.SetMaxSize(100)

	assert.ErrorIs(t, w.EnterMethod(math.MaxInt32-5), ErrOutOfStack)
	assert.Zero(t, w.CurrentSize())
	require.NoError(t, w.EnterMethod(10))
	assert.ErrorIs(t, w.EnterMethod(math.MaxInt32), ErrOutOfStack)
	assert.Equal(t, int32(10+ReservedSandboxSlots+ReservedHostSlots), w.CurrentSize())
}

func TestStackWatcherNegativeFrame(t *testing.T) {
	tests := []struct {
		name   string
		policy StackPolicy
	}{
		{"depth", PolicyDepth},
		{"size", PolicySize},
		{"none", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewStackWatcher(tt.policy)
			w.SetMaxSize(100)
			assert.ErrorIs(t, w.EnterMethod(-1000), ErrOutOfStack)
			assert.ErrorIs(t, w.EnterMethod(math.MinInt32), ErrOutOfStack)
			assert.Zero(t, w.CurrentDepth())
			assert.Zero(t, w.CurrentSize())

			require.NoError(t, w.EnterMethod(5))
			assert.ErrorIs(t, w.ExitMethod(-5), ErrOutOfStack)
		})
	}
}

func TestStackWatcherBalancedCalls(t *testing.T) {
	w := NewStackWatcher(PolicyAll)
	for _, size := range []int32{4, 8, 2} {
		require.NoError(t, w.EnterMethod(size))
	}
	assert.Equal(t, int32(3), w.CurrentDepth())
	for _, size := range []int32{2, 8, 4} {
		require.NoError(t, w.ExitMethod(size))
	}
	assert.Zero(t, w.CurrentDepth())
	assert.Zero(t, w.CurrentSize())
}

func TestStackWatcherUnderflow(t *testing.T) {
	tests := []struct {
		name   string
		policy StackPolicy
	}{
		{"depth", PolicyDepth},
		{"size", PolicySize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewStackWatcher(tt.policy)
			assert.ErrorIs(t, w.ExitMethod(0), ErrOutOfStack)
		})
	}
}

func TestStackWatcherDisabled(t *testing.T) {
	w := NewStackWatcher(0)
	w.SetMaxDepth(1)
	w.SetMaxSize(1)
	for i := 0; i < 10; i++ {
		require.NoError(t, w.EnterMethod(1000))
	}
	assert.Zero(t, w.CurrentDepth())
	assert.NoError(t, w.ExitMethod(1000))
}

func TestStackWatcherCatchBlockStamp(t *testing.T) {
	w := NewStackWatcher(PolicyAll)
	require.NoError(t, w.EnterMethod(1))
	depth, size := w.CurrentDepth(), w.CurrentSize()

	// Frames unwound by a throw never call ExitMethod.
	require.NoError(t, w.EnterMethod(5))
	require.NoError(t, w.EnterMethod(6))

	w.EnterCatchBlock(depth, size)
	assert.Equal(t, depth, w.CurrentDepth())
	assert.Equal(t, size, w.CurrentSize())
	require.NoError(t, w.ExitMethod(1))
	assert.Zero(t, w.CurrentDepth())

	w.Reset()
	assert.Zero(t, w.CurrentSize())
}
