package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("starts at first group", func(t *testing.T) {
		nav := New(5)
		assert.Equal(t, 1, nav.Current())
		assert.Equal(t, 5, nav.Count())
		assert.True(t, nav.Valid())
	})

	t.Run("no groups means no valid state", func(t *testing.T) {
		nav := New(0)
		assert.Equal(t, 0, nav.Current())
		assert.False(t, nav.Valid())
	})
}

func TestPrevNextBounds(t *testing.T) {
	nav := New(3)

	// Prev at the lower bound is a no-op.
	nav.Prev()
	assert.Equal(t, 1, nav.Current())

	nav.Next()
	nav.Next()
	assert.Equal(t, 3, nav.Current())

	// Next at the upper bound is a no-op.
	nav.Next()
	assert.Equal(t, 3, nav.Current())

	nav.Prev()
	assert.Equal(t, 2, nav.Current())
}

func TestJump(t *testing.T) {
	nav := New(4)

	require.NoError(t, nav.Jump(3))
	assert.Equal(t, 3, nav.Current())

	// Out-of-range jumps are rejected and leave the selection alone.
	assert.ErrorIs(t, nav.Jump(0), ErrGroupOutOfRange)
	assert.ErrorIs(t, nav.Jump(5), ErrGroupOutOfRange)
	assert.Equal(t, 3, nav.Current())
}

func TestResize(t *testing.T) {
	t.Run("shrink clamps selection", func(t *testing.T) {
		nav := New(5)
		require.NoError(t, nav.Jump(5))

		nav.Resize(2)
		assert.Equal(t, 2, nav.Current())
		assert.True(t, nav.Valid())
	})

	t.Run("grow keeps selection", func(t *testing.T) {
		nav := New(2)
		require.NoError(t, nav.Jump(2))

		nav.Resize(10)
		assert.Equal(t, 2, nav.Current())
	})

	t.Run("to zero invalidates", func(t *testing.T) {
		nav := New(3)
		nav.Resize(0)
		assert.False(t, nav.Valid())
		assert.Equal(t, 0, nav.Current())
	})

	t.Run("from zero selects first", func(t *testing.T) {
		nav := New(0)
		nav.Resize(4)
		assert.Equal(t, 1, nav.Current())
	})

	t.Run("negative treated as zero", func(t *testing.T) {
		nav := New(3)
		nav.Resize(-1)
		assert.Equal(t, 0, nav.Count())
		assert.False(t, nav.Valid())
	})
}
