package relay

import (
	"testing"

	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorPool_Checkout(t *testing.T) {
	t.Run("Hands out colors in palette order", func(t *testing.T) {
		// Given: a pool over a three color palette
		pool := NewColorPool([]string{"red", "blue", "green"})

		// When: colors are checked out
		first, err := pool.Checkout()
		require.NoError(t, err)
		second, err := pool.Checkout()
		require.NoError(t, err)

		// Then: they come out in order and are distinct
		assert.Equal(t, "red", first)
		assert.Equal(t, "blue", second)
		assert.Equal(t, 1, pool.Remaining())
	})

	t.Run("Returns ErrEmptyColorPool when exhausted", func(t *testing.T) {
		// Given: a pool with a single color already checked out
		pool := NewColorPool([]string{"red"})
		_, err := pool.Checkout()
		require.NoError(t, err)

		// When: another checkout is attempted
		_, err = pool.Checkout()

		// Then: the empty pool error is returned
		assert.ErrorIs(t, err, apperror.ErrEmptyColorPool)
	})
}

func TestColorPool_Release(t *testing.T) {
	t.Run("Released color goes to the tail", func(t *testing.T) {
		// Given: a pool with red checked out and blue still queued
		pool := NewColorPool([]string{"red", "blue"})
		red, err := pool.Checkout()
		require.NoError(t, err)

		// When: red is released and a new checkout happens
		pool.Release(red)
		next, err := pool.Checkout()

		// Then: blue is handed out first; red waits behind it
		require.NoError(t, err)
		assert.Equal(t, "blue", next)

		reused, err := pool.Checkout()
		require.NoError(t, err)
		assert.Equal(t, "red", reused)
	})

	t.Run("Release and immediate checkout reuses the color when nothing is queued", func(t *testing.T) {
		// Given: a fully drained single-color pool
		pool := NewColorPool([]string{"red"})
		red, err := pool.Checkout()
		require.NoError(t, err)

		// When: the color is released and requested again
		pool.Release(red)
		reused, err := pool.Checkout()

		// Then: the same color comes back
		require.NoError(t, err)
		assert.Equal(t, "red", reused)
	})
}
