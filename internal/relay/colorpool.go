package relay

import (
	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
)

// ColorPool hands out display colors to connections. Checkout takes from the
// head, release appends at the tail, so a released color is reused only after
// everything queued ahead of it.
type ColorPool struct {
	colors []string
}

func NewColorPool(palette []string) *ColorPool {
	colors := make([]string, len(palette))
	copy(colors, palette)

	return &ColorPool{colors: colors}
}

// Checkout - takes the next unused color from the head of the pool.
func (that *ColorPool) Checkout() (string, error) {
	if len(that.colors) == 0 {
		return "", apperror.ErrEmptyColorPool
	}

	color := that.colors[0]
	that.colors = that.colors[1:]

	return color, nil
}

// Release - returns a color to the tail of the pool.
func (that *ColorPool) Release(color string) {
	that.colors = append(that.colors, color)
}

// Remaining - the number of unused colors left.
func (that *ColorPool) Remaining() int {
	return len(that.colors)
}
