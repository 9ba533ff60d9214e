// Package core provides the shared model for the maze game: the tile
// palette, world snapshots, and control commands. It contains no external
// dependencies (especially no Bubble Tea) to keep protocol and game logic
// pure and testable.
package core

import "math"

// Rect is an axis-aligned region of screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NormDeg wraps an angle in degrees into [0, 360).
func NormDeg(a int) int {
	a %= 360
	if a < 0 {
		a += 360
	}
	return a
}

// Deg converts an angle in radians to a nonnegative integer number of
// degrees, which is the only angle form that goes on the wire.
func Deg(rad float64) int {
	return NormDeg(int(math.Round(rad * 180 / math.Pi)))
}

// Rad converts an angle in degrees to radians.
func Rad(deg int) float64 {
	return float64(deg) * math.Pi / 180
}
