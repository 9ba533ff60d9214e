package core

import "fmt"

// Direction codes lay out a 3x3 keypad in row-major order, so the code
// encodes a unit step on each axis: dx = code%3 - 1, dy = code/3 - 1.
// Remember that y grows downward.
const (
	DirUpLeft    = 0
	DirUp        = 1
	DirUpRight   = 2
	DirLeft      = 3
	DirHold      = 4 // stay in place
	DirRight     = 5
	DirDownLeft  = 6
	DirDown      = 7
	DirDownRight = 8
)

// Command is one parsed control line from the peer: a movement direction,
// an aim angle in degrees, and whether to attack this step.
type Command struct {
	Direction int // 0..8, keypad layout
	Angle     int // normalized to [0, 360)
	Attack    int // 0 or 1
}

// Vector returns the unit step the direction encodes, per axis.
func (c Command) Vector() (dx, dy int) {
	return c.Direction%3 - 1, c.Direction/3 - 1
}

// String renders the command in its wire form.
func (c Command) String() string {
	return fmt.Sprintf("%d %d %d", c.Direction, c.Angle, c.Attack)
}

// Intent is the movement the engine applies on every step until the next
// valid command replaces it. A rejected command leaves the previous
// intent in force rather than stopping the hero.
type Intent struct {
	DX, DY int
	Angle  int
	Attack bool
}

// Intent converts a validated command into the engine's form.
func (c Command) Intent() Intent {
	dx, dy := c.Vector()
	return Intent{DX: dx, DY: dy, Angle: c.Angle, Attack: c.Attack != 0}
}

// IdleIntent is the stance before any command arrives: hold position,
// face up-left, weapon quiet.
func IdleIntent() Intent {
	return Intent{Angle: 225}
}
