package game

import (
	"math"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// Enemies live on the grid and step from cell to cell; bullets fly in
// continuous grid units. Both wear their remaining durability on their
// color: each hit pushes the sprite one shade darker.

type enemy struct {
	kind  core.Kind
	gx    int
	gy    int
	angle float64 // radians, facing the hero
	wound float64
	awake bool

	nextMove   float64 // ms until the next grid step
	nextStrike float64 // ms until the next shot or slash
	lastHit    float64 // ms since something wounded this enemy
}

func (e *enemy) alive() bool {
	return e.wound < enemyHP
}

func (e *enemy) hit(wound float64) {
	e.wound += wound
	e.lastHit = 0
	e.awake = true
}

// noticeable reports whether the enemy shows up in snapshots. A
// Chameleon blends into the maze unless something hit it recently.
func (e *enemy) noticeable() bool {
	if e.kind == core.Chameleon {
		return e.awake && e.lastHit < 1000/healSpeed
	}
	return true
}

func (e *enemy) color() byte {
	return e.kind.Code(int(e.wound))
}

// pos returns the center of the enemy's grid in world units.
func (e *enemy) pos() (float64, float64) {
	return float64(e.gx) + 0.5, float64(e.gy) + 0.5
}

type bullet struct {
	kind  core.Kind
	x, y  float64
	angle float64 // radians
	age   float64 // ms
}

// faded reports whether the bullet burnt through all its shades. A
// faded bullet no longer wounds and drops out of snapshots.
func (b *bullet) faded() bool {
	return b.color() == core.EmptyCode || b.age >= bulletLifetime
}

// remaining is the fraction of lifetime the bullet has left, which is
// also the wound it deals on impact.
func (b *bullet) remaining() float64 {
	return 1 - b.age/bulletLifetime
}

func (b *bullet) color() byte {
	shade := int(b.age / bulletLifetime * float64(b.kind.Shades()))
	return b.kind.Code(shade)
}

func (b *bullet) advance(dt float64) {
	b.age += dt * 1000
	step := bulletSpeed * dt
	b.x += math.Cos(b.angle) * step
	b.y += math.Sin(b.angle) * step
}

func dist(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}
