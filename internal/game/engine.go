// Package game implements the maze simulation: an infinite procedurally
// generated maze with the hero pinned to its center, enemies that wake
// and hunt, and bullets in flight. The engine is single-writer: exactly
// one loop calls Step and Snapshot, and everything it hands out is a
// copy, never a reference into live state.
package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

const (
	initScore = 2.0

	heroSpeed   = 5.0  // grids per second
	enemySpeed  = 6.0  // grids per second
	bulletSpeed = 15.0 // grids per second
	healSpeed   = 1.0  // HP per second

	heroHP  = 4.0
	enemyHP = 3.0

	attackCooldown = 333.333 // ms between strikes
	fireRange      = 6.0     // grids
	bulletLifetime = 1000.0 * fireRange / (bulletSpeed - heroSpeed)

	heroRadius = 0.4 // grids, collision box half-width
)

// Options configure a new engine. The view is the window of grids that
// snapshots export; it should be odd on both axes so the hero sits on
// the exact center grid.
type Options struct {
	Seed  int64
	ViewW int
	ViewH int
}

// Engine owns the live world state for one game at a time.
type Engine struct {
	opts Options
	rng  *rand.Rand
	maze maze

	hx, hy     float64 // hero center, world grid units
	angle      float64 // hero facing, radians
	wound      float64
	nextStrike float64 // ms until the hero can attack again
	nextHeal   float64 // ms until regeneration resumes
	dead       bool

	score   float64
	enemies []*enemy
	bullets []*bullet

	// Window origin of the last exported grid; the maze rows are
	// resent only when this moves to a different grid.
	lastX0, lastY0 int
	exported       bool
}

// New creates an engine. Call Reset before the first Step.
func New(opts Options) *Engine {
	if opts.ViewW <= 0 {
		opts.ViewW = 25
	}
	if opts.ViewH <= 0 {
		opts.ViewH = 15
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Engine{opts: opts}
}

// Reset starts a fresh game: new maze, hero at the center, initial
// enemy population. The maze is regenerated until the hero's grid
// connects to the edge of the view, so a game can never start trapped.
func (e *Engine) Reset() {
	e.rng = rand.New(rand.NewSource(e.opts.Seed))
	e.maze = maze{seed: e.opts.Seed}
	for !e.maze.openAround(Middle, Middle, e.opts.ViewW, e.opts.ViewH) {
		e.maze.salt++
	}

	e.hx, e.hy = Middle+0.5, Middle+0.5
	e.angle = core.Rad(225) // face up-left, the idle stance
	e.wound = 0
	e.nextStrike, e.nextHeal = 0, 0
	e.dead = false

	e.score = initScore
	e.enemies = nil
	e.bullets = nil
	e.spawnEnemies()

	e.exported = false
}

// Dead reports whether the hero is dead and the game over.
func (e *Engine) Dead() bool {
	return e.dead
}

// Score returns the display score: kills accumulated since Reset.
func (e *Engine) Score() int {
	return int(e.score - initScore)
}

// Lose ends the game immediately. The session calls this when the
// controlling peer walks away: the run is forfeited, the score kept.
func (e *Engine) Lose() {
	e.dead = true
	e.wound = heroHP
}

// Step advances the world by dt under the given intent. It applies the
// hero's movement, aim and attack, then lets enemies and bullets act.
func (e *Engine) Step(in core.Intent, dt time.Duration) {
	if e.dead || dt <= 0 {
		return
	}
	sec := dt.Seconds()
	ms := sec * 1000
	e.nextStrike -= ms
	e.nextHeal -= ms

	// Keep the exact internal angle when the command just echoes the
	// rounded angle we exported, so aiming does not jitter.
	if in.Angle != core.Deg(e.angle) {
		e.angle = core.Rad(in.Angle)
	}

	moved := e.moveHero(in.DX, in.DY, sec)
	fired := false
	if in.Attack && e.nextStrike <= 0 {
		e.nextStrike = attackCooldown
		e.bullets = append(e.bullets, &bullet{kind: core.Aluminium, x: e.hx, y: e.hy, angle: e.angle})
		fired = true
	}

	if moved || fired {
		e.wakeEnemies()
	}
	e.stepEnemies(ms)
	e.stepBullets(sec)
	e.spawnEnemies()

	if e.nextHeal <= 0 && e.wound > 0 {
		e.wound = math.Max(0, e.wound-healSpeed*sec)
	}
	if e.wound >= heroHP {
		e.dead = true
	}
}

// Snapshot exports the current world as one immutable frame. The maze
// rows ride along on the first snapshot after Reset, whenever the
// window origin moved to another grid, and whenever forced.
func (e *Engine) Snapshot(forced bool) *core.Frame {
	x0, y0 := e.windowOrigin()
	f := &core.Frame{Score: e.Score()}

	if forced || !e.exported || x0 != e.lastX0 || y0 != e.lastY0 {
		f.Maze = e.maze.rows(x0, y0, e.opts.ViewW, e.opts.ViewH)
		e.lastX0, e.lastY0 = x0, y0
		e.exported = true
	}

	f.Hero = core.Hero{
		Color:     core.Aluminium.Code(int(e.wound)),
		X:         e.expos(e.hx, e.hx-float64(e.opts.ViewW)/2),
		Y:         e.expos(e.hy, e.hy-float64(e.opts.ViewH)/2),
		Angle:     core.Deg(e.angle),
		CanAttack: e.nextStrike <= 0,
		CanRegen:  e.nextHeal <= 0,
		Wounds:    core.Clamp(int(e.wound), 0, 3),
	}

	ox, oy := e.hx-float64(e.opts.ViewW)/2, e.hy-float64(e.opts.ViewH)/2
	for _, en := range e.enemies {
		if !en.noticeable() || !e.inView(en.gx, en.gy) {
			continue
		}
		x, y := en.pos()
		f.Enemies = append(f.Enemies, core.Entity{
			Color: en.color(),
			X:     e.expos(x, ox),
			Y:     e.expos(y, oy),
			Angle: core.Deg(en.angle),
		})
	}
	for _, b := range e.bullets {
		if b.faded() || !e.inView(int(math.Floor(b.x)), int(math.Floor(b.y))) {
			continue
		}
		f.Bullets = append(f.Bullets, core.Entity{
			Color: b.color(),
			X:     e.expos(b.x, ox),
			Y:     e.expos(b.y, oy),
			Angle: core.Deg(b.angle),
		})
	}
	return f
}

// expos converts a world coordinate to the wire form: hundredths of a
// grid unit measured from the window origin.
func (e *Engine) expos(w, origin float64) int {
	return int(math.Round((w - origin) * 100))
}

func (e *Engine) windowOrigin() (int, int) {
	return int(math.Floor(e.hx)) - e.opts.ViewW/2, int(math.Floor(e.hy)) - e.opts.ViewH/2
}

func (e *Engine) inView(gx, gy int) bool {
	x0, y0 := e.windowOrigin()
	return gx >= x0 && gx < x0+e.opts.ViewW && gy >= y0 && gy < y0+e.opts.ViewH
}

// moveHero shifts the hero per axis, sliding along walls and occupied
// enemy grids instead of sticking to them.
func (e *Engine) moveHero(dx, dy int, sec float64) bool {
	step := heroSpeed * sec
	moved := false
	if dx != 0 {
		nx := e.hx + float64(dx)*step
		if !e.blocked(nx, e.hy) {
			e.hx = nx
			moved = true
		}
	}
	if dy != 0 {
		ny := e.hy + float64(dy)*step
		if !e.blocked(e.hx, ny) {
			e.hy = ny
			moved = true
		}
	}
	return moved
}

// blocked reports whether the hero's collision box at (x, y) overlaps a
// wall or an enemy's grid.
func (e *Engine) blocked(x, y float64) bool {
	x0, x1 := int(math.Floor(x-heroRadius)), int(math.Floor(x+heroRadius))
	y0, y1 := int(math.Floor(y-heroRadius)), int(math.Floor(y+heroRadius))
	for gx := x0; gx <= x1; gx++ {
		for gy := y0; gy <= y1; gy++ {
			if e.maze.Wall(gx, gy) || e.enemyAt(gx, gy) != nil {
				return true
			}
		}
	}
	return false
}

func (e *Engine) enemyAt(gx, gy int) *enemy {
	for _, en := range e.enemies {
		if en.gx == gx && en.gy == gy {
			return en
		}
	}
	return nil
}

// wakeEnemies rouses every enemy in view. Enemies sleep until the hero
// makes a move or fires, then the whole window turns hostile.
func (e *Engine) wakeEnemies() {
	for _, en := range e.enemies {
		if e.inView(en.gx, en.gy) {
			en.awake = true
		}
	}
}

func (e *Engine) stepEnemies(ms float64) {
	for _, en := range e.enemies {
		en.lastHit += ms
		en.nextMove -= ms
		en.nextStrike -= ms
		if !en.awake {
			continue
		}
		ex, ey := en.pos()
		en.angle = math.Atan2(e.hy-ey, e.hx-ex)
		d := dist(ex, ey, e.hx, e.hy)

		if en.kind == core.ScarletRed {
			// Melee rusher: never fires, slashes point-blank and heals
			// itself on every landed hit.
			if d < 1.5 && en.nextStrike <= 0 {
				en.nextStrike = attackCooldown
				e.hitHero(1)
				en.wound = math.Max(0, en.wound-1)
			}
		} else if d <= fireRange && en.nextStrike <= 0 {
			en.nextStrike = attackCooldown
			e.bullets = append(e.bullets, &bullet{kind: en.kind, x: ex, y: ey, angle: en.angle})
		}

		if en.nextMove <= 0 {
			en.nextMove = 1000 / enemySpeed
			e.stepToward(en)
		}
	}
}

// stepToward moves the enemy one grid closer to the hero, preferring
// the axis with the larger gap and falling back to the other.
func (e *Engine) stepToward(en *enemy) {
	dx := sign(int(math.Floor(e.hx)) - en.gx)
	dy := sign(int(math.Floor(e.hy)) - en.gy)
	first, second := [2]int{dx, 0}, [2]int{0, dy}
	if core.Abs(int(math.Floor(e.hy))-en.gy) > core.Abs(int(math.Floor(e.hx))-en.gx) {
		first, second = second, first
	}
	for _, step := range [2][2]int{first, second} {
		if step[0] == 0 && step[1] == 0 {
			continue
		}
		nx, ny := en.gx+step[0], en.gy+step[1]
		if !e.maze.Wall(nx, ny) && e.enemyAt(nx, ny) == nil && !(nx == int(math.Floor(e.hx)) && ny == int(math.Floor(e.hy))) {
			en.gx, en.gy = nx, ny
			return
		}
	}
}

func (e *Engine) stepBullets(sec float64) {
	kept := e.bullets[:0]
	for _, b := range e.bullets {
		b.advance(sec)
		if b.faded() || !e.inView(int(math.Floor(b.x)), int(math.Floor(b.y))) {
			continue
		}
		if b.kind == core.Aluminium {
			if e.heroBulletLands(b) {
				continue
			}
		} else if dist(b.x, b.y, e.hx, e.hy) < 1 {
			e.hitHero(b.remaining())
			continue
		}
		kept = append(kept, b)
	}
	e.bullets = kept
}

// heroBulletLands resolves one hero bullet against the world and
// reports whether it stopped flying. A wall hit is friendly fire: the
// wall wakes up as a fresh enemy.
func (e *Engine) heroBulletLands(b *bullet) bool {
	gx, gy := int(math.Floor(b.x)), int(math.Floor(b.y))
	if e.maze.Wall(gx, gy) {
		en := &enemy{kind: e.randomKind(), gx: gx, gy: gy, awake: true}
		en.hit(b.remaining())
		e.enemies = append(e.enemies, en)
		return true
	}
	for i, en := range e.enemies {
		ex, ey := en.pos()
		if dist(b.x, b.y, ex, ey) < 1 {
			en.hit(b.remaining())
			if !en.alive() {
				e.score += en.wound
				e.enemies = append(e.enemies[:i], e.enemies[i+1:]...)
			}
			return true
		}
	}
	return false
}

// hitHero wounds the hero and blocks regeneration for a second.
func (e *Engine) hitHero(wound float64) {
	e.wound += wound
	e.nextHeal = 1000
	if e.wound >= heroHP {
		e.dead = true
	}
}

// spawnEnemies tops the population up to log2 of the raw score, placed
// on wall grids in view. A wall must keep at least one open neighbor so
// the new enemy is not born sealed in.
func (e *Engine) spawnEnemies() {
	want := int(math.Log2(e.score))
	x0, y0 := e.windowOrigin()
	plum := e.awakePlum()
	for tries := 0; len(e.enemies) < want && tries < 64; tries++ {
		gx := x0 + e.rng.Intn(e.opts.ViewW)
		gy := y0 + e.rng.Intn(e.opts.ViewH)
		if !e.maze.Wall(gx, gy) || e.enemyAt(gx, gy) != nil || e.sealed(gx, gy) {
			continue
		}
		kind := e.randomKind()
		if plum != nil {
			// An awake Plum seeds its own likeness into new spawns.
			kind = core.Plum
		}
		ex, ey := float64(gx)+0.5, float64(gy)+0.5
		e.enemies = append(e.enemies, &enemy{
			kind:  kind,
			gx:    gx,
			gy:    gy,
			angle: math.Atan2(e.hy-ey, e.hx-ex),
		})
	}
}

func (e *Engine) awakePlum() *enemy {
	for _, en := range e.enemies {
		if en.kind == core.Plum && en.awake {
			return en
		}
	}
	return nil
}

func (e *Engine) sealed(gx, gy int) bool {
	return e.maze.Wall(gx+1, gy) && e.maze.Wall(gx-1, gy) &&
		e.maze.Wall(gx, gy+1) && e.maze.Wall(gx, gy-1)
}

func (e *Engine) randomKind() core.Kind {
	return core.EnemyKinds[e.rng.Intn(len(core.EnemyKinds))]
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
