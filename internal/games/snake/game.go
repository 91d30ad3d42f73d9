// Package snake implements the Snake game logic: one actor moving on a fixed
// grid, one target, wall and self collision, and a score-driven tick interval.
// The package is pure; hosts own the timer and feed it ticks and keys.
package snake

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// StepResult describes what happened during one tick.
type StepResult struct {
	Moved        bool // The body advanced one cell
	Ate          bool // The target was consumed
	Collided     bool // The game ended this tick
	SpeedChanged bool // Interval() differs from before the tick
}

// Game implements the Snake game. A Game is owned by exactly one host and is
// not safe for concurrent use.
type Game struct {
	settings Settings
	speed    SpeedController
	rng      *rand.Rand
	tick     uint64

	body      []core.Point // Head at index 0
	target    core.Point
	hasTarget bool
	heading   Direction // Applied on the next step
	moved     Direction // Heading used by the last committed step

	score    int
	best     int
	interval time.Duration
	paused   bool
	ended    bool
}

// New creates a game with the given settings, seeded for target placement.
func New(settings Settings, seed int64) *Game {
	g := &Game{
		settings: settings,
		speed:    settings.SpeedController(),
		rng:      rand.New(rand.NewSource(seed)),
	}
	g.restart()

	// The first target is fixed; fall back to a random cell if it is unusable.
	if t := settings.StartTarget; t.In(settings.Width, settings.Height) && !g.occupied(t) {
		g.target = t
		g.hasTarget = true
	} else {
		g.placeTarget()
	}
	return g
}

// Reset replaces the state wholesale with a fresh game.
// The best score survives a reset.
func (g *Game) Reset() {
	g.restart()
	g.placeTarget()
}

func (g *Game) restart() {
	g.tick = 0
	g.body = []core.Point{g.settings.Start}
	g.heading = g.settings.StartHeading
	g.moved = g.settings.StartHeading
	g.score = 0
	g.interval = g.speed.Interval(0)
	g.paused = false
	g.ended = false
	g.hasTarget = false
}

// Step advances the game by one tick.
func (g *Game) Step() StepResult {
	if g.paused || g.ended || len(g.body) == 0 {
		return StepResult{}
	}
	g.tick++

	head := g.body[0].Add(g.heading.Delta())
	eating := g.hasTarget && head == g.target

	if g.collides(head, eating) {
		g.ended = true
		g.best = max(g.best, g.score)
		return StepResult{Collided: true}
	}

	g.moved = g.heading
	if eating {
		g.body = append([]core.Point{head}, g.body...)

		prev := g.score
		g.score += g.settings.ScoreIncrement
		g.best = max(g.best, g.score)
		g.placeTarget()

		changed := g.speed.Crossed(prev, g.score)
		if changed {
			g.interval = g.speed.Interval(g.score)
		}
		return StepResult{Moved: true, Ate: true, SpeedChanged: changed}
	}

	// Shift: new head in front, tail dropped. Reuses the backing array.
	copy(g.body[1:], g.body[:len(g.body)-1])
	g.body[0] = head
	return StepResult{Moved: true}
}

// collides checks the candidate head against the walls and the body. The tail
// cell is vacated this tick unless the snake grows, so it is excluded then.
func (g *Game) collides(head core.Point, growing bool) bool {
	if !head.In(g.settings.Width, g.settings.Height) {
		return true
	}
	checkLen := len(g.body)
	if !growing {
		checkLen--
	}
	for _, seg := range g.body[:checkLen] {
		if seg == head {
			return true
		}
	}
	return false
}

// placeTarget puts the target on a random free cell. When the body covers
// the whole grid there is nowhere to put it and the game runs without one.
func (g *Game) placeTarget() {
	free := g.freeCells()
	if len(free) == 0 {
		g.hasTarget = false
		return
	}
	g.target = free[g.rng.Intn(len(free))]
	g.hasTarget = true
}

func (g *Game) freeCells() []core.Point {
	taken := make(map[core.Point]struct{}, len(g.body))
	for _, seg := range g.body {
		taken[seg] = struct{}{}
	}

	free := make([]core.Point, 0, g.settings.Width*g.settings.Height-len(taken))
	for y := 0; y < g.settings.Height; y++ {
		for x := 0; x < g.settings.Width; x++ {
			p := core.Pt(x, y)
			if _, ok := taken[p]; !ok {
				free = append(free, p)
			}
		}
	}
	return free
}

func (g *Game) occupied(p core.Point) bool {
	for _, seg := range g.body {
		if seg == p {
			return true
		}
	}
	return false
}

// Settings returns the constants the game was created with.
func (g *Game) Settings() Settings { return g.settings }

// Interval returns the current tick interval.
func (g *Game) Interval() time.Duration { return g.interval }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Best returns the best score seen by this game or reported by SetBest.
func (g *Game) Best() int { return g.best }

// SetBest seeds the best score, e.g. from the score history.
func (g *Game) SetBest(best int) {
	g.best = max(g.best, best)
}

// Paused reports whether the game is paused.
func (g *Game) Paused() bool { return g.paused }

// Ended reports whether the snake has crashed.
func (g *Game) Ended() bool { return g.ended }

// Heading returns the heading the next step will use.
func (g *Game) Heading() Direction { return g.heading }

// Length returns the number of body segments.
func (g *Game) Length() int { return len(g.body) }

// Body returns a copy of the body, head first.
func (g *Game) Body() []core.Point {
	out := make([]core.Point, len(g.body))
	copy(out, g.body)
	return out
}

// Target returns the target cell and whether one is placed.
func (g *Game) Target() (core.Point, bool) {
	return g.target, g.hasTarget
}
