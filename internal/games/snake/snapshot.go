package snake

import (
	"fmt"
	"time"
)

// StateType is the coarse state of the game state machine.
type StateType string

const (
	StateRunning StateType = "running"
	StatePaused  StateType = "paused"
	StateEnded   StateType = "ended"
)

// Snapshot captures the scalar game state for tests and debugging.
type Snapshot struct {
	Tick      uint64
	Score     int
	Length    int
	HeadX     int
	HeadY     int
	Heading   Direction
	TargetX   int
	TargetY   int
	HasTarget bool
	Interval  time.Duration
	State     StateType
}

// State returns the current state machine state.
func (g *Game) State() StateType {
	switch {
	case g.ended:
		return StateEnded
	case g.paused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      g.tick,
		Score:     g.score,
		Length:    len(g.body),
		Heading:   g.heading,
		TargetX:   g.target.X,
		TargetY:   g.target.Y,
		HasTarget: g.hasTarget,
		Interval:  g.interval,
		State:     g.State(),
	}
	if len(g.body) > 0 {
		s.HeadX = g.body[0].X
		s.HeadY = g.body[0].Y
	}
	return s
}

// DebugState returns a one-line description of the game state.
func (g *Game) DebugState() string {
	s := g.Snapshot()
	return fmt.Sprintf("tick=%d state=%s score=%d len=%d head=(%d,%d) heading=%s target=(%d,%d) interval=%s",
		s.Tick, s.State, s.Score, s.Length, s.HeadX, s.HeadY, s.Heading, s.TargetX, s.TargetY, s.Interval)
}
