package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// InputResult describes how the game reacted to a key.
type InputResult struct {
	// Consumed is true for keys the game owns (directions and pause).
	// Hosts must not apply their own default behaviour to consumed keys.
	Consumed bool

	// Restarted is true when the key reset an ended game. The interval is
	// back at its base value and the host must reschedule its timer.
	Restarted bool

	// PauseChanged is true when the key toggled the pause flag.
	PauseChanged bool

	// Turned is true when the heading changed.
	Turned bool
}

// HandleKey applies a single key press.
//
// Once the game has ended any key starts a new game; pause toggling is not
// honoured in that state. Otherwise the pause key flips the pause flag and
// directional keys turn the snake, unless paused or the turn would reverse
// it into its own neck.
func (g *Game) HandleKey(k core.Key) InputResult {
	res := InputResult{Consumed: k != core.KeyOther}

	if g.ended {
		g.Reset()
		res.Restarted = true
		return res
	}

	if k == core.KeyPause {
		g.paused = !g.paused
		res.PauseChanged = true
		return res
	}

	dir, ok := directionForKey(k)
	if !ok || g.paused {
		return res
	}
	res.Turned = g.turn(dir)
	return res
}

// turn changes the heading unless dir reverses either the pending heading or
// the heading of the last move. Checking both stops two quick presses within
// one tick from folding the snake back onto itself.
func (g *Game) turn(dir Direction) bool {
	if dir == g.heading.Opposite() || dir == g.moved.Opposite() {
		return false
	}
	if dir == g.heading {
		return false
	}
	g.heading = dir
	return true
}
