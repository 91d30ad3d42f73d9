package snake

import "time"

// SpeedController maps a score to a tick interval.
// Every Threshold points shortens the interval by Step, never below Min.
// A Threshold of zero or less keeps the interval at Base.
type SpeedController struct {
	Base      time.Duration
	Step      time.Duration
	Min       time.Duration
	Threshold int
}

// Interval returns the tick interval for the given score.
func (c SpeedController) Interval(score int) time.Duration {
	if c.Threshold <= 0 || score <= 0 {
		return max(c.Base, c.Min)
	}
	steps := score / c.Threshold
	return max(c.Base-time.Duration(steps)*c.Step, c.Min)
}

// Crossed reports whether moving from prev to next changes the interval.
func (c SpeedController) Crossed(prev, next int) bool {
	return c.Interval(prev) != c.Interval(next)
}

// Level returns how many speed-ups are in effect for the score, for display.
func (c SpeedController) Level(score int) int {
	if c.Step <= 0 {
		return 0
	}
	return int((c.Base - c.Interval(score)) / c.Step)
}
