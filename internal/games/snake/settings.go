package snake

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Default game constants.
const (
	DefaultGridWidth      = 20
	DefaultGridHeight     = 20
	DefaultBaseInterval   = 150 * time.Millisecond
	DefaultSpeedStep      = 10 * time.Millisecond
	DefaultMinInterval    = 50 * time.Millisecond
	DefaultSpeedThreshold = 100 // Points per speed-up
	DefaultScoreIncrement = 10  // Points per target
)

// Settings holds the fixed constants a game is created with.
type Settings struct {
	Width        int
	Height       int
	Start        core.Point // Initial single-segment body
	StartHeading Direction
	StartTarget  core.Point // Target placed at mount; later targets are random

	BaseInterval   time.Duration
	SpeedStep      time.Duration
	MinInterval    time.Duration
	SpeedThreshold int
	ScoreIncrement int
}

// DefaultSettings returns the classic 20×20 setup.
func DefaultSettings() Settings {
	return Settings{
		Width:          DefaultGridWidth,
		Height:         DefaultGridHeight,
		Start:          core.Pt(10, 10),
		StartHeading:   DirRight,
		StartTarget:    core.Pt(5, 5),
		BaseInterval:   DefaultBaseInterval,
		SpeedStep:      DefaultSpeedStep,
		MinInterval:    DefaultMinInterval,
		SpeedThreshold: DefaultSpeedThreshold,
		ScoreIncrement: DefaultScoreIncrement,
	}
}

// SpeedController returns the speed curve described by these settings.
func (s Settings) SpeedController() SpeedController {
	return SpeedController{
		Base:      s.BaseInterval,
		Step:      s.SpeedStep,
		Min:       s.MinInterval,
		Threshold: s.SpeedThreshold,
	}
}
