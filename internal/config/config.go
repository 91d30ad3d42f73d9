// Package config provides YAML-based game configuration loading, difficulty
// presets and hot reloading for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// ErrInvalid is returned for configurations that cannot produce a playable game.
var ErrInvalid = errors.New("invalid config")

// MinGridSize is the smallest grid edge accepted by Validate.
const MinGridSize = 4

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Start   StartConfig   `yaml:"start"`
	Target  TargetConfig  `yaml:"target"`
	Speed   SpeedConfig   `yaml:"speed"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// GridConfig defines the playfield dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StartConfig defines where the snake spawns and where it is heading.
type StartConfig struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Heading string `yaml:"heading"`
}

// TargetConfig defines the first target cell.
type TargetConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// SpeedConfig defines the tick interval progression.
type SpeedConfig struct {
	BaseMS    int `yaml:"base_ms"`
	StepMS    int `yaml:"step_ms"`
	MinMS     int `yaml:"min_ms"`
	Threshold int `yaml:"threshold"` // Points per speed-up, 0 = never
}

// ScoringConfig defines points awarded per target.
type ScoringConfig struct {
	Increment int `yaml:"increment"`
}

// Validate reports the first problem that would make the game unplayable.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Grid.Width < MinGridSize || c.Grid.Height < MinGridSize:
		return fmt.Errorf("config: %w: grid %dx%d is smaller than %dx%d",
			ErrInvalid, c.Grid.Width, c.Grid.Height, MinGridSize, MinGridSize)
	case !core.Pt(c.Start.X, c.Start.Y).In(c.Grid.Width, c.Grid.Height):
		return fmt.Errorf("config: %w: start (%d,%d) is outside the grid", ErrInvalid, c.Start.X, c.Start.Y)
	case c.Speed.BaseMS <= 0 || c.Speed.MinMS <= 0:
		return fmt.Errorf("config: %w: speed intervals must be positive", ErrInvalid)
	case c.Speed.MinMS > c.Speed.BaseMS:
		return fmt.Errorf("config: %w: min_ms %d exceeds base_ms %d", ErrInvalid, c.Speed.MinMS, c.Speed.BaseMS)
	case c.Speed.StepMS < 0 || c.Speed.Threshold < 0:
		return fmt.Errorf("config: %w: step_ms and threshold must not be negative", ErrInvalid)
	case c.Scoring.Increment <= 0:
		return fmt.Errorf("config: %w: scoring increment must be positive", ErrInvalid)
	}
	if _, err := snake.ParseDirection(c.Start.Heading); err != nil {
		return fmt.Errorf("config: %w: %v", ErrInvalid, err)
	}
	return nil
}

// Settings converts the configuration into game settings.
func (c SnakeConfig) Settings() (snake.Settings, error) {
	if err := c.Validate(); err != nil {
		return snake.Settings{}, err
	}
	heading, _ := snake.ParseDirection(c.Start.Heading)

	return snake.Settings{
		Width:          c.Grid.Width,
		Height:         c.Grid.Height,
		Start:          core.Pt(c.Start.X, c.Start.Y),
		StartHeading:   heading,
		StartTarget:    core.Pt(c.Target.X, c.Target.Y),
		BaseInterval:   time.Duration(c.Speed.BaseMS) * time.Millisecond,
		SpeedStep:      time.Duration(c.Speed.StepMS) * time.Millisecond,
		MinInterval:    time.Duration(c.Speed.MinMS) * time.Millisecond,
		SpeedThreshold: c.Speed.Threshold,
		ScoreIncrement: c.Scoring.Increment,
	}, nil
}
