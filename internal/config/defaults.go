package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultSnakeYAML))
	copy(out, defaultSnakeYAML)
	return out
}

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Width:  20,
			Height: 20,
		},
		Start: StartConfig{
			X:       10,
			Y:       10,
			Heading: "right",
		},
		Target: TargetConfig{
			X: 5,
			Y: 5,
		},
		Speed: SpeedConfig{
			BaseMS:    150,
			StepMS:    10,
			MinMS:     50,
			Threshold: 100,
		},
		Scoring: ScoringConfig{
			Increment: 10,
		},
	}
}
