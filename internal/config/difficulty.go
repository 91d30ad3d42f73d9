package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the accepted preset names in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset parses a preset name. The empty string selects normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DifficultyNormal, nil
	}
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// IsFixedPreset returns true if the preset disables speed-ups.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the speed section based on a difficulty preset.
// Normal keeps the loaded values.
func ApplyPreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.BaseMS = 200
		cfg.Speed.MinMS = 80
		cfg.Speed.StepMS = 10
	case DifficultyHard:
		cfg.Speed.BaseMS = 100
		cfg.Speed.MinMS = 40
		cfg.Speed.StepMS = 10
		cfg.Speed.Threshold = 50
	case DifficultyFixed:
		cfg.Speed.Threshold = 0
	}

	// Keep the floor consistent with a lowered base
	cfg.Speed.MinMS = min(cfg.Speed.MinMS, cfg.Speed.BaseMS)
}

// SettingsFor returns game settings with preset applied to a copy of c.
func (c SnakeConfig) SettingsFor(preset DifficultyPreset) (snake.Settings, error) {
	ApplyPreset(&c, preset)
	return c.Settings()
}
