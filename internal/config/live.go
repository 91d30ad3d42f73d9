package config

import (
	"sync/atomic"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Live holds the current configuration of a long-running server. It is
// updated by a Watcher and read by every new game.
type Live struct {
	v atomic.Pointer[SnakeConfig]
}

// NewLive creates a Live holding cfg.
func NewLive(cfg SnakeConfig) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

// Load returns the current configuration.
func (l *Live) Load() SnakeConfig {
	return *l.v.Load()
}

// Store replaces the current configuration.
func (l *Live) Store(cfg SnakeConfig) {
	l.v.Store(&cfg)
}

// SettingsFor returns game settings for preset from the current configuration.
func (l *Live) SettingsFor(preset DifficultyPreset) (snake.Settings, error) {
	return l.Load().SettingsFor(preset)
}
