package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a single game",
	Long: `Start playing snake right away.

Controls:
  Arrows/WASD/HJKL - Steer
  Space/P          - Pause
  Any key          - New game (after game over)
  Ctrl+S           - Screenshot (text and PNG)
  Esc/B            - Exit (when paused or after game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower start and floor
  normal - Values from the config file
  hard   - Faster start, speeds up every 50 points
  fixed  - No speed-ups

Examples:
  snake play
  snake play --difficulty easy
  snake play --config ./my-snake.yaml
  snake play --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	// Never log to the terminal the game draws on
	logger, closeLog, err := newLogger("snake", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.SettingsFor(preset)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	final, err := tui.Run(tui.GameOptions{
		Settings:   settings,
		Runtime:    runtimeConfig(),
		Store:      store,
		Source:     storage.SourceLocal,
		Player:     playerName(),
		Standalone: true,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	if g := final.Game(); g != nil {
		fmt.Printf("Score: %d  Length: %d  Best: %d\n", g.Score(), g.Length(), g.Best())
	}
	return nil
}
