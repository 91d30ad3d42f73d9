package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start snake with a start menu",
	Long: `Start snake in interactive menu mode.

Pick a difficulty, play, and come back to the menu when the game is over.
The high score table is one key away.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  snake menu
  snake menu --difficulty hard
  snake menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("snake", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	rt := runtimeConfig()

	// Menu loop
	for {
		best := 0
		if store != nil {
			if high, err := store.HighScore(""); err == nil {
				best = high
			}
		}

		// Show menu and get selection
		menuResult, err := tui.RunMenu(rt, preset, best)
		if err != nil {
			return err
		}

		// Update config with any size changes
		rt = menuResult.Config
		preset = menuResult.Preset

		switch menuResult.Choice {
		case tui.MenuChoiceScoreboard:
			goBack, err := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil // User quit from scoreboard
			}

		case tui.MenuChoicePlay:
			settings, err := cfg.SettingsFor(preset)
			if err != nil {
				return err
			}

			// New seed for each game unless one was requested
			if flagSeed == 0 {
				rt.Seed = time.Now().UnixNano()
			}

			final, err := tui.Run(tui.GameOptions{
				Settings: settings,
				Runtime:  rt,
				Store:    store,
				Source:   storage.SourceLocal,
				Player:   playerName(),
				Logger:   logger,
			})
			if err != nil {
				return fmt.Errorf("running game: %w", err)
			}
			rt.ScreenW, rt.ScreenH = final.Runtime().ScreenW, final.Runtime().ScreenH
			if final.IsQuitting() {
				return nil
			}

		default:
			return nil
		}

		// Loop back to menu
	}
}
