package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagScoresSource string
	flagScoresLimit  int
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores and per-source statistics.

Sources:
  local - games played with 'snake play' or 'snake menu'
  ssh   - games played over 'snake serve'
  web   - games played over 'snake web'

Examples:
  snake scores
  snake scores --source ssh
  snake scores --limit 25
  snake scores --source web --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresSource, "source", "", "Only show one source: local, ssh, web")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the scores of --source (all sources if empty)")
}

func runScores(_ *cobra.Command, _ []string) error {
	switch flagScoresSource {
	case "", storage.SourceLocal, storage.SourceSSH, storage.SourceWeb:
	default:
		return fmt.Errorf("unknown source %q (want local, ssh or web)", flagScoresSource)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		n, err := store.ClearScores(flagScoresSource)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d scores.\n", n)
		return nil
	}

	// Get top scores
	scores, err := store.TopScores(flagScoresSource, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	title := "all sources"
	if flagScoresSource != "" {
		title = flagScoresSource
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-4s  %-12s  %-6s  %s\n", "Rank", "Score", "Len", "Player", "Source", "Date")
	fmt.Printf("  %-4s  %-6s  %-4s  %-12s  %-6s  %s\n", "----", "-----", "---", "------", "------", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-4d  %-12s  %-6s  %s\n",
			i+1, entry.Score, entry.Length, entry.Player, entry.Source, dateStr)
	}

	// Show stats per source
	fmt.Println()
	bySource, err := store.StatsBySource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load stats: %v\n", err)
		return nil
	}
	for _, src := range []string{storage.SourceLocal, storage.SourceSSH, storage.SourceWeb} {
		st, ok := bySource[src]
		if !ok || (flagScoresSource != "" && src != flagScoresSource) {
			continue
		}
		fmt.Printf("%-6s  games: %-4d  best: %-5d  avg: %-7.1f  longest: %d\n",
			src, st.GamesCount, st.HighScore, st.AvgScore, st.BestLength)
	}
	return nil
}
