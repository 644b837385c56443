package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dicefall/internal/registry"
	"github.com/vovakirdan/dicefall/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show best runs for a mode",
	Long: `Display the best runs and score statistics for the specified mode.

Examples:
  dicefall scores dicefall
  dicefall scores dicefall_zen --limit 20`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'dicefall list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Printf("Best runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'dicefall play %s' to set the first score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-5s  %-7s  %-8s  %-12s  %s\n", "Rank", "Score", "Chain", "Cleared", "Ultimate", "Player", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %-7s  %-8s  %-12s  %s\n", "----", "-----", "-----", "-------", "--------", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-10d  %-5d  %-7d  %-8d  %-12s  %s\n",
			i+1, r.Score, r.MaxChain, r.DiceCleared, r.UltimateCombos, playerName(r.Player), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Games: %d  Best: %d  Mean: %.1f  Median: %.0f  StdDev: %.1f  Best chain: %d\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.MedianScore, stats.StdDev, stats.BestChain)
}

// playerName shows local runs, which carry no player, as "-".
func playerName(p string) string {
	if p == "" {
		return "-"
	}
	return p
}
