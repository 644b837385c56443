package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dicefall/internal/core"
	"github.com/vovakirdan/dicefall/internal/games/dicefall"
	"github.com/vovakirdan/dicefall/internal/platform/tui"
	"github.com/vovakirdan/dicefall/internal/registry"
	"github.com/vovakirdan/dicefall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode (default: dicefall).

Controls:
  Left/Right, A/D, H/L  - Move piece
  Up, W, K, X           - Rotate
  Down, S, J            - Soft drop
  Space                 - Hard drop
  P                     - Pause
  R                     - Restart (after game over)
  Q/Ctrl+C              - Quit

Modes:
  dicefall       - Normal: d6/d8, 800 ms fall interval
  dicefall_easy  - d4/d6, 1200 ms
  dicefall_hard  - d6 to d20, 400 ms
  dicefall_zen   - d4/d6, no gravity: one clear pass per lock

Examples:
  dicefall play
  dicefall play dicefall_hard --seed 42
  dicefall play --config ./my-dicefall.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := dicefall.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

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

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, terminalRuntime())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalRuntime builds the runtime config from the terminal size and the
// global flags.
func terminalRuntime() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
