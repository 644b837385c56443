package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dicefall/internal/config"
	"github.com/vovakirdan/dicefall/internal/games/dicefall"
	"github.com/vovakirdan/dicefall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long: `Shows every registered Dicefall mode with the dice it deals and its
fall speed, as configured by --config (or the built-in defaults).`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDicefall(flagConfig)
	if err != nil {
		return err
	}
	printModes(cmd.OutOrStdout(), cfg, registry.List())
	return nil
}

// printModes writes one line per registered mode. Modes missing from cfg are
// listed without details.
func printModes(w io.Writer, cfg config.DicefallConfig, games []registry.GameInfo) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No modes available.")
		return
	}

	titles := make(map[string]string, len(games))
	idW := len("ID")
	for _, g := range games {
		titles[g.ID] = g.Title
		idW = max(idW, len(g.ID))
	}

	fmt.Fprintln(w, "Available modes:")
	fmt.Fprintln(w)
	row := func(id, title, dice, fall string) {
		fmt.Fprintf(w, "  %-*s  %-18s  %-14s  %s\n", idW, id, title, dice, fall)
	}
	row("ID", "Title", "Dice", "Fall")
	row("--", "-----", "----", "----")
	for _, p := range config.Presets() {
		id := dicefall.IDFor(p)
		title, ok := titles[id]
		if !ok {
			continue
		}
		mode, err := cfg.Mode(p)
		if err != nil {
			row(id, title, "?", "?")
			continue
		}
		row(id, title, diceList(mode.FaceCounts), fallText(mode))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'dicefall play <mode>' to play a mode.")
}

// diceList renders face counts as "d6/d8".
func diceList(faces []int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = "d" + strconv.Itoa(f)
	}
	return strings.Join(parts, "/")
}

func fallText(m config.ModeConfig) string {
	if !m.Gravity {
		return "no gravity"
	}
	return fmt.Sprintf("%dms", m.FallIntervalMs)
}
