// dicefall is a falling-dice puzzle for the terminal.
//
// Usage:
//
//	dicefall list              - List available modes
//	dicefall play [mode]       - Play a mode (default: dicefall)
//	dicefall menu              - Start menu to pick modes interactively
//	dicefall serve             - Start SSH server for remote play
//	dicefall scores <mode>     - Show best runs for a mode
//	dicefall sim               - Play sessions headlessly and report statistics
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.dicefall/scores.db)
//	--config <path>     - Use a custom dicefall.yaml
//	--log-file <path>   - Write engine logs to a file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dicefall/internal/games/dicefall"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogFile  string
	flagLogLevel string

	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dicefall",
	Short: "Dicefall - a falling-dice puzzle in your terminal",
	Long: `Dicefall drops pieces made of dice into an 8x16 well. Every die comes
to rest on its own, and groups of three or more equal faces clear.
Clears let the dice above fall into new groups, scoring chain bonuses.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View best runs
  sim      - Headless batch simulation

Examples:
  dicefall list
  dicefall play dicefall_hard
  dicefall menu
  dicefall serve --ssh :2222
  dicefall sim --games 500 --mode zen`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dicefall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom dicefall.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// setupLogging hands the config path and a logger to the game package.
// Without --log-file engine logs are discarded so they never corrupt the TUI.
func setupLogging(_ *cobra.Command, _ []string) error {
	dicefall.SetConfigPath(flagConfig)

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if flagLogFile == "" {
		return nil
	}

	logFile, err = os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	dicefall.SetLogger(log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "dicefall",
		Level:           level,
	}))
	return nil
}

// newLogger builds a stderr logger for the non-interactive commands.
func newLogger(prefix string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		l.SetLevel(level)
	}
	return l
}
