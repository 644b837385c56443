// Package dicefall adapts the Dicefall engine to the terminal platform.
// Multi-die pieces fall into an 8x16 well; dice that land come to rest
// independently and groups of 3+ equal faces clear and cascade.
package dicefall

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dicefall/internal/config"
	"github.com/vovakirdan/dicefall/internal/core"
	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
	"github.com/vovakirdan/dicefall/internal/registry"
)

// GameID is the id of the default (normal) mode.
const GameID = "dicefall"

// bannerSeconds is how long a chain banner stays on screen.
const bannerSeconds = 2

var (
	// configPath stores the custom config path set via CLI
	configPath string
	logger     = log.New(io.Discard)
)

// SetConfigPath sets the config file used on the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger sets the logger handed to every new engine.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game implements registry.Game on top of engine.Engine.
type Game struct {
	preset     config.DifficultyPreset
	cfg        config.DicefallConfig
	mode       config.ModeConfig
	eng        *engine.Engine
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	ticks     uint64 // Platform ticks while running
	sinceStep int    // Platform ticks since the last engine step
	paused    bool
	err       error // Set when the configuration cannot start an engine

	banner      string
	bannerTicks int
	lastReason  engine.GameOverReason
}

// New creates a game for the given difficulty preset.
func New(preset config.DifficultyPreset) *Game {
	return &Game{preset: preset}
}

// IDFor returns the registry id of a preset.
func IDFor(preset config.DifficultyPreset) string {
	if preset == config.DifficultyNormal {
		return GameID
	}
	return GameID + "_" + string(preset)
}

func init() {
	for _, preset := range config.Presets() {
		registry.Register(IDFor(preset), func() registry.Game {
			return New(preset)
		})
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return IDFor(g.preset)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.preset {
	case config.DifficultyNormal:
		return "Dicefall"
	case config.DifficultyEasy:
		return "Dicefall (Easy)"
	case config.DifficultyHard:
		return "Dicefall (Hard)"
	case config.DifficultyZen:
		return "Dicefall (Zen)"
	default:
		return "Dicefall (" + string(g.preset) + ")"
	}
}

// Preset returns the difficulty preset this game plays.
func (g *Game) Preset() config.DifficultyPreset {
	return g.preset
}

// Reset loads the configuration and starts a new engine session.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt
	g.ticks = 0
	g.sinceStep = 0
	g.paused = false
	g.err = nil
	g.banner = ""
	g.bannerTicks = 0
	g.eng = nil

	cfg, err := config.LoadDicefall(configPath)
	if err != nil {
		logger.Warn("falling back to default config", "path", configPath, "err", err)
		cfg = config.DefaultDicefallConfig()
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.mode, err = cfg.Mode(g.preset)
	if err != nil {
		g.err = err
		return
	}
	// Zen has no timer to speed up.
	g.difficulty.SetEnabled(g.mode.Gravity)

	engCfg, err := cfg.EngineConfig(g.preset, rt.Seed)
	if err != nil {
		g.err = err
		return
	}

	g.eng, err = engine.New(engCfg, EngineOptions(cfg, logger.With("game", g.ID()))...)
	if err != nil {
		g.err = fmt.Errorf("dicefall: %w", err)
		return
	}
}

// EngineOptions returns the engine options derived from the shared config
// sections: booster points, the Ultimate Combo threshold and the logger.
func EngineOptions(cfg config.DicefallConfig, l *log.Logger) []engine.Option {
	ultimateWilds := cfg.Scoring.UltimateWilds
	return []engine.Option{
		engine.WithLogger(l),
		engine.WithBoosterSource(NewBoosterTable(cfg.Boosters.Points)),
		engine.WithComboRule(func(initial []engine.MatchGroup) bool {
			return engine.CountWilds(initial) >= ultimateWilds
		}),
	}
}

// Err returns the configuration error that prevented the session from
// starting, if any.
func (g *Game) Err() error {
	return g.err
}

// Engine exposes the running engine (nil when the configuration failed).
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// StepEvery returns how many platform ticks pass between engine steps at
// the current difficulty.
func (g *Game) StepEvery() int {
	if g.eng == nil {
		return 1
	}
	ms := g.difficulty.FallInterval(g.mode.FallIntervalMs, g.eng.Score(), int(g.ticks))
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = core.DefaultConfig().TickRate
	}
	return max(1, ms*rate/1000)
}

// Step advances the game by one platform tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.eng == nil || g.eng.Over() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ticks++
	if g.bannerTicks > 0 {
		g.bannerTicks--
	}

	if in.Has(core.ActionLeft) {
		g.eng.Shift(-1)
	}
	if in.Has(core.ActionRight) {
		g.eng.Shift(1)
	}
	if in.Has(core.ActionRotate) {
		g.eng.Rotate()
	}

	switch {
	case in.Has(core.ActionHardDrop):
		g.absorb(g.eng.HardDrop())
		g.sinceStep = 0
	case in.Has(core.ActionSoftDrop):
		g.absorb(g.eng.SoftDrop())
		g.sinceStep = 0
	default:
		g.sinceStep++
		if g.sinceStep >= g.StepEvery() {
			g.sinceStep = 0
			g.absorb(g.eng.Step())
		}
	}

	return core.StepResult{State: g.State()}
}

// absorb updates the HUD from the events of an engine tick.
func (g *Game) absorb(res engine.TickResult) {
	for _, ev := range res.Events {
		switch e := ev.(type) {
		case engine.ScoreEvent:
			g.banner = bannerText(e)
			g.bannerTicks = bannerSeconds * max(1, g.runtime.TickRate)
		case engine.GameOverEvent:
			g.lastReason = e.Reason
			logger.Debug("session ended", "game", g.ID(), "reason", e.Reason, "score", e.Score)
		}
	}
}

func bannerText(e engine.ScoreEvent) string {
	switch {
	case e.Ultimate:
		return fmt.Sprintf("ULTIMATE COMBO! +%d", e.Breakdown.Total)
	case e.CascadeCount > 1:
		return fmt.Sprintf("CHAIN x%d +%d", e.CascadeCount, e.Breakdown.Total)
	default:
		return fmt.Sprintf("+%d", e.Breakdown.Total)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	return core.GameState{
		Score:    g.eng.Score(),
		GameOver: g.eng.Over(),
		Paused:   g.paused,
	}
}

// Summary implements registry.Summarizer.
func (g *Game) Summary() core.RunSummary {
	s := core.RunSummary{
		Mode:  string(g.preset),
		Seed:  g.runtime.Seed,
		Ticks: g.ticks,
	}
	if g.eng == nil {
		return s
	}
	st := g.eng.Stats()
	s.MaxChain = st.MaxChain
	s.Cascades = st.Cascades
	s.DiceCleared = st.DiceCleared
	s.UltimateCombos = st.UltimateCombos
	s.Pieces = st.Pieces
	return s
}
