// Package config provides YAML-based game configuration loading and
// difficulty management for Dicefall.
package config

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// DicefallConfig contains all configuration for the Dicefall game.
type DicefallConfig struct {
	Board      BoardConfig           `yaml:"board"`
	Scoring    ScoringConfig         `yaml:"scoring"`
	Boosters   BoosterConfig         `yaml:"boosters"`
	Difficulty DifficultyConfig      `yaml:"difficulty"`
	Modes      map[string]ModeConfig `yaml:"modes"`
}

// BoardConfig defines the well dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScoringConfig defines the Ultimate Combo trigger.
type ScoringConfig struct {
	UltimateWilds int `yaml:"ultimate_wilds"`
}

// BoosterConfig defines the points each booster kind adds when cleared.
type BoosterConfig struct {
	Points map[string]int `yaml:"points"`
}

// ModeConfig is one difficulty preset.
type ModeConfig struct {
	FallIntervalMs int     `yaml:"fall_interval_ms"`
	FaceCounts     []int   `yaml:"face_counts"`
	Gravity        bool    `yaml:"gravity"` // false is Zen mode
	WildChance     float64 `yaml:"wild_chance"`
	BlackChance    float64 `yaml:"black_chance"`
	BoosterChance  float64 `yaml:"booster_chance"`
}

// DifficultyConfig defines the speed progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Fall speed added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen"
)

// Presets returns the built-in presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen}
}

// Mode returns the preset with the given name.
func (c DicefallConfig) Mode(preset DifficultyPreset) (ModeConfig, error) {
	m, ok := c.Modes[string(preset)]
	if !ok {
		return ModeConfig{}, fmt.Errorf("config: unknown mode %q", preset)
	}
	return m, nil
}

// ModeNames returns the configured mode names, sorted.
func (c DicefallConfig) ModeNames() []string {
	names := make([]string, 0, len(c.Modes))
	for name := range c.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EngineConfig builds the immutable engine configuration for a preset.
func (c DicefallConfig) EngineConfig(preset DifficultyPreset, seed int64) (engine.Config, error) {
	m, err := c.Mode(preset)
	if err != nil {
		return engine.Config{}, err
	}
	cfg := engine.Config{
		Width:          c.Board.Width,
		Height:         c.Board.Height,
		FaceCounts:     append([]int(nil), m.FaceCounts...),
		Gravity:        m.Gravity,
		FallIntervalMs: m.FallIntervalMs,
		WildChance:     m.WildChance,
		BlackChance:    m.BlackChance,
		BoosterChance:  m.BoosterChance,
		Seed:           seed,
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("config: mode %q: %w", preset, err)
	}
	return cfg, nil
}

// Validate checks every mode and the shared sections. The first problem is
// returned; engine field errors match engine.ErrInvalidConfig.
func (c DicefallConfig) Validate() error {
	if len(c.Modes) == 0 {
		return fmt.Errorf("config: no modes defined")
	}
	for _, name := range c.ModeNames() {
		if _, err := c.EngineConfig(DifficultyPreset(name), 0); err != nil {
			return err
		}
	}
	if c.Scoring.UltimateWilds < 1 {
		return fmt.Errorf("config: scoring.ultimate_wilds must be positive, got %d", c.Scoring.UltimateWilds)
	}
	for kind, pts := range c.Boosters.Points {
		b, ok := engine.ParseBooster(kind)
		if !ok || b == engine.BoosterNone {
			return fmt.Errorf("config: boosters.points: unknown booster %q", kind)
		}
		if pts < 0 {
			return fmt.Errorf("config: boosters.points.%s must not be negative, got %d", kind, pts)
		}
	}
	switch c.Difficulty.Progression.Type {
	case "score", "time", "none", "":
	default:
		return fmt.Errorf("config: difficulty.progression.type %q is not one of score, time, none", c.Difficulty.Progression.Type)
	}
	if err := engine.ValidateProbability("difficulty.initial_level", c.Difficulty.InitialLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
