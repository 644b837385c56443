package config

import (
	"math"

	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// DifficultyManager calculates the fall interval based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// FallInterval returns the interval between engine steps in milliseconds.
// Speed grows from base to base * (1 + speedMultiplier); the result never
// leaves the engine's allowed interval range.
func (d *DifficultyManager) FallInterval(baseMs int, score int, ticks int) int {
	level := d.Level(score, ticks)
	speed := 1.0 + level*d.cfg.Scaling.SpeedMultiplier
	if speed <= 0 {
		speed = 1
	}
	ms := int(float64(baseMs) / speed)
	if ms < engine.MinFallIntervalMs {
		ms = engine.MinFallIntervalMs
	}
	if ms > engine.MaxFallIntervalMs {
		ms = engine.MaxFallIntervalMs
	}
	return ms
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
