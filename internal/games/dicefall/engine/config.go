package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Fall interval bounds in milliseconds.
const (
	MinFallIntervalMs = 400
	MaxFallIntervalMs = 1200
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid engine config")

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("engine: %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config is the immutable per-session configuration.
type Config struct {
	Width          int
	Height         int
	FaceCounts     []int   // Face counts new dice roll from
	Gravity        bool    // False selects Zen mode
	FallIntervalMs int     // Used by the external scheduler only
	WildChance     float64 // Per die
	BlackChance    float64 // Per die, checked before WildChance
	BoosterChance  float64 // Per die
	Seed           int64
}

// DefaultConfig returns the normal-mode configuration.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FaceCounts:     []int{6},
		Gravity:        true,
		FallIntervalMs: 800,
		WildChance:     0.05,
		BlackChance:    0.01,
		BoosterChance:  0.05,
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Width < 4 {
		return ConfigError{Field: "width", Message: fmt.Sprintf("must be at least 4, got %d", c.Width)}
	}
	if c.Height < 3 {
		return ConfigError{Field: "height", Message: fmt.Sprintf("must be at least 3, got %d", c.Height)}
	}
	if len(c.FaceCounts) == 0 {
		return ConfigError{Field: "face_counts", Message: "must not be empty"}
	}
	for _, f := range c.FaceCounts {
		if !IsValidFaceCount(f) {
			return ConfigError{Field: "face_counts", Message: fmt.Sprintf("unsupported face count %d", f)}
		}
	}
	if c.FallIntervalMs < MinFallIntervalMs || c.FallIntervalMs > MaxFallIntervalMs {
		return ConfigError{
			Field:   "fall_interval_ms",
			Message: fmt.Sprintf("must be within [%d, %d], got %d", MinFallIntervalMs, MaxFallIntervalMs, c.FallIntervalMs),
		}
	}
	probs := []struct {
		name string
		v    float64
	}{
		{"wild_chance", c.WildChance},
		{"black_chance", c.BlackChance},
		{"booster_chance", c.BoosterChance},
	}
	for _, p := range probs {
		if err := ValidateProbability(p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProbability rejects values outside [0, 1]. NaN is rejected too.
func ValidateProbability(field string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return ConfigError{Field: field, Message: fmt.Sprintf("probability must be within [0, 1], got %v", v)}
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
