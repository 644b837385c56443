package config

import (
	_ "embed"
)

//go:embed defaults/dicefall.yaml
var defaultDicefallYAML []byte

// DefaultDicefallConfig returns the hardcoded Dicefall configuration.
// It mirrors defaults/dicefall.yaml and is used when the embed cannot be parsed.
func DefaultDicefallConfig() DicefallConfig {
	return DicefallConfig{
		Board: BoardConfig{
			Width:  8,
			Height: 16,
		},
		Scoring: ScoringConfig{
			UltimateWilds: 3,
		},
		Boosters: BoosterConfig{
			Points: map[string]int{
				"star":       50,
				"bomb":       120,
				"multiplier": 250,
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
		Modes: map[string]ModeConfig{
			string(DifficultyEasy): {
				FallIntervalMs: 1200,
				FaceCounts:     []int{4, 6},
				Gravity:        true,
				WildChance:     0.08,
				BlackChance:    0.02,
				BoosterChance:  0.08,
			},
			string(DifficultyNormal): {
				FallIntervalMs: 800,
				FaceCounts:     []int{6, 8},
				Gravity:        true,
				WildChance:     0.05,
				BlackChance:    0.01,
				BoosterChance:  0.05,
			},
			string(DifficultyHard): {
				FallIntervalMs: 400,
				FaceCounts:     []int{6, 8, 10, 12, 20},
				Gravity:        true,
				WildChance:     0.03,
				BlackChance:    0.01,
				BoosterChance:  0.03,
			},
			string(DifficultyZen): {
				FallIntervalMs: 1000,
				FaceCounts:     []int{4, 6},
				Gravity:        false,
				WildChance:     0.06,
				BlackChance:    0.02,
				BoosterChance:  0.05,
			},
		},
	}
}
