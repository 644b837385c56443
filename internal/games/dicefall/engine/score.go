package engine

import "math/bits"

// Scoring constants.
const (
	MaxCascades             = 10
	UltimateComboMultiplier = 5
)

// ScoreBreakdown is the score record of one player action.
type ScoreBreakdown struct {
	Base               int // Sum of base scores, no multipliers
	Chained            int // Sum of base x chain factor
	ChainMultiplier    int // Multiplier of the deepest chain level reached
	UltimateMultiplier int // 1, or 5 on an Ultimate Combo
	BoosterModifier    int
	Total              int
}

// BaseScore returns sum(faces) x size x matched value.
func BaseScore(g MatchGroup) int {
	return g.FaceSum() * g.Size * g.Value
}

// ChainMultiplier returns floor(log2(chainIndex)). The index is clamped to
// [1, MaxCascades] so a corrupted count never inflates the score.
func ChainMultiplier(chainIndex int) int {
	ci := clampInt(chainIndex, 1, MaxCascades)
	return bits.Len(uint(ci)) - 1
}

// ChainFactor is the factor applied to base scores at chainIndex. The first
// clear scores at full base value.
func ChainFactor(chainIndex int) int {
	return 1 + ChainMultiplier(chainIndex)
}

// UltimateMultiplier returns 5 when the combo fired, otherwise 1.
func UltimateMultiplier(triggered bool) int {
	if triggered {
		return UltimateComboMultiplier
	}
	return 1
}

// Score computes the breakdown of one cascade pass. levelBases[i] is the
// summed base score cleared at chain index i+1. The total is
// (sum of base x chain factor) x ultimate multiplier + booster.
func Score(levelBases []int, ultimate bool, booster int) ScoreBreakdown {
	out := ScoreBreakdown{
		UltimateMultiplier: UltimateMultiplier(ultimate),
		BoosterModifier:    booster,
	}
	for i, base := range levelBases {
		out.Base += base
		out.Chained += base * ChainFactor(i+1)
	}
	if n := len(levelBases); n > 0 {
		out.ChainMultiplier = ChainMultiplier(n)
	}
	out.Total = out.Chained*out.UltimateMultiplier + booster
	return out
}

// BoosterSource supplies the additive booster bonus for the dice cleared in
// one cascade pass.
type BoosterSource interface {
	Modifier(cleared []Die) int
}

// BoosterFunc adapts a function to BoosterSource.
type BoosterFunc func(cleared []Die) int

// Modifier implements BoosterSource.
func (f BoosterFunc) Modifier(cleared []Die) int {
	return f(cleared)
}

type noBoosters struct{}

func (noBoosters) Modifier([]Die) int { return 0 }
