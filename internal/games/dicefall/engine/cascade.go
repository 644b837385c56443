package engine

import "github.com/charmbracelet/log"

// CascadeStep records one clear pass of a chain.
type CascadeStep struct {
	ChainIndex int
	Groups     []MatchGroup
	Cleared    int
	Converted  []Pos // Cells touched by black-die area conversion
	Base       int
	Chained    int // Base x chain factor for this level
}

// CascadeResult is the outcome of resolving one lock event.
type CascadeResult struct {
	Breakdown    ScoreBreakdown
	CascadeCount int
	Capped       bool         // Matches were left on the board by the cap
	Remaining    []MatchGroup // Matches not resolved because of the cap
	Steps        []CascadeStep
	Cleared      []Die
}

// Resolver runs clear, conversion, gravity and re-detection passes.
type Resolver struct {
	Gravity  bool // False in Zen mode: one clear pass, nothing falls
	Roller   Roller
	Boosters BoosterSource
	Logger   *log.Logger
}

// Resolve clears initial and every cascade it triggers, up to MaxCascades
// levels. An Ultimate Combo multiplies the whole pass by 5, once.
func (r Resolver) Resolve(b *Board, initial []MatchGroup, ultimate bool) CascadeResult {
	var res CascadeResult
	if len(initial) == 0 {
		res.Breakdown.UltimateMultiplier = 1
		return res
	}
	logger := r.Logger
	if logger == nil {
		logger = discardLogger()
	}
	boosters := r.Boosters
	if boosters == nil {
		boosters = noBoosters{}
	}

	var levels []int
	current := initial
	chainIndex := 1
	for {
		step := CascadeStep{ChainIndex: chainIndex, Groups: current}

		// Clear every group first so conversions see the post-clear board.
		var blacks []Pos
		for _, g := range current {
			for _, p := range g.Positions {
				if d := b.Clear(p); d != nil {
					res.Cleared = append(res.Cleared, *d)
					step.Cleared++
				}
			}
			blacks = append(blacks, g.Blacks...)
		}

		for _, c := range blacks {
			if r.Roller == nil {
				logger.Warn("area conversion skipped: no roller", "center", c)
				break
			}
			step.Converted = append(step.Converted, ConvertArea(b, c, r.Roller)...)
		}

		if r.Gravity {
			b.ApplyGravity()
		}

		for _, g := range current {
			step.Base += BaseScore(g)
		}
		step.Chained = step.Base * ChainFactor(chainIndex)
		levels = append(levels, step.Base)
		res.Steps = append(res.Steps, step)
		res.CascadeCount = chainIndex

		logger.Debug("cascade pass", "chain", chainIndex, "groups", len(current), "cleared", step.Cleared)

		if !r.Gravity {
			break
		}
		next := FindMatches(b)
		if len(next) == 0 {
			break
		}
		if chainIndex >= MaxCascades {
			res.Capped = true
			res.Remaining = next
			logger.Info("cascade capped", "chain", chainIndex, "pending", len(next))
			break
		}
		chainIndex++
		current = next
	}

	res.Breakdown = Score(levels, ultimate, boosters.Modifier(res.Cleared))
	return res
}
