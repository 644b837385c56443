package engine

import "testing"

// chainBoard clears a column of ones, which drops a 2 next to a pair of 2s.
func chainBoard(t *testing.T) *Board {
	t.Helper()
	return buildBoard(t,
		"2 .",
		"1 5",
		"1 2",
		"1 2",
	)
}

func TestResolveNoMatches(t *testing.T) {
	b := chainBoard(t)
	res := Resolver{Gravity: true, Roller: newRoller(1)}.Resolve(b, nil, false)

	if res.CascadeCount != 0 || res.Breakdown.Total != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if b.Count() != 6 {
		t.Error("board changed without matches")
	}
}

func TestResolveChain(t *testing.T) {
	b := chainBoard(t)
	initial := FindMatches(b)
	if len(initial) != 1 || initial[0].Value != 1 {
		t.Fatalf("unexpected initial matches %+v", initial)
	}

	res := Resolver{Gravity: true, Roller: newRoller(1)}.Resolve(b, initial, false)

	if res.CascadeCount != 2 {
		t.Fatalf("CascadeCount = %d, want 2", res.CascadeCount)
	}
	if res.Capped {
		t.Error("short chain should not be capped")
	}
	// Level 1: 18 x 3 x 1 x 1 = 54. Level 2: 18 x 3 x 2 x 2 = 216.
	want := ScoreBreakdown{
		Base:               162,
		Chained:            270,
		ChainMultiplier:    1,
		UltimateMultiplier: 1,
		Total:              270,
	}
	if res.Breakdown != want {
		t.Errorf("breakdown = %+v, want %+v", res.Breakdown, want)
	}
	if len(res.Steps) != 2 || res.Steps[0].Cleared != 3 || res.Steps[1].ChainIndex != 2 {
		t.Errorf("unexpected steps %+v", res.Steps)
	}
	if len(res.Cleared) != 6 {
		t.Errorf("cleared %d dice, want 6", len(res.Cleared))
	}
	if b.Count() != 1 || b.Get(P(1, 0)).Value != 5 {
		t.Errorf("unexpected board after chain: %v", values(b))
	}
}

func TestResolveZenSinglePass(t *testing.T) {
	b := chainBoard(t)
	res := Resolver{Gravity: false, Roller: newRoller(1)}.Resolve(b, FindMatches(b), false)

	if res.CascadeCount != 1 {
		t.Errorf("CascadeCount = %d, want 1", res.CascadeCount)
	}
	if res.Breakdown.Total != 54 {
		t.Errorf("Total = %d, want 54", res.Breakdown.Total)
	}
	if d := b.Get(P(0, 3)); d == nil || d.Value != 2 {
		t.Error("zen mode must not apply gravity")
	}
}

func TestResolveUltimateAppliesOnce(t *testing.T) {
	b := chainBoard(t)
	res := Resolver{Gravity: true, Roller: newRoller(1)}.Resolve(b, FindMatches(b), true)

	if res.Breakdown.UltimateMultiplier != 5 {
		t.Errorf("UltimateMultiplier = %d, want 5", res.Breakdown.UltimateMultiplier)
	}
	if res.Breakdown.Total != 1350 {
		t.Errorf("Total = %d, want 1350", res.Breakdown.Total)
	}
}

func TestResolveBoosterOncePerPass(t *testing.T) {
	b := chainBoard(t)
	calls := 0
	src := BoosterFunc(func(cleared []Die) int {
		calls++
		return 10 * len(cleared)
	})
	res := Resolver{Gravity: true, Roller: newRoller(1), Boosters: src}.Resolve(b, FindMatches(b), true)

	if calls != 1 {
		t.Errorf("booster source called %d times, want 1", calls)
	}
	if res.Breakdown.BoosterModifier != 60 {
		t.Errorf("BoosterModifier = %d, want 60", res.Breakdown.BoosterModifier)
	}
	if res.Breakdown.Total != 1350+60 {
		t.Errorf("Total = %d, want %d", res.Breakdown.Total, 1350+60)
	}
}

// ladderBoard builds a 2-wide board where every clear drops the next
// L-shaped triple into place: column 0 holds 1,1,2,2,...; column 1 holds
// 1,2,3,...
func ladderBoard(levels int) *Board {
	b := NewBoard(2, 2*levels)
	id := 0
	for y := 0; y < 2*levels; y++ {
		id++
		b.Lock(P(0, y), NewDie(id, 20, y/2+1, ColorRed))
	}
	for y := 0; y < levels; y++ {
		id++
		b.Lock(P(1, y), NewDie(id, 20, y+1, ColorGreen))
	}
	return b
}

func TestResolveCascadeCap(t *testing.T) {
	b := ladderBoard(12)
	initial := FindMatches(b)
	if len(initial) != 1 {
		t.Fatalf("expected exactly 1 initial match, got %d", len(initial))
	}

	res := Resolver{Gravity: true, Roller: newRoller(1)}.Resolve(b, initial, false)

	if res.CascadeCount != MaxCascades {
		t.Errorf("CascadeCount = %d, want %d", res.CascadeCount, MaxCascades)
	}
	if !res.Capped || len(res.Remaining) != 1 || res.Remaining[0].Value != 11 {
		t.Errorf("expected capped chain with level 11 pending, got capped=%v remaining=%+v", res.Capped, res.Remaining)
	}
	if b.Count() != 36-3*MaxCascades {
		t.Errorf("board holds %d dice, want %d", b.Count(), 36-3*MaxCascades)
	}
	// Sum over k=1..10 of 180k x factor(k).
	if res.Breakdown.Chained != 33300 {
		t.Errorf("Chained = %d, want 33300", res.Breakdown.Chained)
	}
	if res.Breakdown.ChainMultiplier != 3 {
		t.Errorf("ChainMultiplier = %d, want 3", res.Breakdown.ChainMultiplier)
	}
}

func TestResolveBlackDieConvertsArea(t *testing.T) {
	b := buildBoard(t,
		"4 5 6",
		"#7 2 3",
		"1 1 5",
	)
	initial := FindMatches(b)
	if len(initial) != 1 || len(initial[0].Blacks) != 1 {
		t.Fatalf("expected one group with a black die, got %+v", initial)
	}

	res := Resolver{Gravity: false, Roller: newRoller(7)}.Resolve(b, initial, false)

	if len(res.Steps) != 1 || len(res.Steps[0].Converted) != 3 {
		t.Fatalf("expected 3 converted cells, got %+v", res.Steps)
	}
	for _, p := range []Pos{P(1, 1), P(0, 2), P(1, 2)} {
		d := b.Get(p)
		if d == nil || d.Faces != 20 || d.Value < 1 || d.Value > 20 {
			t.Errorf("%v: expected d20 in [1,20], got %v", p, d)
		}
	}
	outside := map[Pos]int{P(2, 0): 5, P(2, 1): 3, P(2, 2): 6}
	for p, v := range outside {
		d := b.Get(p)
		if d == nil || d.Faces != 6 || d.Value != v {
			t.Errorf("%v: cell outside area changed to %v", p, d)
		}
	}
}
