package engine

import (
	"errors"
	"math"
	"testing"
)

// fixedRoller always rolls the lowest face and never passes a chance check.
type fixedRoller struct{}

func (fixedRoller) Intn(int) int     { return 0 }
func (fixedRoller) Float64() float64 { return 0.999 }

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 4
	cfg.Height = 4
	cfg.FaceCounts = []int{20}
	cfg.WildChance = 0
	cfg.BlackChance = 0
	cfg.BoosterChance = 0
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"booster chance above one", func(c *Config) { c.BoosterChance = 1.5 }, "booster_chance"},
		{"negative wild chance", func(c *Config) { c.WildChance = -0.1 }, "wild_chance"},
		{"nan black chance", func(c *Config) { c.BlackChance = math.NaN() }, "black_chance"},
		{"interval too short", func(c *Config) { c.FallIntervalMs = 300 }, "fall_interval_ms"},
		{"interval too long", func(c *Config) { c.FallIntervalMs = 1500 }, "fall_interval_ms"},
		{"unknown face count", func(c *Config) { c.FaceCounts = []int{6, 7} }, "face_counts"},
		{"no face counts", func(c *Config) { c.FaceCounts = nil }, "face_counts"},
		{"narrow board", func(c *Config) { c.Width = 2 }, "width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			e, err := New(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if e != nil {
				t.Error("expected nil engine on error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not match ErrInvalidConfig", err)
			}
			var ce ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected ConfigError on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestNewRejectsWideShape(t *testing.T) {
	line4, _ := ShapeByName(ShapeLine4)
	wide := Shape{Name: "wide", Offsets: []Pos{{0, 0}, {4, 0}}}

	if _, err := New(smallConfig(), WithShapes(line4)); err != nil {
		t.Fatalf("line4 fits a 4-wide board: %v", err)
	}
	if _, err := New(smallConfig(), WithShapes(wide)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected config error for wide shape, got %v", err)
	}
}

func TestNewSpawnsFirstPiece(t *testing.T) {
	e, err := New(DefaultConfig(), WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}

	s := e.Snapshot()
	if len(s.Falling) == 0 {
		t.Fatal("expected a falling piece after New")
	}
	for _, u := range s.Falling {
		if u.Pos.Y < DefaultHeight {
			t.Errorf("unit at %v should start in the spawn row", u.Pos)
		}
	}
	if len(s.Next.Dice) != s.Next.Shape.Size() || s.Next.Shape.Size() == 0 {
		t.Errorf("bad next piece preview %+v", s.Next)
	}
	if s.Stats.Pieces != 1 || s.Over {
		t.Errorf("unexpected initial state %+v", s)
	}
}

func TestEngineClearsLine(t *testing.T) {
	line3, _ := ShapeByName(ShapeLine3)
	cfg := DefaultConfig()
	cfg.FaceCounts = []int{6}

	e, err := New(cfg, WithRoller(fixedRoller{}), WithShapes(line3))
	if err != nil {
		t.Fatal(err)
	}

	res := e.HardDrop()
	if res.GameOver {
		t.Fatal("unexpected game over")
	}
	if res.Locked != 3 {
		t.Errorf("locked %d units, want 3", res.Locked)
	}
	if res.Cascade == nil || res.Cascade.Breakdown.Total != 54 {
		t.Fatalf("expected a 54 point clear, got %+v", res.Cascade)
	}
	if e.Score() != 54 {
		t.Errorf("Score = %d, want 54", e.Score())
	}
	if e.Board().Count() != 0 {
		t.Errorf("board should be empty, has %d dice", e.Board().Count())
	}

	var locked, found, steps, scores, spawned int
	for _, ev := range res.Events {
		switch ev.(type) {
		case UnitLockedEvent:
			locked++
		case MatchFoundEvent:
			found++
		case CascadeStepEvent:
			steps++
		case ScoreEvent:
			scores++
		case PieceSpawnedEvent:
			spawned++
		}
	}
	if locked != 3 || found != 1 || steps != 1 || scores != 1 || spawned != 1 {
		t.Errorf("events locked=%d found=%d steps=%d scores=%d spawned=%d", locked, found, steps, scores, spawned)
	}

	st := e.Stats()
	if st.DiceCleared != 3 || st.Matches != 1 || st.MaxChain != 1 || st.Pieces != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestEngineComboAndBoosters(t *testing.T) {
	line3, _ := ShapeByName(ShapeLine3)
	cfg := DefaultConfig()
	cfg.FaceCounts = []int{6}

	e, err := New(cfg,
		WithRoller(fixedRoller{}),
		WithShapes(line3),
		WithComboRule(func([]MatchGroup) bool { return true }),
		WithBoosterSource(BoosterFunc(func(cleared []Die) int { return len(cleared) })),
	)
	if err != nil {
		t.Fatal(err)
	}

	res := e.HardDrop()
	if res.Cascade == nil {
		t.Fatal("expected a cascade")
	}
	if got := res.Cascade.Breakdown.Total; got != 54*5+3 {
		t.Errorf("Total = %d, want %d", got, 54*5+3)
	}
	if e.Stats().UltimateCombos != 1 {
		t.Error("ultimate combo not counted")
	}
}

func TestEngineSpawnBlockedEndsGame(t *testing.T) {
	single, _ := ShapeByName(ShapeSingle)
	e, err := New(smallConfig(), WithSeed(5), WithShapes(single))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		e.Board().Lock(P(1, y), NewDie(100+y, 20, y+1, ColorRed))
	}

	res := e.HardDrop()
	if !res.GameOver || !e.Over() {
		t.Fatal("expected game over after the column filled up")
	}

	var over *GameOverEvent
	for _, ev := range res.Events {
		if g, ok := ev.(GameOverEvent); ok {
			over = &g
		}
	}
	if over == nil || over.Reason != GameOverSpawnBlocked {
		t.Fatalf("expected spawn_blocked game over, got %+v", over)
	}
	if over.Board.Count() != 4 {
		t.Errorf("final snapshot holds %d dice, want 4", over.Board.Count())
	}

	tick := e.Tick()
	after := e.Step()
	if !after.GameOver || len(after.Events) != 0 || e.Tick() != tick {
		t.Error("no ticks may be processed after game over")
	}
	if e.Shift(1) || e.Rotate() {
		t.Error("controls must be ignored after game over")
	}
}

func TestEngineOverflowEndsGame(t *testing.T) {
	single, _ := ShapeByName(ShapeSingle)
	e, err := New(smallConfig(), WithSeed(5), WithShapes(single))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		e.Board().Lock(P(1, y), NewDie(100+y, 20, y+1, ColorRed))
	}

	res := e.Step()
	if !res.GameOver {
		t.Fatal("expected game over")
	}
	last := res.Events[len(res.Events)-1].(GameOverEvent)
	if last.Reason != GameOverOverflow {
		t.Errorf("reason %s, want overflow", last.Reason)
	}
}

func TestEngineShiftAndRotate(t *testing.T) {
	line3, _ := ShapeByName(ShapeLine3)
	e, err := New(DefaultConfig(), WithSeed(1), WithShapes(line3))
	if err != nil {
		t.Fatal(err)
	}

	shifts := 0
	for e.Shift(-1) {
		shifts++
	}
	if shifts != 2 {
		t.Errorf("shifted %d times to reach the wall, want 2", shifts)
	}
	if !e.Rotate() {
		t.Error("intact piece above the board should rotate")
	}
	for _, u := range e.Snapshot().Falling {
		if u.Pos.X != 0 {
			t.Errorf("rotated unit at %v, want column 0", u.Pos)
		}
	}
}

func TestEngineDeterministic(t *testing.T) {
	play := func() Snapshot {
		e, err := New(DefaultConfig(), WithSeed(2024))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 400 && !e.Over(); i++ {
			switch i % 5 {
			case 0:
				e.Shift(-1)
			case 1:
				e.Rotate()
			case 2:
				e.Shift(2)
			}
			e.Step()
		}
		return e.Snapshot()
	}

	a, b := play(), play()
	if a.Score != b.Score || a.Tick != b.Tick || a.Stats != b.Stats || a.Over != b.Over {
		t.Errorf("runs diverged: %+v vs %+v", a.Stats, b.Stats)
	}
	for y := 0; y < DefaultHeight; y++ {
		for x := 0; x < DefaultWidth; x++ {
			da, db := a.Board.At(x, y), b.Board.At(x, y)
			if (da == nil) != (db == nil) || (da != nil && *da != *db) {
				t.Fatalf("boards differ at (%d,%d)", x, y)
			}
		}
	}
}
