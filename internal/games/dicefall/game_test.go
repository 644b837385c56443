package dicefall

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/dicefall/internal/config"
	"github.com/vovakirdan/dicefall/internal/core"
	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
	"github.com/vovakirdan/dicefall/internal/registry"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func newGame(t *testing.T, preset config.DifficultyPreset, seed int64) *Game {
	t.Helper()
	g := New(preset)
	g.Reset(testRuntime(seed))
	if err := g.Err(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return g
}

func TestRegisteredModes(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{"dicefall", "Dicefall"},
		{"dicefall_easy", "Dicefall (Easy)"},
		{"dicefall_hard", "Dicefall (Hard)"},
		{"dicefall_zen", "Dicefall (Zen)"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			g, err := registry.Create(tt.id)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if g.ID() != tt.id || g.Title() != tt.title {
				t.Errorf("got %s/%q, want %s/%q", g.ID(), g.Title(), tt.id, tt.title)
			}
		})
	}
}

func TestStepTiming(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 7)

	// 800 ms at 60 ticks per second.
	if got := g.StepEvery(); got != 48 {
		t.Fatalf("StepEvery = %d, want 48", got)
	}

	for i := 0; i < 47; i++ {
		g.Step(core.NewInputFrame())
	}
	if tick := g.Engine().Tick(); tick != 0 {
		t.Fatalf("engine stepped early: tick %d", tick)
	}
	g.Step(core.NewInputFrame())
	if tick := g.Engine().Tick(); tick != 1 {
		t.Errorf("expected one engine step after 48 ticks, got %d", tick)
	}
}

func TestStepTimingFollowsTickRate(t *testing.T) {
	g := New(config.DifficultyHard)
	rt := testRuntime(3)
	rt.TickRate = 30
	g.Reset(rt)

	// 400 ms at 30 ticks per second.
	if got := g.StepEvery(); got != 12 {
		t.Errorf("StepEvery = %d, want 12", got)
	}
}

func TestZenDisablesSpeedProgression(t *testing.T) {
	if !newGame(t, config.DifficultyNormal, 1).difficulty.IsEnabled() {
		t.Error("normal mode should speed up with score")
	}
	if newGame(t, config.DifficultyZen, 1).difficulty.IsEnabled() {
		t.Error("zen mode has no timer to speed up")
	}
}

func TestSoftDropStepsImmediately(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 11)

	g.Step(frame(core.ActionSoftDrop))
	if tick := g.Engine().Tick(); tick != 1 {
		t.Errorf("soft drop should step the engine once, got tick %d", tick)
	}
}

func TestHardDropLocksPiece(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 5)

	g.Step(frame(core.ActionHardDrop))

	snap := g.Snapshot()
	if snap.Stats.DiceLocked == 0 {
		t.Fatal("hard drop should lock the piece")
	}
	if snap.Stats.Pieces != 2 && snap.State != StateGameOver {
		t.Errorf("next piece should have spawned, pieces=%d", snap.Stats.Pieces)
	}
}

func TestPauseToggle(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 9)

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}

	before := g.Snapshot()
	for i := 0; i < 100; i++ {
		g.Step(frame(core.ActionHardDrop))
	}
	if after := g.Snapshot(); after.Tick != before.Tick || after.EngineTick != before.EngineTick {
		t.Error("paused game must not advance")
	}
	if g.Snapshot().State != StatePaused {
		t.Errorf("snapshot state = %s, want paused", g.Snapshot().State)
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestShiftInput(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 21)

	start := g.Engine().Piece().Columns()
	g.Step(frame(core.ActionLeft))
	moved := g.Engine().Piece().Columns()
	if len(start) > 0 && start[0] > 0 && moved[0] != start[0]-1 {
		t.Errorf("left input should shift the piece: %v -> %v", start, moved)
	}
}

func TestDeterminism(t *testing.T) {
	inputs := []core.InputFrame{
		frame(core.ActionLeft),
		frame(core.ActionRotate),
		frame(core.ActionHardDrop),
		frame(core.ActionRight, core.ActionRight),
		frame(core.ActionSoftDrop),
		frame(core.ActionHardDrop),
	}

	run := func() Snapshot {
		g := newGame(t, config.DifficultyHard, 12345)
		for i := 0; i < 300; i++ {
			g.Step(inputs[i%len(inputs)])
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs should give the same snapshot:\n%+v\nvs\n%+v", a, b)
	}
}

func TestPlaysToGameOver(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 77)

	for i := 0; i < 10000 && !g.State().GameOver; i++ {
		g.Step(frame(core.ActionHardDrop))
	}
	if !g.State().GameOver {
		t.Fatal("hard-dropping into the center should end the game")
	}

	before := g.Snapshot()
	g.Step(frame(core.ActionHardDrop))
	if after := g.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("Step after game over must be a no-op")
	}

	sum := g.Summary()
	if sum.Mode != "normal" || sum.Seed != 77 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.Pieces == 0 || sum.Ticks == 0 {
		t.Errorf("summary should carry counters, got %+v", sum)
	}
	if got := registry.SummaryOf(g); got != sum {
		t.Errorf("registry summary %+v differs from %+v", got, sum)
	}
}

func TestUnknownPresetReportsError(t *testing.T) {
	g := New(config.DifficultyPreset("blitz"))
	g.Reset(testRuntime(1))

	if g.Err() == nil {
		t.Fatal("expected configuration error")
	}
	if !g.State().GameOver {
		t.Error("a game that cannot start reports game over")
	}
	if g.Snapshot().State != StateConfigError {
		t.Errorf("snapshot state = %s", g.Snapshot().State)
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "CONFIG ERROR") {
		t.Error("render should show the configuration error")
	}
}

func TestCustomConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dicefall.yaml")
	body := "modes:\n  normal:\n    fall_interval_ms: 1000\n    face_counts: [4]\n    gravity: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := newGame(t, config.DifficultyNormal, 2)
	if got := g.StepEvery(); got != 60 {
		t.Errorf("StepEvery = %d, want 60", got)
	}
	if faces := g.Engine().Config().FaceCounts; len(faces) != 1 || faces[0] != 4 {
		t.Errorf("expected d4 only, got %v", faces)
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, config.DifficultyNormal, 4)

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	out := scr.String()
	for _, want := range []string{"Dicefall", "Score: 0", "Next:"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	small := core.NewScreen(20, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "Terminal too small") {
		t.Error("small screen should show size warning")
	}
}

func TestBreakdownText(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		ult    bool
		boost  int
		want   string
	}{
		{"nothing cleared", nil, false, 0, ""},
		{"single level", []int{54}, false, 0, "54 x1 +0"},
		{"multi-level chain", []int{54, 108, 20}, false, 0, "310 x1 +0"},
		{"ultimate with booster", []int{54, 108}, true, 3, "270 x5 +3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := engine.Score(tt.levels, tt.ult, tt.boost)
			if got := breakdownText(b); got != tt.want {
				t.Errorf("breakdownText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoosterTable(t *testing.T) {
	table := NewBoosterTable(map[string]int{"star": 50, "bomb": 120, "rocket": 999})

	if _, ok := table[engine.BoosterNone]; ok {
		t.Error("none must not carry points")
	}
	if len(table) != 2 {
		t.Errorf("unknown kinds should be skipped, got %v", table)
	}

	cleared := []engine.Die{
		{Value: 3, Booster: engine.BoosterStar},
		{Value: 3},
		{Value: 3, Booster: engine.BoosterBomb},
		{Value: 3, Booster: engine.BoosterMultiplier},
	}
	if got := table.Modifier(cleared); got != 170 {
		t.Errorf("Modifier = %d, want 170", got)
	}
	if got := table.Modifier(nil); got != 0 {
		t.Errorf("Modifier(nil) = %d, want 0", got)
	}
}

func TestBoardRows(t *testing.T) {
	b := engine.NewBoard(4, 3)
	b.Lock(engine.P(0, 0), engine.NewDie(1, 6, 5, engine.ColorRed))
	b.Lock(engine.P(3, 0), engine.NewWildDie(2, 20, 12, engine.ColorBlue))
	b.Lock(engine.P(3, 1), engine.NewBlackDie(3, 7))

	rows := BoardRows(b.Snapshot())
	want := []string{
		".... .... .... ....",
		".... .... .... K#07",
		"R-05 .... .... B*12",
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("BoardRows =\n%s\nwant\n%s", strings.Join(rows, "\n"), strings.Join(want, "\n"))
	}
}
