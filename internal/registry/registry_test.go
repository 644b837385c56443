package registry

import (
	"testing"

	"github.com/vovakirdan/dicefall/internal/core"
)

type stubGame struct {
	id      string
	summary *core.RunSummary
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }

type summarizingGame struct {
	stubGame
}

func (g *summarizingGame) Summary() core.RunSummary { return *g.summary }

func TestRegisterCreateList(t *testing.T) {
	Register("stub_a", func() Game { return &stubGame{id: "stub_a"} })
	Register("stub_b", func() Game { return &stubGame{id: "stub_b"} })

	if !Exists("stub_a") || Exists("stub_missing") {
		t.Fatal("Exists reports wrong registrations")
	}

	g, err := Create("stub_b")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "stub_b" {
		t.Errorf("expected stub_b, got %s", g.ID())
	}

	if _, err := Create("stub_missing"); err == nil {
		t.Error("expected error for unknown game")
	}

	var seen []string
	for _, info := range List() {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			seen = append(seen, info.ID)
			if info.Title != "Stub "+info.ID {
				t.Errorf("unexpected title %q", info.Title)
			}
		}
	}
	if len(seen) != 2 || seen[0] != "stub_a" {
		t.Errorf("List should be sorted by ID, got %v", seen)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
}

func TestSummaryOf(t *testing.T) {
	if got := SummaryOf(&stubGame{id: "plain"}); got != (core.RunSummary{}) {
		t.Errorf("plain game should yield zero summary, got %+v", got)
	}

	want := core.RunSummary{MaxChain: 3, Cascades: 7, DiceCleared: 21, Pieces: 12, Ticks: 400}
	g := &summarizingGame{stubGame: stubGame{id: "sum", summary: &want}}
	if got := SummaryOf(g); got != want {
		t.Errorf("SummaryOf = %+v, want %+v", got, want)
	}
}
