package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dicefall/internal/games/dicefall"
	"github.com/vovakirdan/dicefall/internal/storage"
)

func TestScoreboardOrderToggle(t *testing.T) {
	store := openStore(t)
	for _, score := range []int{300, 900, 500} {
		if _, err := store.SaveRun(storage.RunRecord{GameID: dicefall.GameID, Mode: "normal", Score: score}); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		if _, err := store.SaveScore(dicefall.GameID, score); err != nil {
			t.Fatalf("SaveScore failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.modes[m.cursor].ID != dicefall.GameID {
		t.Fatalf("first mode = %s", m.modes[m.cursor].ID)
	}
	if len(m.runs) != 3 || m.runs[0].Score != 900 {
		t.Fatalf("best order should lead with 900, got %+v", m.runs)
	}
	if !strings.Contains(m.statsLine(), "Games 3") {
		t.Errorf("stats line = %q", m.statsLine())
	}

	next, _ := m.Update(runeKey("o"))
	m = next.(ScoreboardModel)
	if m.order != OrderRecent || m.runs[0].Score != 500 {
		t.Errorf("recent order should lead with the last run, got %+v", m.runs)
	}
	if !strings.Contains(m.View(), "RECENT RUNS") {
		t.Error("title should follow the order")
	}
}

func TestScoreboardModeWraps(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 24)
	if len(m.modes) == 0 {
		t.Fatal("no modes registered")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.cursor != len(m.modes)-1 {
		t.Errorf("shift+tab from the first mode should wrap, cursor=%d", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.cursor != 0 {
		t.Errorf("tab from the last mode should wrap, cursor=%d", m.cursor)
	}

	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("empty scoreboard should say so")
	}
}

func TestScoreboardBack(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 30)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() || cmd == nil {
		t.Error("esc should leave the scoreboard")
	}
}
