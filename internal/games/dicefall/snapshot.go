package dicefall

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateConfigError GameStateType = "config_error"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64 // Platform ticks
	EngineTick uint64
	Mode       string
	Score      int
	Rows       []string // Top row first, see BoardRows
	Falling    []string // "x,y=die" for each falling unit
	Next       string   // Shape name of the preview piece
	Stats      engine.Stats
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick: g.ticks,
		Mode: string(g.preset),
	}
	if g.eng == nil {
		s.State = StateConfigError
		return s
	}

	es := g.eng.Snapshot()
	s.EngineTick = es.Tick
	s.Score = es.Score
	s.Rows = BoardRows(es.Board)
	s.Next = es.Next.Shape.Name
	s.Stats = es.Stats
	for _, u := range es.Falling {
		s.Falling = append(s.Falling, fmt.Sprintf("%d,%d=%s", u.Pos.X, u.Pos.Y, u.Die))
	}

	switch {
	case es.Over:
		s.State = StateGameOver
	case g.paused:
		s.State = StatePaused
	default:
		s.State = StatePlaying
	}
	return s
}

// BoardRows renders a board as text, top row first. Empty cells are "...."
// and dice are a color letter, a kind marker and a two-digit value.
func BoardRows(b engine.BoardSnapshot) []string {
	rows := make([]string, 0, b.H)
	for y := b.H - 1; y >= 0; y-- {
		var sb strings.Builder
		for x := 0; x < b.W; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			d := b.At(x, y)
			if d == nil {
				sb.WriteString("....")
				continue
			}
			kind := '-'
			switch {
			case d.Black:
				kind = '#'
			case d.Wild:
				kind = '*'
			}
			fmt.Fprintf(&sb, "%c%c%02d", d.Color.Char(), kind, d.Value)
		}
		rows = append(rows, sb.String())
	}
	return rows
}
