package engine

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
)

// buildBoard parses rows listed top row first. Tokens: "." empty, "N" a
// regular die showing N (d6, or d20 above 6), "*N" wild d20, "#N" black die.
func buildBoard(t *testing.T, rows ...string) *Board {
	t.Helper()
	h := len(rows)
	w := len(strings.Fields(rows[0]))
	b := NewBoard(w, h)
	id := 0
	for r, row := range rows {
		y := h - 1 - r
		tokens := strings.Fields(row)
		if len(tokens) != w {
			t.Fatalf("row %d has %d cells, want %d", r, len(tokens), w)
		}
		for x, tok := range tokens {
			if tok == "." {
				continue
			}
			id++
			d := parseDie(t, id, tok)
			if !b.Lock(P(x, y), d) {
				t.Fatalf("lock (%d,%d) failed", x, y)
			}
		}
	}
	return b
}

func parseDie(t *testing.T, id int, tok string) *Die {
	t.Helper()
	kind := byte(0)
	if tok[0] == '*' || tok[0] == '#' {
		kind = tok[0]
		tok = tok[1:]
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		t.Fatalf("bad token %q: %v", tok, err)
	}
	switch kind {
	case '*':
		return NewWildDie(id, 20, v, ColorBlue)
	case '#':
		return NewBlackDie(id, v)
	}
	faces := 6
	if v > 6 {
		faces = 20
	}
	return NewDie(id, faces, v, ColorRed)
}

// values renders the board as rows of face values, top row first.
func values(b *Board) []string {
	rows := make([]string, 0, b.H)
	for y := b.H - 1; y >= 0; y-- {
		cells := make([]string, b.W)
		for x := 0; x < b.W; x++ {
			d := b.Get(P(x, y))
			if d == nil {
				cells[x] = "."
				continue
			}
			cells[x] = strconv.Itoa(d.Value)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

func newRoller(seed int64) Roller {
	return rand.New(rand.NewSource(seed))
}
