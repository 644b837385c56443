package engine

import "testing"

func TestBoardIsValidPosition(t *testing.T) {
	b := NewBoard(DefaultWidth, DefaultHeight)

	testCases := []struct {
		pos      Pos
		expected bool
	}{
		{P(0, 0), true},
		{P(7, 15), true},
		{P(-1, 0), false},
		{P(8, 0), false},
		{P(0, -1), false},
		{P(0, 16), false}, // Spawn row is not part of the matrix
	}

	for _, tc := range testCases {
		if got := b.IsValidPosition(tc.pos); got != tc.expected {
			t.Errorf("IsValidPosition(%v) = %v, want %v", tc.pos, got, tc.expected)
		}
	}
}

func TestBoardLockAndClear(t *testing.T) {
	b := NewBoard(4, 4)
	d := NewDie(1, 6, 3, ColorGreen)

	if !b.Lock(P(1, 2), d) {
		t.Fatal("expected lock to succeed")
	}
	if got := b.Get(P(1, 2)); got != d {
		t.Errorf("Get returned %v, want %v", got, d)
	}
	if b.Lock(P(1, 2), NewDie(2, 6, 1, ColorRed)) {
		t.Error("lock into occupied cell should fail")
	}
	if b.Get(P(1, 2)).ID != 1 {
		t.Error("occupied cell was overwritten")
	}
	if b.Lock(P(4, 0), NewDie(3, 6, 1, ColorRed)) {
		t.Error("lock out of bounds should fail")
	}
	if b.Count() != 1 {
		t.Errorf("expected 1 die, got %d", b.Count())
	}

	if got := b.Clear(P(1, 2)); got != d {
		t.Errorf("Clear returned %v, want %v", got, d)
	}
	if b.Occupied(P(1, 2)) {
		t.Error("cell should be empty after clear")
	}
	if b.Clear(P(-1, -1)) != nil {
		t.Error("clear out of bounds should return nil")
	}
}

func TestBoardClamp(t *testing.T) {
	b := NewBoard(8, 16)

	testCases := []struct {
		in, want Pos
	}{
		{P(3, 3), P(3, 3)},
		{P(-2, 5), P(0, 5)},
		{P(9, -4), P(7, 0)},
		{P(2, 16), P(2, 15)},
	}

	for _, tc := range testCases {
		if got := b.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBoardApplyGravity(t *testing.T) {
	b := buildBoard(t,
		"1 . 3",
		". 2 .",
		"4 . .",
		". . 5",
	)

	moved := b.ApplyGravity()
	if moved != 4 {
		t.Errorf("expected 4 moves, got %d", moved)
	}

	want := []string{
		". . .",
		". . .",
		"1 . 3",
		"4 2 5",
	}
	got := values(b)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBoardCloneIsDeep(t *testing.T) {
	b := buildBoard(t,
		"1 2",
		"3 4",
	)
	c := b.Clone()
	c.Get(P(0, 0)).Value = 6
	c.Clear(P(1, 1))

	if b.Get(P(0, 0)).Value != 3 {
		t.Error("clone shares dice with original")
	}
	if !b.Occupied(P(1, 1)) {
		t.Error("clone shares cells with original")
	}
}

func TestBoardSnapshotReadOnly(t *testing.T) {
	b := buildBoard(t, "1 . 2")
	s := b.Snapshot()

	s.At(0, 0).Value = 5
	if b.Get(P(0, 0)).Value != 1 {
		t.Error("snapshot mutation leaked into board")
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 dice in snapshot, got %d", s.Count())
	}
	if s.At(1, 0) != nil || s.At(9, 9) != nil {
		t.Error("expected nil for empty and out-of-range cells")
	}
}

func TestDieValueClamped(t *testing.T) {
	if d := NewDie(1, 6, 9, ColorRed); d.Value != 6 {
		t.Errorf("expected value clamped to 6, got %d", d.Value)
	}
	if d := NewDie(1, 4, 0, ColorRed); d.Value != 1 {
		t.Errorf("expected value clamped to 1, got %d", d.Value)
	}
}

func TestParseColor(t *testing.T) {
	for c := Color(0); c < ColorCount; c++ {
		got, ok := ParseColor(c.String())
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseColor("teal"); ok {
		t.Error("expected unknown color to fail")
	}
}
