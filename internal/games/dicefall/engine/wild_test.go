package engine

import "testing"

func TestCanMatchWith(t *testing.T) {
	wild := NewWildDie(1, 20, 7, ColorBlue)
	black := NewBlackDie(2, 13)
	regular := NewDie(3, 6, 4, ColorRed)

	for target := 1; target <= 20; target++ {
		if !CanMatchWith(wild, target) {
			t.Errorf("wild should match %d", target)
		}
		if !CanMatchWith(black, target) {
			t.Errorf("black should match %d", target)
		}
		if CanMatchWith(regular, target) {
			t.Errorf("regular die matched %d via wild path", target)
		}
	}

	for _, target := range []int{0, 21, -3} {
		if CanMatchWith(wild, target) {
			t.Errorf("wild should not match out-of-range target %d", target)
		}
	}
}

func TestValidateBlackDie(t *testing.T) {
	tests := []struct {
		name string
		die  *Die
		want bool
	}{
		{"valid", NewBlackDie(1, 20), true},
		{"not black", NewWildDie(1, 20, 5, ColorRed), false},
		{"wrong faces", &Die{Faces: 12, Value: 3, Wild: true, Black: true}, false},
		{"not wild", &Die{Faces: 20, Value: 3, Black: true}, false},
		{"value zero", &Die{Faces: 20, Value: 0, Wild: true, Black: true}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateBlackDie(tt.die); got != tt.want {
				t.Errorf("ValidateBlackDie = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertArea(t *testing.T) {
	b := buildBoard(t,
		"1 2 3 4",
		"5 . 6 1",
		"2 3 4 5",
	)
	before := b.Clone()

	touched := ConvertArea(b, P(1, 1), newRoller(42))
	if len(touched) != 8 {
		t.Fatalf("expected 8 touched cells, got %d", len(touched))
	}

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			p := P(x, y)
			d := b.Get(p)
			orig := before.Get(p)
			inArea := x <= 2
			switch {
			case orig == nil:
				if d != nil {
					t.Errorf("%v: empty cell became occupied", p)
				}
			case inArea:
				if d.Faces != 20 || d.Value < 1 || d.Value > 20 {
					t.Errorf("%v: got d%d:%d, want d20 in [1,20]", p, d.Faces, d.Value)
				}
			default:
				if d.Faces != orig.Faces || d.Value != orig.Value {
					t.Errorf("%v: cell outside area changed", p)
				}
			}
		}
	}
}

func TestConvertAreaAtCorner(t *testing.T) {
	b := buildBoard(t,
		"1 1 1",
		"2 2 2",
		"3 3 3",
	)
	touched := ConvertArea(b, P(0, 0), newRoller(1))
	if len(touched) != 4 {
		t.Errorf("expected 4 in-bounds cells, got %d", len(touched))
	}
	if b.Get(P(2, 0)).Faces != 6 {
		t.Error("cell outside corner area was converted")
	}
}
