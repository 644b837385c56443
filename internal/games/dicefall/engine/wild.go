package engine

// IsWildDie reports whether d matches any value.
func IsWildDie(d *Die) bool {
	return d != nil && (d.Wild || d.Black)
}

// CanMatchWith reports whether d matches target through the wild path.
// Regular dice never use it; their value is compared directly.
func CanMatchWith(d *Die, target int) bool {
	return IsWildDie(d) && target >= 1 && target <= 20
}

// ValidateBlackDie checks the black-die invariants.
func ValidateBlackDie(d *Die) bool {
	if d == nil || !d.Black {
		return false
	}
	return d.Faces == BlackDieFaces && d.Value >= 1 && d.Value <= BlackDieFaces && d.Wild
}

// matchesValue reports whether d counts as target for matching.
func matchesValue(d *Die, target int) bool {
	if d == nil {
		return false
	}
	if IsWildDie(d) {
		return CanMatchWith(d, target)
	}
	return d.Value == target
}

// ConvertArea turns every die in the 3x3 block around center into a d20 and
// rerolls it. All dice are converted before any is rerolled. Returns the
// positions that were touched.
func ConvertArea(b *Board, center Pos, r Roller) []Pos {
	area := make([]Pos, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := center.Add(dx, dy)
			if b.Occupied(p) {
				area = append(area, p)
			}
		}
	}

	for _, p := range area {
		d := b.Get(p)
		d.Faces = BlackDieFaces
		if d.Value > BlackDieFaces {
			d.Value = BlackDieFaces
		}
	}

	for _, p := range area {
		d := b.Get(p)
		d.Value = Roll(r, d.Faces)
	}

	return area
}
