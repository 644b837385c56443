package dicefall

import (
	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// BoosterTable maps each booster kind to the points it adds when a die
// carrying it is cleared. It implements engine.BoosterSource.
type BoosterTable map[engine.Booster]int

// NewBoosterTable builds a table from the yaml booster section. Unknown
// kinds are skipped; config validation already rejects them.
func NewBoosterTable(points map[string]int) BoosterTable {
	t := make(BoosterTable, len(points))
	for name, pts := range points {
		b, ok := engine.ParseBooster(name)
		if !ok || b == engine.BoosterNone {
			continue
		}
		t[b] = pts
	}
	return t
}

// Modifier returns the sum of booster points over the cleared dice.
func (t BoosterTable) Modifier(cleared []engine.Die) int {
	total := 0
	for _, d := range cleared {
		if d.Booster == engine.BoosterNone {
			continue
		}
		total += t[d.Booster]
	}
	return total
}
