package engine

// MinGroupSize is the smallest connected group that counts as a match.
const MinGroupSize = 3

// MatchGroup is one connected set of equal-or-wild dice.
type MatchGroup struct {
	Positions []Pos
	Dice      []Die // Copies, parallel to Positions
	Size      int
	Value     int
	Colors    map[Color]int
	Wilds     int   // Wild dice in the group, black included
	Blacks    []Pos // Positions of black dice, centers for area conversion
}

// PrimaryColor returns the most frequent color. Ties go to the lower color.
func (g MatchGroup) PrimaryColor() Color {
	best := ColorRed
	bestN := -1
	for c := Color(0); c < ColorCount; c++ {
		if n := g.Colors[c]; n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

// FaceSum returns the total face count of the group's dice.
func (g MatchGroup) FaceSum() int {
	sum := 0
	for _, d := range g.Dice {
		sum += d.Faces
	}
	return sum
}

// Contains reports whether p belongs to the group.
func (g MatchGroup) Contains(p Pos) bool {
	for _, q := range g.Positions {
		if q == p {
			return true
		}
	}
	return false
}

var neighbors = [4]Pos{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// FindMatches scans the board from the floor up and left to right and
// returns every disjoint 4-connected group of at least MinGroupSize dice
// sharing a value. Regular dice seed groups first, and a wild die belongs to
// the first qualifying group that reaches it. Wild dice left unclaimed then
// seed groups of their own using their face value.
func FindMatches(b *Board) []MatchGroup {
	claimed := make([]bool, b.W*b.H)
	groups := scanGroups(b, claimed, false)
	return append(groups, scanGroups(b, claimed, true)...)
}

// scanGroups seeds from regular dice, or from unclaimed wild dice when
// wilds is set, and marks the members of every qualifying group as claimed.
func scanGroups(b *Board, claimed []bool, wilds bool) []MatchGroup {
	visited := make([]bool, b.W*b.H)
	var groups []MatchGroup

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			seed := P(x, y)
			i := b.index(seed)
			d := b.cells[i]
			if d == nil || visited[i] || claimed[i] || IsWildDie(d) != wilds {
				continue
			}

			members := flood(b, seed, d.Value, visited, claimed)
			if len(members) < MinGroupSize {
				continue
			}
			for _, p := range members {
				claimed[b.index(p)] = true
			}
			groups = append(groups, newGroup(b, members, d.Value))
		}
	}
	return groups
}

// flood collects the group reachable from seed. Regular dice are marked in
// visited since they can only ever belong to one group; wild dice are tracked
// locally so a failed group does not consume them.
func flood(b *Board, seed Pos, value int, visited, claimed []bool) []Pos {
	local := map[int]bool{b.index(seed): true}
	visited[b.index(seed)] = true
	queue := []Pos{seed}
	members := []Pos{seed}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbors {
			np := cur.Add(n.X, n.Y)
			if !b.IsValidPosition(np) {
				continue
			}
			ni := b.index(np)
			if local[ni] || claimed[ni] {
				continue
			}
			nd := b.cells[ni]
			if nd == nil || !matchesValue(nd, value) {
				continue
			}
			if !IsWildDie(nd) {
				if visited[ni] {
					continue
				}
				visited[ni] = true
			}
			local[ni] = true
			members = append(members, np)
			queue = append(queue, np)
		}
	}
	return members
}

func newGroup(b *Board, members []Pos, value int) MatchGroup {
	g := MatchGroup{
		Positions: members,
		Dice:      make([]Die, len(members)),
		Size:      len(members),
		Value:     value,
		Colors:    make(map[Color]int),
	}
	for k, p := range members {
		d := b.Get(p)
		g.Dice[k] = *d
		g.Colors[d.Color]++
		if IsWildDie(d) {
			g.Wilds++
		}
		if d.Black {
			g.Blacks = append(g.Blacks, p)
		}
	}
	return g
}

// CountWilds returns the number of wild dice across groups.
func CountWilds(groups []MatchGroup) int {
	n := 0
	for _, g := range groups {
		n += g.Wilds
	}
	return n
}
