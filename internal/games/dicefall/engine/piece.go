package engine

import "sort"

// PieceState is the lifecycle state of an active piece.
type PieceState uint8

const (
	PieceFalling         PieceState = iota // No unit locked yet
	PiecePartiallyLocked                   // Some units locked, the rest still falling
	PieceFullyLocked                       // Terminal; every unit is a board cell
)

// String returns the string representation of a piece state.
func (s PieceState) String() string {
	switch s {
	case PieceFalling:
		return "falling"
	case PiecePartiallyLocked:
		return "partially_locked"
	case PieceFullyLocked:
		return "fully_locked"
	default:
		return "unknown"
	}
}

// Unit is one die of a piece together with its current position.
type Unit struct {
	Die *Die
	Pos Pos
}

// Piece is a transient grouping of falling dice. Unit records keep stable
// indices; the falling set is an index set over them and only shrinks.
type Piece struct {
	ID      int
	Shape   string
	units   []Unit
	falling []int
}

// NewPiece places dice at origin+offset for each shape offset. The number of
// dice must match the shape size; extra dice are ignored.
func NewPiece(id int, shape Shape, origin Pos, dice []*Die) *Piece {
	n := len(shape.Offsets)
	if len(dice) < n {
		n = len(dice)
	}
	p := &Piece{
		ID:      id,
		Shape:   shape.Name,
		units:   make([]Unit, n),
		falling: make([]int, n),
	}
	for i := 0; i < n; i++ {
		o := shape.Offsets[i]
		p.units[i] = Unit{Die: dice[i], Pos: origin.Add(o.X, o.Y)}
		p.falling[i] = i
	}
	return p
}

// State derives the piece state from the falling set.
func (p *Piece) State() PieceState {
	switch {
	case len(p.falling) == 0:
		return PieceFullyLocked
	case len(p.falling) < len(p.units):
		return PiecePartiallyLocked
	default:
		return PieceFalling
	}
}

// Len returns the total number of units the piece was created with.
func (p *Piece) Len() int {
	return len(p.units)
}

// Unit returns the unit record at index i.
func (p *Piece) Unit(i int) Unit {
	return p.units[i]
}

// Falling returns the still-falling unit indices in creation order.
func (p *Piece) Falling() []int {
	out := make([]int, len(p.falling))
	copy(out, p.falling)
	return out
}

// FallingUnits returns copies of the still-falling units.
func (p *Piece) FallingUnits() []Unit {
	out := make([]Unit, 0, len(p.falling))
	for _, i := range p.falling {
		u := p.units[i]
		out = append(out, Unit{Die: u.Die.Clone(), Pos: u.Pos})
	}
	return out
}

// Columns returns the distinct columns covered by falling units, ascending.
func (p *Piece) Columns() []int {
	seen := make(map[int]bool)
	cols := make([]int, 0, len(p.falling))
	for _, i := range p.falling {
		x := p.units[i].Pos.X
		if !seen[x] {
			seen[x] = true
			cols = append(cols, x)
		}
	}
	sort.Ints(cols)
	return cols
}

// Release removes unit indices from the falling set. Indices that are
// duplicated, unknown or already released are skipped. Returns the number of
// units actually removed.
func (p *Piece) Release(indices ...int) int {
	if len(indices) == 0 || len(p.falling) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	removed := 0
	for k := len(p.falling) - 1; k >= 0; k-- {
		if drop[p.falling[k]] {
			delete(drop, p.falling[k])
			p.falling = append(p.falling[:k], p.falling[k+1:]...)
			removed++
		}
	}
	return removed
}

// processingOrder returns falling indices sorted bottom-up, ties by X.
func (p *Piece) processingOrder() []int {
	order := p.Falling()
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := p.units[order[a]].Pos, p.units[order[b]].Pos
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return pa.X < pb.X
	})
	return order
}

// canOccupy reports whether a falling unit may stand at pos. Cells above the
// visible board are always free.
func canOccupy(b *Board, pos Pos) bool {
	if pos.X < 0 || pos.X >= b.W || pos.Y < 0 {
		return false
	}
	return !b.Occupied(pos)
}

// Shift moves every falling unit dx columns. The move is rejected as a whole
// if any unit would leave the board or overlap a locked cell.
func (p *Piece) Shift(b *Board, dx int) bool {
	if len(p.falling) == 0 || dx == 0 {
		return false
	}
	for _, i := range p.falling {
		if !canOccupy(b, p.units[i].Pos.Add(dx, 0)) {
			return false
		}
	}
	for _, i := range p.falling {
		p.units[i].Pos = p.units[i].Pos.Add(dx, 0)
	}
	return true
}

// Rotate turns the piece a quarter turn clockwise around its first unit.
// Only an intact piece rotates; a fragmented one keeps its layout.
func (p *Piece) Rotate(b *Board) bool {
	if p.State() != PieceFalling || len(p.units) < 2 {
		return false
	}
	pivot := p.units[0].Pos
	next := make([]Pos, len(p.units))
	for i, u := range p.units {
		dx, dy := u.Pos.X-pivot.X, u.Pos.Y-pivot.Y
		next[i] = Pos{X: pivot.X + dy, Y: pivot.Y - dx}
	}
	// Kick upward once if the turn dips below the floor.
	minY := next[0].Y
	for _, q := range next[1:] {
		if q.Y < minY {
			minY = q.Y
		}
	}
	if minY < 0 {
		for i := range next {
			next[i].Y -= minY
		}
	}
	for _, q := range next {
		if !canOccupy(b, q) {
			return false
		}
	}
	for i := range p.units {
		p.units[i].Pos = next[i]
	}
	return true
}
