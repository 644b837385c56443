package engine

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Default board dimensions.
const (
	DefaultWidth  = 8
	DefaultHeight = 16
)

// Pos is a board coordinate. Y=0 is the floor; Y grows upward.
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Board is the authoritative cell store. It holds no game rules.
// Cells are stored row-major from the floor: index = y*W + x.
type Board struct {
	W     int
	H     int
	cells []*Die

	logger *log.Logger
}

// NewBoard creates an empty board.
func NewBoard(w, h int) *Board {
	return &Board{
		W:      w,
		H:      h,
		cells:  make([]*Die, w*h),
		logger: discardLogger(),
	}
}

// SetLogger replaces the logger used for rejected writes.
func (b *Board) SetLogger(l *log.Logger) {
	if l != nil {
		b.logger = l
	}
}

func (b *Board) index(p Pos) int {
	return p.Y*b.W + p.X
}

// SpawnRow returns the row just above the visible top where pieces appear.
func (b *Board) SpawnRow() int {
	return b.H
}

// IsValidPosition reports whether p lies inside the playable matrix.
func (b *Board) IsValidPosition(p Pos) bool {
	return p.X >= 0 && p.X < b.W && p.Y >= 0 && p.Y < b.H
}

// Get returns the die at p, or nil for empty or out-of-bounds cells.
func (b *Board) Get(p Pos) *Die {
	if !b.IsValidPosition(p) {
		return nil
	}
	return b.cells[b.index(p)]
}

// Occupied reports whether p holds a die.
func (b *Board) Occupied(p Pos) bool {
	return b.Get(p) != nil
}

// Lock writes a die into a cell. Invalid or occupied targets are logged and
// ignored; callers are expected to clamp first.
func (b *Board) Lock(p Pos, d *Die) bool {
	if d == nil {
		return false
	}
	if !b.IsValidPosition(p) {
		b.logger.Warn("lock rejected: out of bounds", "pos", p, "die", d.ID)
		return false
	}
	i := b.index(p)
	if b.cells[i] != nil {
		b.logger.Warn("lock rejected: cell occupied", "pos", p, "die", d.ID, "occupant", b.cells[i].ID)
		return false
	}
	b.cells[i] = d
	return true
}

// Clear empties a cell and returns the die it held.
func (b *Board) Clear(p Pos) *Die {
	if !b.IsValidPosition(p) {
		b.logger.Warn("clear rejected: out of bounds", "pos", p)
		return nil
	}
	i := b.index(p)
	d := b.cells[i]
	b.cells[i] = nil
	return d
}

// Clamp returns the nearest valid cell to p.
func (b *Board) Clamp(p Pos) Pos {
	return Pos{
		X: clampInt(p.X, 0, b.W-1),
		Y: clampInt(p.Y, 0, b.H-1),
	}
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, d := range b.cells {
		if d != nil {
			n++
		}
	}
	return n
}

// ColumnHeight returns the number of dice in column x.
func (b *Board) ColumnHeight(x int) int {
	n := 0
	for y := 0; y < b.H; y++ {
		if b.Occupied(P(x, y)) {
			n++
		}
	}
	return n
}

// Reset empties every cell.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = nil
	}
}

// ApplyGravity compacts every column toward Y=0, keeping the vertical order
// of the dice. Dice never change column. Returns the number of dice moved.
func (b *Board) ApplyGravity() int {
	moved := 0
	for x := 0; x < b.W; x++ {
		write := 0
		for y := 0; y < b.H; y++ {
			i := b.index(P(x, y))
			d := b.cells[i]
			if d == nil {
				continue
			}
			if y != write {
				b.cells[b.index(P(x, write))] = d
				b.cells[i] = nil
				moved++
			}
			write++
		}
	}
	return moved
}

// Clone returns a deep copy of the board, dice included.
func (b *Board) Clone() *Board {
	c := &Board{
		W:      b.W,
		H:      b.H,
		cells:  make([]*Die, len(b.cells)),
		logger: b.logger,
	}
	for i, d := range b.cells {
		if d != nil {
			c.cells[i] = d.Clone()
		}
	}
	return c
}

// Snapshot returns a read-only copy of the board for renderers.
func (b *Board) Snapshot() BoardSnapshot {
	cells := make([]*Die, len(b.cells))
	for i, d := range b.cells {
		if d != nil {
			cells[i] = d.Clone()
		}
	}
	return BoardSnapshot{W: b.W, H: b.H, cells: cells}
}

// BoardSnapshot is an immutable copy of board contents.
type BoardSnapshot struct {
	W, H  int
	cells []*Die
}

// At returns a copy of the die at (x, y), or nil.
func (s BoardSnapshot) At(x, y int) *Die {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return nil
	}
	d := s.cells[y*s.W+x]
	if d == nil {
		return nil
	}
	return d.Clone()
}

// Count returns the number of dice in the snapshot.
func (s BoardSnapshot) Count() int {
	n := 0
	for _, d := range s.cells {
		if d != nil {
			n++
		}
	}
	return n
}
