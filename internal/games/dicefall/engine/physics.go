package engine

import "github.com/charmbracelet/log"

// FallStep is the vertical displacement applied to falling units per tick.
const FallStep = -1

// LockReason tells why a unit stopped.
type LockReason uint8

const (
	LockFloor LockReason = iota
	LockObstacle
)

// String returns the string representation of a lock reason.
func (r LockReason) String() string {
	switch r {
	case LockFloor:
		return "floor"
	case LockObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// LockedUnit records a unit written to the board during a physics step.
type LockedUnit struct {
	Index  int // Unit index within the piece
	Pos    Pos
	Die    *Die
	Reason LockReason
}

// PhysicsResult describes one physics step of the active piece.
type PhysicsResult struct {
	Locked   []LockedUnit
	Moved    int
	Overflow bool // A unit came to rest in the spawn row
	Clamped  int  // Resting cells pulled back inside the board
}

// StepPiece advances every falling unit of p by one FallStep. Units are
// processed bottom-up with ties broken by column, so a unit that locks
// becomes an obstacle for the units evaluated after it in the same tick.
func StepPiece(b *Board, p *Piece, logger *log.Logger) PhysicsResult {
	if logger == nil {
		logger = discardLogger()
	}
	var res PhysicsResult
	var released []int

	for _, i := range p.processingOrder() {
		u := &p.units[i]
		cand := u.Pos.Add(0, FallStep)

		if cand.Y < 0 {
			if rest, ok := settle(b, u.Pos, &res, logger); ok {
				res.Locked = append(res.Locked, lockUnit(b, i, rest, u, LockFloor))
			}
			released = append(released, i)
			continue
		}

		if cand.X < 0 || cand.X >= b.W {
			clamped := clampInt(cand.X, 0, b.W-1)
			logger.Warn("unit outside side walls", "die", u.Die.ID, "x", cand.X, "clamped", clamped)
			cand.X = clamped
			res.Clamped++
		}

		if b.Occupied(cand) {
			if rest, ok := settle(b, cand.Add(0, 1), &res, logger); ok {
				res.Locked = append(res.Locked, lockUnit(b, i, rest, u, LockObstacle))
			}
			released = append(released, i)
			continue
		}

		u.Pos = cand
		res.Moved++
	}

	p.Release(released...)
	return res
}

// settle turns a resting position into a lockable cell. A rest inside the
// spawn row is reported as overflow and nothing is locked.
func settle(b *Board, rest Pos, res *PhysicsResult, logger *log.Logger) (Pos, bool) {
	if rest.Y >= b.H {
		res.Overflow = true
		return rest, false
	}
	if !b.IsValidPosition(rest) {
		clamped := b.Clamp(rest)
		logger.Warn("resting cell out of bounds", "pos", rest, "clamped", clamped)
		res.Clamped++
		rest = clamped
	}
	if b.Occupied(rest) {
		// Walk up the column to the first free cell.
		free := rest
		for free.Y < b.H && b.Occupied(free) {
			free.Y++
		}
		if free.Y >= b.H {
			res.Overflow = true
			return rest, false
		}
		logger.Warn("resting cell occupied", "pos", rest, "moved", free)
		res.Clamped++
		rest = free
	}
	return rest, true
}

func lockUnit(b *Board, i int, rest Pos, u *Unit, reason LockReason) LockedUnit {
	u.Pos = rest
	b.Lock(rest, u.Die)
	return LockedUnit{Index: i, Pos: rest, Die: u.Die, Reason: reason}
}

// SpawnBlocked reports whether a piece cannot enter the board: the top
// visible cell of any column it covers is already occupied.
func SpawnBlocked(b *Board, p *Piece) bool {
	for _, x := range p.Columns() {
		if b.Occupied(P(x, b.H-1)) {
			return true
		}
	}
	return false
}

// SpawnOrigin returns the origin that centers shape in the spawn row.
func SpawnOrigin(b *Board, shape Shape) Pos {
	minX, _ := shape.extentX()
	x := (b.W-shape.Width())/2 - minX
	return P(x, b.SpawnRow())
}
