package engine

// Event is emitted by the engine during a tick. Collaborators react to
// events instead of polling and writing back into the board.
type Event interface {
	engineEvent()
}

// UnitLockedEvent is emitted when a die becomes a board cell.
type UnitLockedEvent struct {
	Pos     Pos
	Die     Die
	PieceID int
	Reason  LockReason
}

func (UnitLockedEvent) engineEvent() {}

// MatchFoundEvent carries the groups detected after a placement.
type MatchFoundEvent struct {
	Groups []MatchGroup
}

func (MatchFoundEvent) engineEvent() {}

// AreaConvertedEvent is emitted after a black die rerolled its neighborhood.
type AreaConvertedEvent struct {
	ChainIndex int
	Cells      []Pos
}

func (AreaConvertedEvent) engineEvent() {}

// CascadeStepEvent is emitted after each clear pass.
type CascadeStepEvent struct {
	ChainIndex int
	Cleared    int
}

func (CascadeStepEvent) engineEvent() {}

// ScoreEvent carries the breakdown of one resolved placement.
type ScoreEvent struct {
	Breakdown    ScoreBreakdown
	CascadeCount int
	Ultimate     bool
	Capped       bool
}

func (ScoreEvent) engineEvent() {}

// PieceSpawnedEvent is emitted when a new piece enters the spawn row.
type PieceSpawnedEvent struct {
	PieceID int
	Shape   string
}

func (PieceSpawnedEvent) engineEvent() {}

// GameOverReason tells how the session ended.
type GameOverReason uint8

const (
	GameOverSpawnBlocked GameOverReason = iota // New piece could not enter
	GameOverOverflow                           // A unit came to rest in the spawn row
)

// String returns the string representation of a game-over reason.
func (r GameOverReason) String() string {
	switch r {
	case GameOverSpawnBlocked:
		return "spawn_blocked"
	case GameOverOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// GameOverEvent carries the final board.
type GameOverEvent struct {
	Reason GameOverReason
	Board  BoardSnapshot
	Score  int
}

func (GameOverEvent) engineEvent() {}
