package engine

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
)

// ComboRule decides whether the initial matches of a placement trigger an
// Ultimate Combo.
type ComboRule func(initial []MatchGroup) bool

// DefaultComboRule fires when the initial matches hold 3 or more wild dice.
func DefaultComboRule(initial []MatchGroup) bool {
	return CountWilds(initial) >= 3
}

// Stats accumulates session counters.
type Stats struct {
	Pieces         int
	DiceLocked     int
	DiceCleared    int
	Matches        int
	Cascades       int // Clear passes across the session
	MaxChain       int
	UltimateCombos int
	CappedChains   int
}

// TickResult reports everything that happened during one tick.
type TickResult struct {
	Tick     uint64
	Events   []Event
	Locked   int
	Cascade  *CascadeResult // Set when a placement was resolved
	GameOver bool
}

// NextPiece is the preview of the piece that spawns after the current one.
type NextPiece struct {
	Shape Shape
	Dice  []Die
}

// Snapshot is a read-only view of the engine for renderers.
type Snapshot struct {
	Board         BoardSnapshot
	Falling       []Unit
	PieceState    PieceState
	Next          NextPiece
	Score         int
	LastBreakdown ScoreBreakdown
	LastChain     int
	Tick          uint64
	Over          bool
	Stats         Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for in-tick recoveries.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSeed overrides the configured seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.roller = rand.New(rand.NewSource(seed))
	}
}

// WithRoller replaces the random source.
func WithRoller(r Roller) Option {
	return func(e *Engine) {
		if r != nil {
			e.roller = r
		}
	}
}

// WithBoosterSource sets the booster bonus provider.
func WithBoosterSource(s BoosterSource) Option {
	return func(e *Engine) {
		if s != nil {
			e.boosters = s
		}
	}
}

// WithComboRule sets the Ultimate Combo trigger.
func WithComboRule(r ComboRule) Option {
	return func(e *Engine) {
		if r != nil {
			e.combo = r
		}
	}
}

// WithShapes restricts spawning to the given shapes.
func WithShapes(shapes ...Shape) Option {
	return func(e *Engine) {
		if len(shapes) > 0 {
			e.shapes = shapes
		}
	}
}

// Engine is the game loop controller. It owns the board and advances only
// when Step is called; it has no timers and is not safe for concurrent use.
type Engine struct {
	cfg      Config
	board    *Board
	roller   Roller
	boosters BoosterSource
	combo    ComboRule
	shapes   []Shape
	logger   *log.Logger

	piece     *Piece
	next      NextPiece
	nextDieID int
	nextPiece int

	tick          uint64
	score         int
	lastBreakdown ScoreBreakdown
	lastChain     int
	over          bool
	stats         Stats
}

// New validates cfg and starts a session with the first piece spawned.
// The returned error is always a ConfigError.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		board:    NewBoard(cfg.Width, cfg.Height),
		roller:   rand.New(rand.NewSource(cfg.Seed)),
		boosters: noBoosters{},
		combo:    DefaultComboRule,
		shapes:   Shapes(),
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, s := range e.shapes {
		if s.Size() == 0 || s.Width() > cfg.Width {
			return nil, ConfigError{Field: "shapes", Message: fmt.Sprintf("shape %q does not fit width %d", s.Name, cfg.Width)}
		}
	}
	e.board.SetLogger(e.logger)
	e.next = e.rollNext()

	var res TickResult
	e.spawn(&res)
	return e, nil
}

// Config returns the session configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Board exposes the board for tests and tooling. Renderers use Snapshot.
func (e *Engine) Board() *Board {
	return e.board
}

// Piece returns the active piece, or nil.
func (e *Engine) Piece() *Piece {
	return e.piece
}

// Over reports whether the session reached game over.
func (e *Engine) Over() bool {
	return e.over
}

// Score returns the accumulated score.
func (e *Engine) Score() int {
	return e.score
}

// Stats returns the session counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Tick returns the number of processed ticks.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Step processes one tick: physics, lock check, match detection, cascade,
// scoring, next spawn and the game-over check. After game over it is a no-op.
func (e *Engine) Step() TickResult {
	res := TickResult{Tick: e.tick}
	if e.over {
		res.GameOver = true
		return res
	}
	e.tick++
	res.Tick = e.tick

	if e.piece == nil {
		e.spawn(&res)
		return res
	}

	pr := StepPiece(e.board, e.piece, e.logger)
	for _, lu := range pr.Locked {
		res.Events = append(res.Events, UnitLockedEvent{
			Pos:     lu.Pos,
			Die:     *lu.Die,
			PieceID: e.piece.ID,
			Reason:  lu.Reason,
		})
	}
	res.Locked = len(pr.Locked)
	e.stats.DiceLocked += len(pr.Locked)

	if pr.Overflow {
		e.endGame(&res, GameOverOverflow)
		return res
	}

	if e.piece.State() == PieceFullyLocked {
		e.piece = nil
		e.resolve(&res)
		e.spawn(&res)
	}
	return res
}

// SoftDrop advances the active piece by one tick immediately.
func (e *Engine) SoftDrop() TickResult {
	return e.Step()
}

// HardDrop steps until the current piece has fully locked or the game ends.
func (e *Engine) HardDrop() TickResult {
	var out TickResult
	if e.over || e.piece == nil {
		return e.Step()
	}
	id := e.piece.ID
	for {
		r := e.Step()
		out.Tick = r.Tick
		out.Events = append(out.Events, r.Events...)
		out.Locked += r.Locked
		if r.Cascade != nil {
			out.Cascade = r.Cascade
		}
		if r.GameOver {
			out.GameOver = true
			return out
		}
		if e.piece == nil || e.piece.ID != id {
			return out
		}
	}
}

// Shift moves the active piece horizontally.
func (e *Engine) Shift(dx int) bool {
	if e.over || e.piece == nil {
		return false
	}
	return e.piece.Shift(e.board, dx)
}

// Rotate turns the active piece clockwise if it is still intact.
func (e *Engine) Rotate() bool {
	if e.over || e.piece == nil {
		return false
	}
	return e.piece.Rotate(e.board)
}

func (e *Engine) resolve(res *TickResult) {
	initial := FindMatches(e.board)
	if len(initial) == 0 {
		return
	}
	res.Events = append(res.Events, MatchFoundEvent{Groups: initial})

	ultimate := e.combo(initial)
	resolver := Resolver{
		Gravity:  e.cfg.Gravity,
		Roller:   e.roller,
		Boosters: e.boosters,
		Logger:   e.logger,
	}
	cr := resolver.Resolve(e.board, initial, ultimate)

	for _, st := range cr.Steps {
		if len(st.Converted) > 0 {
			res.Events = append(res.Events, AreaConvertedEvent{ChainIndex: st.ChainIndex, Cells: st.Converted})
		}
		res.Events = append(res.Events, CascadeStepEvent{ChainIndex: st.ChainIndex, Cleared: st.Cleared})
		e.stats.Matches += len(st.Groups)
	}
	res.Events = append(res.Events, ScoreEvent{
		Breakdown:    cr.Breakdown,
		CascadeCount: cr.CascadeCount,
		Ultimate:     ultimate,
		Capped:       cr.Capped,
	})
	res.Cascade = &cr

	e.score += cr.Breakdown.Total
	e.lastBreakdown = cr.Breakdown
	e.lastChain = cr.CascadeCount
	e.stats.DiceCleared += len(cr.Cleared)
	e.stats.Cascades += cr.CascadeCount
	e.stats.MaxChain = max(e.stats.MaxChain, cr.CascadeCount)
	if ultimate {
		e.stats.UltimateCombos++
	}
	if cr.Capped {
		e.stats.CappedChains++
	}

	e.logger.Debug("placement resolved",
		"groups", len(initial),
		"chain", cr.CascadeCount,
		"total", cr.Breakdown.Total,
		"ultimate", ultimate,
	)
}

func (e *Engine) spawn(res *TickResult) {
	np := e.next
	e.next = e.rollNext()

	dice := make([]*Die, len(np.Dice))
	for i := range np.Dice {
		d := np.Dice[i]
		dice[i] = &d
	}
	e.nextPiece++
	p := NewPiece(e.nextPiece, np.Shape, SpawnOrigin(e.board, np.Shape), dice)

	if SpawnBlocked(e.board, p) {
		e.endGame(res, GameOverSpawnBlocked)
		return
	}
	e.piece = p
	e.stats.Pieces++
	res.Events = append(res.Events, PieceSpawnedEvent{PieceID: p.ID, Shape: p.Shape})
}

func (e *Engine) endGame(res *TickResult, reason GameOverReason) {
	e.over = true
	e.piece = nil
	res.GameOver = true
	res.Events = append(res.Events, GameOverEvent{
		Reason: reason,
		Board:  e.board.Snapshot(),
		Score:  e.score,
	})
	e.logger.Info("game over", "reason", reason, "score", e.score, "ticks", e.tick)
}

func (e *Engine) rollNext() NextPiece {
	shape := e.shapes[e.roller.Intn(len(e.shapes))]
	dice := make([]Die, shape.Size())
	for i := range dice {
		dice[i] = *e.rollDie()
	}
	return NextPiece{Shape: shape, Dice: dice}
}

func (e *Engine) rollDie() *Die {
	e.nextDieID++
	id := e.nextDieID

	var d *Die
	switch {
	case e.roller.Float64() < e.cfg.BlackChance:
		d = NewBlackDie(id, Roll(e.roller, BlackDieFaces))
	default:
		faces := e.cfg.FaceCounts[e.roller.Intn(len(e.cfg.FaceCounts))]
		colors := DieColors()
		color := colors[e.roller.Intn(len(colors))]
		if e.roller.Float64() < e.cfg.WildChance {
			d = NewWildDie(id, faces, Roll(e.roller, faces), color)
		} else {
			d = NewDie(id, faces, Roll(e.roller, faces), color)
		}
	}
	if e.roller.Float64() < e.cfg.BoosterChance {
		d.Booster = Booster(1 + e.roller.Intn(int(BoosterMultiplier)))
	}
	return d
}

// Snapshot returns a read-only copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Board:         e.board.Snapshot(),
		PieceState:    PieceFullyLocked,
		Next:          NextPiece{Shape: e.next.Shape, Dice: append([]Die(nil), e.next.Dice...)},
		Score:         e.score,
		LastBreakdown: e.lastBreakdown,
		LastChain:     e.lastChain,
		Tick:          e.tick,
		Over:          e.over,
		Stats:         e.stats,
	}
	if e.piece != nil {
		s.Falling = e.piece.FallingUnits()
		s.PieceState = e.piece.State()
	}
	return s
}
