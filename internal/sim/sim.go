// Package sim plays Dicefall sessions headlessly with a scripted player and
// aggregates the outcomes. It backs the `dicefall sim` command and is used
// to tune the mode presets.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/dicefall/internal/config"
	"github.com/vovakirdan/dicefall/internal/games/dicefall"
	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// DefaultMaxPieces caps a single simulated session.
const DefaultMaxPieces = 2000

// ErrNoGames is returned when a batch asks for fewer than one session.
var ErrNoGames = errors.New("sim: games must be > 0")

// Move is what the scripted player does with one piece before hard dropping.
type Move struct {
	Rotations int
	Shift     int
}

// Policy picks the move for the current piece.
type Policy func(e *engine.Engine, rng *rand.Rand) Move

// RandomPolicy rotates 0-3 times and shifts anywhere across the well.
func RandomPolicy(e *engine.Engine, rng *rand.Rand) Move {
	w := e.Config().Width
	return Move{
		Rotations: rng.Intn(4),
		Shift:     rng.Intn(2*w+1) - w,
	}
}

// DropPolicy hard drops every piece where it spawns.
func DropPolicy(*engine.Engine, *rand.Rand) Move {
	return Move{}
}

// Options configures a batch.
type Options struct {
	Config    config.DicefallConfig
	Preset    config.DifficultyPreset
	Games     int
	Seed      int64 // Session i plays with Seed+i
	Workers   int
	MaxPieces int
	Policy    Policy
	Progress  bool
	Logger    *log.Logger
}

// GameResult is the outcome of one simulated session.
type GameResult struct {
	Index  int
	Seed   int64
	Score  int
	Stats  engine.Stats
	Ticks  uint64
	Over   bool
	Reason engine.GameOverReason
}

// Report aggregates a batch.
type Report struct {
	Preset       config.DifficultyPreset
	Results      []GameResult
	MeanScore    float64
	StdDevScore  float64
	MedianScore  float64
	P90Score     float64
	BestScore    int
	MeanChain    float64
	BestChain    int
	UltimateRate float64 // Share of sessions with at least one Ultimate Combo
	Capped       int     // Sessions stopped by MaxPieces
	Duration     time.Duration
}

// PlayOne runs a single session to game over or until maxPieces pieces
// have been placed.
func PlayOne(cfg config.DicefallConfig, preset config.DifficultyPreset, seed int64, maxPieces int, policy Policy, l *log.Logger) (GameResult, error) {
	if l == nil {
		l = log.New(io.Discard)
	}
	if policy == nil {
		policy = RandomPolicy
	}
	if maxPieces <= 0 {
		maxPieces = DefaultMaxPieces
	}

	engCfg, err := cfg.EngineConfig(preset, seed)
	if err != nil {
		return GameResult{}, err
	}
	eng, err := engine.New(engCfg, dicefall.EngineOptions(cfg, l)...)
	if err != nil {
		return GameResult{}, fmt.Errorf("sim: %w", err)
	}

	res := GameResult{Seed: seed}
	rng := rand.New(rand.NewSource(seed ^ 0x5eed))
	for !eng.Over() && eng.Stats().Pieces <= maxPieces {
		mv := policy(eng, rng)
		for i := 0; i < mv.Rotations; i++ {
			eng.Rotate()
		}
		dx := 1
		if mv.Shift < 0 {
			dx = -1
		}
		for i := 0; i < abs(mv.Shift); i++ {
			if !eng.Shift(dx) {
				break
			}
		}
		tr := eng.HardDrop()
		for _, ev := range tr.Events {
			if over, ok := ev.(engine.GameOverEvent); ok {
				res.Reason = over.Reason
			}
		}
	}

	res.Score = eng.Score()
	res.Stats = eng.Stats()
	res.Ticks = eng.Tick()
	res.Over = eng.Over()
	return res, nil
}

// Run plays opts.Games sessions across opts.Workers goroutines. Results are
// ordered by session index, so a batch is reproducible for a given seed
// regardless of scheduling.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Games < 1 {
		return nil, ErrNoGames
	}
	if _, err := opts.Config.Mode(opts.Preset); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	workers = min(workers, opts.Games)
	l := opts.Logger
	if l == nil {
		l = log.New(io.Discard)
	}

	results := make([]GameResult, opts.Games)
	jobs := make(chan int)

	var (
		mu       sync.Mutex
		firstErr error
	)
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(opts.Games)
	if !opts.Progress {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := opts.Seed + int64(i)
				r, err := PlayOne(opts.Config, opts.Preset, seed, opts.MaxPieces, opts.Policy, l)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
				r.Index = i
				results[i] = r
				bar.Increment()
			}
		}()
	}

feed:
	for i := 0; i < opts.Games; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := Summarize(opts.Preset, results, opts.MaxPieces)
	rep.Duration = used
	l.Info("simulation finished", "mode", opts.Preset, "games", opts.Games, "mean", rep.MeanScore, "best", rep.BestScore, "took", used)
	return rep, nil
}

// Summarize computes the aggregate statistics of a set of results.
func Summarize(preset config.DifficultyPreset, results []GameResult, maxPieces int) *Report {
	rep := &Report{Preset: preset, Results: results}
	if len(results) == 0 {
		return rep
	}
	if maxPieces <= 0 {
		maxPieces = DefaultMaxPieces
	}

	scores := make([]float64, len(results))
	chains := make([]float64, len(results))
	ultimate := 0
	for i, r := range results {
		scores[i] = float64(r.Score)
		chains[i] = float64(r.Stats.MaxChain)
		rep.BestScore = max(rep.BestScore, r.Score)
		rep.BestChain = max(rep.BestChain, r.Stats.MaxChain)
		if r.Stats.UltimateCombos > 0 {
			ultimate++
		}
		if !r.Over && r.Stats.Pieces > maxPieces {
			rep.Capped++
		}
	}

	rep.MeanScore, rep.StdDevScore = stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		rep.StdDevScore = 0
	}
	sort.Float64s(scores)
	rep.MedianScore = stat.Quantile(0.5, stat.Empirical, scores, nil)
	rep.P90Score = stat.Quantile(0.9, stat.Empirical, scores, nil)
	rep.MeanChain = stat.Mean(chains, nil)
	rep.UltimateRate = float64(ultimate) / float64(len(results))
	return rep
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
