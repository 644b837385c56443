// Package storage provides SQLite-based persistence for Dicefall scores and
// run records. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// RunRecord is the full outcome of one finished session.
type RunRecord struct {
	ID             string // uuid, assigned by SaveRun when empty
	GameID         string
	Mode           string
	Player         string // SSH user, "sim" for simulated runs, empty for local play
	Score          int
	MaxChain       int
	Cascades       int
	DiceCleared    int
	UltimateCombos int
	Pieces         int
	Ticks          uint64
	Seed           int64
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			max_chain INTEGER NOT NULL DEFAULT 0,
			cascades INTEGER NOT NULL DEFAULT 0,
			dice_cleared INTEGER NOT NULL DEFAULT 0,
			ultimate_combos INTEGER NOT NULL DEFAULT 0,
			pieces INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addColumn("runs", "player", "TEXT NOT NULL DEFAULT ''")
}

// addColumn adds a column to a table created by an older schema.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC`,
		gameID,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and run records for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveRun records a finished session and returns its id.
func (s *Store) SaveRun(run RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.GameID == "" {
		return "", errors.New("storage: run has no game id")
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, game_id, mode, player, score, max_chain, cascades, dice_cleared, ultimate_combos, pieces, ticks, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.GameID,
		run.Mode,
		run.Player,
		run.Score,
		run.MaxChain,
		run.Cascades,
		run.DiceCleared,
		run.UltimateCombos,
		run.Pieces,
		int64(run.Ticks),
		run.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.ID, nil
}

// RecentRuns retrieves the most recent runs for a game. An empty gameID
// returns runs across all games.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunRecord, error) {
	return s.queryRuns(gameID, "created_at DESC, rowid DESC", limit)
}

// TopRuns retrieves the best runs for a game, ordered by score descending.
func (s *Store) TopRuns(gameID string, limit int) ([]RunRecord, error) {
	return s.queryRuns(gameID, "score DESC, max_chain DESC", limit)
}

func (s *Store) queryRuns(gameID, order string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, game_id, mode, player, score, max_chain, cascades, dice_cleared,
	                 ultimate_combos, pieces, ticks, seed, created_at
	          FROM runs`
	args := []any{}
	if gameID != "" {
		query += " WHERE game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY " + order + " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var ticks int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.Mode,
			&r.Player,
			&r.Score,
			&r.MaxChain,
			&r.Cascades,
			&r.DiceCleared,
			&r.UltimateCombos,
			&r.Pieces,
			&ticks,
			&r.Seed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID      string
	GamesCount  int
	HighScore   int
	AvgScore    float64
	StdDev      float64
	MedianScore float64
	TotalScore  int64
	BestChain   int
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	entries, err := s.AllScores(gameID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = float64(e.Score)
	}
	stats := SummarizeScores(scores)
	stats.GameID = gameID
	for _, e := range entries {
		if e.CreatedAt.After(stats.LastPlayed) {
			stats.LastPlayed = e.CreatedAt
		}
	}

	var best sql.NullInt64
	if err := s.db.QueryRow(
		"SELECT MAX(max_chain) FROM runs WHERE game_id = ?",
		gameID,
	).Scan(&best); err != nil {
		return nil, fmt.Errorf("storage: cannot get best chain: %w", err)
	}
	if best.Valid {
		stats.BestChain = int(best.Int64)
	}

	return stats, nil
}

// SummarizeScores computes count, high, mean, standard deviation and median
// of a score sample. The input is not modified.
func SummarizeScores(scores []float64) *GameStats {
	stats := &GameStats{GamesCount: len(scores)}
	if len(scores) == 0 {
		return stats
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	for _, v := range sorted {
		stats.TotalScore += int64(v)
	}
	stats.HighScore = int(sorted[len(sorted)-1])
	stats.AvgScore = stat.Mean(sorted, nil)
	stats.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(sorted) > 1 {
		stats.StdDev = stat.StdDev(sorted, nil)
	}
	return stats
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
