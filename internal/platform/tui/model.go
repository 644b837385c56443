package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dicefall/internal/core"
	"github.com/vovakirdan/dicefall/internal/registry"
	"github.com/vovakirdan/dicefall/internal/storage"
)

// Model is the Bubble Tea model for running a single game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
	allowBack  bool // Back returns to the menu when paused or over
	backToMenu bool
	exitOnBack bool // Back ends the program (menu loop outside Bubble Tea)
	loop       uint64
	player     string // Stored with the run; empty for local play
	runID      string // Id of the last run saved by this model
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		loop:       newLoop(),
	}
}

// NewEmbeddedModel creates a game model hosted inside a menu session. Back
// (B or Esc) while paused or after game over returns to the menu.
func NewEmbeddedModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	m := NewModel(game, store, cfg)
	m.allowBack = true
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
	case core.ActionBack:
		if m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
			if m.exitOnBack {
				return m, tea.Quit
			}
			return m, nil
		}
		m.inputFrame.Set(core.ActionPause)
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events. The session keeps running;
// the game renders into whatever space the new screen offers.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.loop)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save once per game over. A game that never placed a piece has nothing
	// to record; a failed save leaves runID empty.
	if m.gameState.GameOver && !m.scoreSaved {
		if m.gameState.Score > 0 || registry.SummaryOf(m.game).Pieces > 0 {
			m.runID, _ = SaveResult(m.store, m.game, m.gameState.Score, m.player)
		}
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".dicefall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// RunID returns the id of the last run this model stored, or "" when none.
func (m Model) RunID() string {
	return m.runID
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse (for future use)
	)

	_, err := p.Run()
	return err
}

// RunEmbedded runs a game launched from the menu loop. Back while paused or
// after game over ends the program so the caller can show the menu again.
func RunEmbedded(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewEmbeddedModel(game, store, cfg)
	model.exitOnBack = true

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// SaveResult stores the final score and, for games that report one, the run
// record tagged with player. It returns the run id, which is empty when only
// the score was stored. A nil store is a no-op.
func SaveResult(store *storage.Store, game registry.Game, score int, player string) (string, error) {
	if store == nil {
		return "", nil
	}
	if _, err := store.SaveScore(game.ID(), score); err != nil {
		return "", err
	}
	sum := registry.SummaryOf(game)
	if sum == (core.RunSummary{}) {
		return "", nil
	}
	return store.SaveRun(storage.RunRecord{
		GameID:         game.ID(),
		Mode:           sum.Mode,
		Player:         player,
		Score:          score,
		MaxChain:       sum.MaxChain,
		Cascades:       sum.Cascades,
		DiceCleared:    sum.DiceCleared,
		UltimateCombos: sum.UltimateCombos,
		Pieces:         sum.Pieces,
		Ticks:          sum.Ticks,
		Seed:           sum.Seed,
	})
}
