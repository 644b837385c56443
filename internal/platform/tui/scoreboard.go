package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dicefall/internal/registry"
	"github.com/vovakirdan/dicefall/internal/storage"
)

const (
	minWidthForSidebar = 80  // Below this the mode list collapses into tabs
	sidebarWidth       = 22  // Fits "Dicefall (Hard)" with cursor and padding
	maxRuns            = 100 // Rows loaded per mode
)

// RunOrder selects which runs the scoreboard lists.
type RunOrder int

const (
	OrderBest   RunOrder = iota // Highest score first
	OrderRecent                 // Newest first
)

func (o RunOrder) String() string {
	if o == OrderRecent {
		return "RECENT RUNS"
	}
	return "BEST RUNS"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Order    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Order, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Order, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Order:    key.NewBinding(key.WithKeys("o", "r"), key.WithHelp("o", "best/recent")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists stored runs per mode with the mode's score statistics.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	cursor    int
	order     RunOrder
	store     *storage.Store
	runs      []storage.RunRecord
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForSidebar
}

func (m *ScoreboardModel) newTable() table.Model {
	dateW := 12
	if avail := m.width - 4 - 58; m.wide() && avail-sidebarWidth-3 > dateW {
		dateW = min(avail-sidebarWidth-3, 17)
	}
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 9},
		{Title: "Chain", Width: 6},
		{Title: "Cleared", Width: 8},
		{Title: "Ult", Width: 4},
		{Title: "Pieces", Width: 7},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: dateW},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches runs and statistics for the selected mode.
func (m *ScoreboardModel) reload() {
	m.runs = nil
	m.stats = nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.cursor].ID
		var (
			runs []storage.RunRecord
			err  error
		)
		if m.order == OrderRecent {
			runs, err = m.store.RecentRuns(id, maxRuns)
		} else {
			runs, err = m.store.TopRuns(id, maxRuns)
		}
		if err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}
	m.setRows()
}

func (m *ScoreboardModel) setRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("x%d", r.MaxChain),
			fmt.Sprintf("%d", r.DiceCleared),
			fmt.Sprintf("%d", r.UltimateCombos),
			fmt.Sprintf("%d", r.Pieces),
			player,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	st := m.stats
	return fmt.Sprintf("Games %d  Best %d  Mean %.0f  Median %.0f  StdDev %.0f  Best chain x%d",
		st.GamesCount, st.HighScore, st.AvgScore, st.MedianScore, st.StdDev, st.BestChain)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.selectMode(m.cursor + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.selectMode(m.cursor - 1)
			return m, nil
		case key.Matches(msg, m.keys.Order):
			m.order = 1 - m.order
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.newTable()
		m.setRows()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selectMode moves the mode cursor with wrap-around and reloads.
func (m *ScoreboardModel) selectMode(i int) {
	n := len(m.modes)
	if n == 0 {
		return
	}
	m.cursor = (i%n + n) % n
	m.reload()
}

var (
	sbTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	sbStatsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sbBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	sbDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sbActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbActiveTab  = sbActive.Background(lipgloss.Color("57")).Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := m.order.String()
	if len(m.modes) > 0 {
		title += " - " + m.modes[m.cursor].Title
	}

	var b strings.Builder
	b.WriteString(sbTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(sbStatsStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	body := sbBoxStyle.Render(m.tableView())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", body))
	} else {
		b.WriteString(centerText(m.tabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(body)
	}

	b.WriteString("\n")
	b.WriteString(sbDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) sidebar() string {
	var sb strings.Builder
	sb.WriteString("Modes\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, g := range m.modes {
		if i == m.cursor {
			sb.WriteString(sbActive.Render("> " + g.Title))
		} else {
			sb.WriteString("  " + g.Title)
		}
		sb.WriteString("\n")
	}
	return sbBoxStyle.Width(sidebarWidth).Render(sb.String())
}

func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		name := strings.TrimSuffix(strings.TrimPrefix(g.Title, "Dicefall ("), ")")
		if i == m.cursor {
			tabs[i] = sbActiveTab.Render(name)
		} else {
			tabs[i] = sbDimStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m ScoreboardModel) tableView() string {
	if len(m.runs) == 0 {
		return sbDimStyle.Italic(true).Padding(2, 4).Render("No runs recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	finalModel, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
