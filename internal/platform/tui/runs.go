package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/storage"
)

// Run history layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show scenario list sidebar
	sidebarWidth       = 24  // Width of scenario list sidebar
	maxRuns            = 100 // Max runs to load
)

// RunsModel is the Bubble Tea model for the run history screen.
type RunsModel struct {
	scenarios   []registry.Info
	cursor      int // Currently selected scenario index
	store       *storage.Store
	runs        []storage.RunEntry
	stats       map[string]*storage.ScenarioStats
	table       table.Model
	help        help.Model
	keys        ListKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewRunsModel creates a new run history model.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	m := RunsModel{
		scenarios:   registry.List(),
		store:       store,
		keys:        DefaultListKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadStats()
	if len(m.scenarios) > 0 {
		m.loadRuns(m.scenarios[0].ID)
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 6},
		{Title: "Result", Width: 8},
		{Title: "Hits", Width: 6},
		{Title: "Frames", Width: 7},
		{Title: "Elapsed", Width: 10},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
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

func (m *RunsModel) loadStats() {
	if m.store == nil {
		return
	}
	stats, err := m.store.ScenarioStats()
	if err == nil {
		m.stats = stats
	}
}

// loadRuns loads recent runs for the given scenario ID.
func (m *RunsModel) loadRuns(scenarioID string) {
	m.runs = nil
	if m.store != nil {
		if runs, err := m.store.RecentRuns(scenarioID, maxRuns); err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := "pass"
		if !r.Passed {
			result = fmt.Sprintf("fail %d", r.Failures)
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			result,
			fmt.Sprintf("%d", r.Collisions),
			fmt.Sprintf("%d", r.Frames),
			r.Elapsed.String(),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *RunsModel) moveScenario(delta int) {
	if len(m.scenarios) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.scenarios)) % len(m.scenarios)
	m.loadRuns(m.scenarios[m.cursor].ID)
}

// Init initializes the run history model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run history.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.moveScenario(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.moveScenario(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run history.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUN HISTORY"
	if len(m.scenarios) > 0 {
		title = fmt.Sprintf("RUN HISTORY - %s", m.scenarios[m.cursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", panelStyle.Render(m.renderTableContent())))
	} else {
		b.WriteString(m.renderTabs())
		b.WriteString("\n\n")
		b.WriteString(panelStyle.Render(m.renderTableContent()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderSidebar lists scenarios with their aggregate pass counts.
func (m RunsModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Scenarios\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, s := range m.scenarios {
		cursor := "  "
		line := s.ID
		if st := m.stats[s.ID]; st != nil {
			line = fmt.Sprintf("%s %d/%d", s.ID, st.Passed, st.Runs)
		}
		if maxLen := sidebarWidth - 6; len(line) > maxLen {
			line = line[:maxLen-1] + "."
		}
		if i == m.cursor {
			sb.WriteString(titleStyle.Render("> " + line))
		} else {
			sb.WriteString(cursor + line)
		}
		sb.WriteString("\n")
	}

	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTabs shows the current scenario with arrows on narrow terminals.
func (m RunsModel) renderTabs() string {
	if len(m.scenarios) == 0 {
		return ""
	}
	return centerText(fmt.Sprintf("< %s >", m.scenarios[m.cursor].ID), m.width)
}

// renderTableContent renders the table or empty message.
func (m RunsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := dimStyle.Italic(true).Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nUse `sweep run <id> --save` to record one.")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// RunRuns runs the run history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunRuns(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		runsQuitter{NewRunsModel(store, width, height)},
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(runsQuitter)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}

// runsQuitter ends a standalone history program on Back.
type runsQuitter struct {
	RunsModel
}

func (q runsQuitter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := q.RunsModel.Update(msg)
	if rm, ok := next.(RunsModel); ok {
		q.RunsModel = rm
	}
	if q.IsGoingBack() {
		return q, tea.Quit
	}
	return q, cmd
}
