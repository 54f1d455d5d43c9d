package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/core"
)

// Viewer layout constants
const (
	minWidthForPanel = 90 // Minimum width to show the results panel
	panelWidth       = 34
	chromeHeight     = 4 // Title, frame line and help bar
)

// ViewerModel is the Bubble Tea model for stepping through an evaluated scene.
type ViewerModel struct {
	scene     *Scene
	screen    *core.Screen
	keys      ViewerKeyMap
	help      help.Model
	fps       int
	cursor    int
	playing   bool
	gen       int
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewViewerModel creates a viewer positioned on the first frame.
func NewViewerModel(scene *Scene, cfg config.ViewerConfig) ViewerModel {
	m := ViewerModel{
		scene:  scene,
		keys:   DefaultViewerKeyMap(),
		help:   help.New(),
		fps:    cfg.FPS,
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.screen = core.NewScreen(m.canvasSize())
	return m
}

// canvasSize returns the cell area available for the scene itself.
func (m ViewerModel) canvasSize() (int, int) {
	w := m.width
	if m.showPanel() {
		w -= panelWidth + 4
	}
	return max(1, w), max(1, m.height-chromeHeight)
}

func (m ViewerModel) showPanel() bool {
	return m.width >= minWidthForPanel
}

// Init initializes the viewer.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(m.canvasSize())
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.scene.Frames) - 1

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.goingBack = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Next):
		m.playing = false
		m.cursor = min(m.cursor+1, last)

	case key.Matches(msg, m.keys.Prev):
		m.playing = false
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(msg, m.keys.First):
		m.playing = false
		m.cursor = 0

	case key.Matches(msg, m.keys.Last):
		m.playing = false
		m.cursor = max(last, 0)

	case key.Matches(msg, m.keys.Play):
		if m.playing {
			m.playing = false
			return m, nil
		}
		if m.cursor >= last {
			m.cursor = 0
		}
		m.playing = true
		m.gen++
		return m, tickCmd(m.fps, m.gen)
	}

	return m, nil
}

// handleTick advances playback, stopping on the last frame.
func (m ViewerModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.playing || msg.Gen != m.gen {
		return m, nil
	}

	if m.cursor < len(m.scene.Frames)-1 {
		m.cursor++
	}
	if m.cursor >= len(m.scene.Frames)-1 {
		m.playing = false
		return m, nil
	}
	return m, tickCmd(m.fps, m.gen)
}

// View renders the current frame with its results.
func (m ViewerModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	sc := m.scene.Scenario
	b.WriteString(titleStyle.Render(centerText(sc.Name, m.width)))
	b.WriteString("\n")

	status := "paused"
	if m.playing {
		status = "playing"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf(" frame %d/%d  dt=%g  %s", m.cursor+1, len(m.scene.Frames), m.frameDuration(), status)))
	b.WriteString("\n")

	canvas := ""
	if f, ok := m.frame(); ok {
		DrawScene(m.screen, f, m.scene.Bounds)
		canvas = RenderScreen(m.screen)
	}

	if m.showPanel() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", m.renderPanel()))
	} else {
		b.WriteString(canvas)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ViewerModel) frameDuration() float64 {
	if d := m.scene.Scenario.FrameDuration; d > 0 {
		return d
	}
	return 1
}

func (m ViewerModel) frame() (SceneFrame, bool) {
	if m.cursor < 0 || m.cursor >= len(m.scene.Frames) {
		return SceneFrame{}, false
	}
	return m.scene.Frames[m.cursor], true
}

// renderPanel lists every pair's result for the current frame and any failed expectations.
func (m ViewerModel) renderPanel() string {
	var b strings.Builder
	b.WriteString("Pairs\n")
	b.WriteString(strings.Repeat("-", panelWidth-4))
	b.WriteString("\n")

	f, _ := m.frame()
	if len(f.Results) == 0 {
		b.WriteString(dimStyle.Render("no pairs"))
		b.WriteString("\n")
	}
	for _, r := range f.Results {
		name := fmt.Sprintf("%s/%s", r.A, r.B)
		if !r.Data.IsCollision {
			b.WriteString(dimStyle.Render(name + "  clear"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(hitStyle.Render(name + "  hit"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  t=%.3f  at (%.1f, %.1f)\n", r.Data.Time, r.Data.ContactPoint.X, r.Data.ContactPoint.Y))
		if sides := sideNames(r.Left, r.Right, r.Top, r.Bottom); sides != "" {
			b.WriteString("  " + sides + "\n")
		}
		if r.Data.IsMovingCollision {
			dir := "moving"
			switch {
			case r.Data.IsMovingRightCollision:
				dir = "moving right"
			case r.Data.IsMovingLeftCollision:
				dir = "moving left"
			}
			b.WriteString("  " + dir + "\n")
		}
	}

	if m.scene.Report != nil {
		failures := m.scene.Failures(m.cursor)
		b.WriteString("\n")
		if len(failures) == 0 {
			b.WriteString(passStyle.Render("expectations ok"))
		}
		for _, fl := range failures {
			b.WriteString(hitStyle.Render(fmt.Sprintf("%s/%s %s: got %t", fl.A, fl.B, fl.Field, fl.Got)))
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(panelWidth).Render(b.String())
}

func sideNames(left, right, top, bottom bool) string {
	var sides []string
	if left {
		sides = append(sides, "left")
	}
	if right {
		sides = append(sides, "right")
	}
	if top {
		sides = append(sides, "top")
	}
	if bottom {
		sides = append(sides, "bottom")
	}
	return strings.Join(sides, " ")
}

// Cursor returns the index of the displayed frame.
func (m ViewerModel) Cursor() int {
	return m.cursor
}

// Playing reports whether playback is running.
func (m ViewerModel) Playing() bool {
	return m.playing
}

// IsGoingBack returns true if user wants to go back to the scenario list.
func (m ViewerModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// RunViewer starts the Bubble Tea program for the given scene.
// Returns true if the user asked to go back rather than quit.
func RunViewer(scene *Scene, cfg config.ViewerConfig) (goBack bool, err error) {
	model := NewViewerModel(scene, cfg)

	p := tea.NewProgram(
		backQuitter{model},
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(backQuitter)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}

// backQuitter ends a standalone viewer program on Back. Inside an SSH session the
// session model handles Back itself.
type backQuitter struct {
	ViewerModel
}

func (q backQuitter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := q.ViewerModel.Update(msg)
	if vm, ok := next.(ViewerModel); ok {
		q.ViewerModel = vm
	}
	if q.IsGoingBack() {
		return q, tea.Quit
	}
	return q, cmd
}
