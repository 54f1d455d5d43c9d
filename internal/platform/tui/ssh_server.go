package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/storage"
)

// idleTimeout is how long an SSH connection may sit idle before it is closed.
const idleTimeout = 30 * time.Minute

// SSHServer wraps a Wish SSH server serving the scenario viewer.
type SSHServer struct {
	config config.Config
	addr   string
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server from the server, storage and engine sections of cfg.
func NewSSHServer(cfg config.Config, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "sweep-ssh",
		})
	}

	// Run history is optional for a viewer session.
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		addr:   net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.Server.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".sweep", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(srv.addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(idleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := s.config
	cfg.Viewer.Width = pty.Window.Width
	cfg.Viewer.Height = pty.Window.Height

	logger := s.logger.With("user", sshSession.User())
	return NewSessionModel(s.store, cfg, logger), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.addr)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.addr
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenViewer
	screenRuns
)

// SessionModel manages one viewer session: menu -> viewer or history -> menu.
type SessionModel struct {
	store    *storage.Store
	config   config.Config
	logger   *log.Logger
	screen   sessionScreen
	menu     MenuModel
	viewer   ViewerModel
	runs     RunsModel
	err      error
	quitting bool
}

// NewSessionModel creates a new session model starting on the scenario menu.
func NewSessionModel(store *storage.Store, cfg config.Config, logger *log.Logger) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		logger: logger,
		menu:   NewMenuModel(cfg.Viewer.Width, cfg.Viewer.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.Viewer.Width = wsm.Width
		m.config.Viewer.Height = wsm.Height
	}

	switch m.screen {
	case screenViewer:
		return m.updateViewer(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsRuns():
		m.runs = NewRunsModel(m.store, m.config.Viewer.Width, m.config.Viewer.Height)
		m.screen = screenRuns
		return m, m.runs.Init()

	case m.menu.Selected() != nil:
		scene, err := m.buildScene(m.menu.Selected().ID)
		if err != nil {
			m.logger.Error("cannot build scene", "scenario", m.menu.Selected().ID, "error", err)
			m.err = err
			m.menu = NewMenuModel(m.config.Viewer.Width, m.config.Viewer.Height)
			return m, nil
		}
		m.err = nil
		m.viewer = NewViewerModel(scene, m.config.Viewer)
		m.screen = screenViewer
		return m, m.viewer.Init()
	}

	return m, cmd
}

// buildScene evaluates a registered scenario with a fresh history and records the run.
func (m SessionModel) buildScene(id string) (*Scene, error) {
	sc, err := registry.Create(id)
	if err != nil {
		return nil, err
	}

	hist := history.NewStore()
	hist.SetDepth(m.config.Engine.HistoryDepth)
	finder := collision.NewFinder(hist, collision.WithConfig(m.config.Engine), collision.WithLogger(m.logger))

	scene, err := BuildScene(context.Background(), sc, finder)
	if err != nil {
		return nil, err
	}

	if m.store != nil {
		if _, err := m.store.SaveReport(scene.Report); err != nil {
			m.logger.Warn("could not save run", "scenario", id, "error", err)
		}
	}
	return scene, nil
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config.Viewer.Width, m.config.Viewer.Height)
	return m, m.menu.Init()
}

// updateViewer handles updates when a scene is open.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.viewer.Update(msg)
	if viewer, ok := next.(ViewerModel); ok {
		m.viewer = viewer
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.viewer.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// updateRuns handles updates on the run history screen.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.runs.Update(msg)
	if runs, ok := next.(RunsModel); ok {
		m.runs = runs
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.runs.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenViewer:
		return m.viewer.View()
	case screenRuns:
		return m.runs.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + hitStyle.Render(centerText(m.err.Error(), m.config.Viewer.Width))
	}
	return view
}
