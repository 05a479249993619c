// Package tui provides the live processing-watch view. It implements a
// driving adapter following hexagonal architecture principles.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hewnlabs/corpora-cli/internal/adapters/driving/tui/styles"
	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
)

// WatchKeyMap defines the keybindings for the watch view.
type WatchKeyMap struct {
	// Quit exits the view.
	Quit key.Binding
}

// DefaultWatchKeyMap returns the default watch keybindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// snapshotMsg carries the outcome of one status poll.
type snapshotMsg struct {
	snap *domain.StatusSnapshot
	err  error
}

// pollTickMsg asks for the next poll.
type pollTickMsg struct{}

// WatchModel is a bubbletea model that follows one artifact's
// processing until it reaches a terminal state.
type WatchModel struct {
	tracker  driving.TrackerService
	id       string
	interval time.Duration

	styles   *styles.Styles
	keys     WatchKeyMap
	spinner  spinner.Model
	progress progress.Model

	snap     *domain.StatusSnapshot
	err      error
	quitting bool
	width    int
}

// Ensure WatchModel implements tea.Model.
var _ tea.Model = WatchModel{}

// NewWatchModel creates a watch view for one artifact.
func NewWatchModel(tracker driving.TrackerService, id string, interval time.Duration) WatchModel {
	s := styles.DefaultStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Title),
	)

	return WatchModel{
		tracker:  tracker,
		id:       id,
		interval: interval,
		styles:   s,
		keys:     DefaultWatchKeyMap(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    60,
	}
}

// Err returns the error that ended the watch, if any. A failed
// processing run counts as an error.
func (m WatchModel) Err() error {
	if m.err != nil {
		return m.err
	}
	if m.snap != nil && m.snap.Status == domain.StateFailed {
		return fmt.Errorf("processing failed: %s", m.snap.Error)
	}
	return nil
}

// Init starts the spinner and issues the first poll.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// Update handles messages following the Elm architecture.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		return m.applySnapshot(msg)

	case pollTickMsg:
		return m, m.poll()
	}

	return m, nil
}

// applySnapshot folds one poll outcome into the model. Stale snapshots
// resolving after a newer one are discarded by sequence number.
func (m WatchModel) applySnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, tea.Quit
	}

	if msg.snap.Supersedes(m.snap) {
		m.snap = msg.snap
	}

	if m.snap.Status.Terminal() {
		return m, tea.Quit
	}

	return m, tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// poll issues one status read.
func (m WatchModel) poll() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.tracker.Poll(context.Background(), m.id)
		return snapshotMsg{snap: snap, err: err}
	}
}

// View renders the watch view.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.styles
	out := s.Title.Render("Watching "+m.id) + "\n\n"

	if m.snap == nil {
		out += m.spinner.View() + s.Muted.Render(" waiting for first status...") + "\n"
		return out + "\n" + s.Help.Render("q to quit")
	}

	out += m.statusLine() + "\n"
	out += m.progress.ViewAs(float64(m.snap.Progress)/100) + "\n"

	if m.snap.Message != "" {
		out += s.Muted.Render(m.snap.Message) + "\n"
	}
	if m.snap.Error != "" {
		out += s.Error.Render(m.snap.Error) + "\n"
	}

	return out + "\n" + s.Help.Render("q to quit")
}

// statusLine renders the lifecycle state with a state-appropriate style.
func (m WatchModel) statusLine() string {
	s := m.styles
	switch m.snap.Status {
	case domain.StateCompleted:
		return s.Success.Render("completed")
	case domain.StateFailed:
		return s.Error.Render("failed")
	case domain.StateProcessing:
		return m.spinner.View() + s.Normal.Render(" processing")
	default:
		return m.spinner.View() + s.Warning.Render(" pending")
	}
}
