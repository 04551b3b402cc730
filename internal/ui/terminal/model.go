// Package terminal is a keyboard-driven session UI for the terminal, used
// when no desktop is available.
package terminal

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"trackpace/internal/clock"
	"trackpace/internal/core/engine"
	"trackpace/internal/core/model"
	"trackpace/internal/ui/preferences"
)

type stateMsg struct{ state model.SessionState }

type streamClosedMsg struct{}

type clockMsg time.Time

type commandErrMsg struct {
	command string
	err     error
}

// Model renders the session and turns key presses into controller commands.
type Model struct {
	controller engine.Controller
	states     <-chan model.SessionState
	tracks     []preferences.Track
	clock      clock.Clock
	logger     *log.Logger

	state      model.SessionState
	now        time.Time
	selected   int
	confirming bool
	status     string
	keys       keyMap
	help       help.Model
	width      int
}

// New builds a model reading states from the given subscription.
func New(controller engine.Controller, states <-chan model.SessionState, tracks []preferences.Track, clk clock.Clock, logger *log.Logger) Model {
	return Model{
		controller: controller,
		states:     states,
		tracks:     tracks,
		clock:      clk,
		logger:     logger.WithPrefix("terminal"),
		state:      controller.Snapshot(),
		now:        clk.Now(),
		keys:       defaultKeys(),
		help:       help.New(),
	}
}

// Init starts listening for states and the wall clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.states), m.tickClock())
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state
		m.clampSelection()
		return m, waitForState(m.states)
	case streamClosedMsg:
		return m, tea.Quit
	case clockMsg:
		m.now = time.Time(msg)
		return m, m.tickClock()
	case commandErrMsg:
		m.status = msg.command + ": " + msg.err.Error()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" || msg.String() == "Y" {
			return m, m.run("reset", m.controller.ResetSession)
		}
		m.status = "reset cancelled"
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if !m.state.UIVisible {
		return m, m.run("show", m.controller.ShowUI)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.run("toggle", m.controller.ToggleStartPause)
	case key.Matches(msg, m.keys.Lap):
		return m, m.run("lap", m.controller.AddLap)
	case key.Matches(msg, m.keys.Split):
		return m, m.run("split", m.controller.SplitLastLap)
	case key.Matches(msg, m.keys.Reset):
		m.confirming = true
		return m, m.run("show", m.controller.ShowUI)
	case key.Matches(msg, m.keys.Track):
		distance := nextTrack(m.tracks, m.state.TrackDistanceM)
		return m, m.run("track", func() error { return m.controller.SetTrackDistance(distance) })
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, m.run("show", m.controller.ShowUI)
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.state.Laps)-1 {
			m.selected++
		}
		return m, m.run("show", m.controller.ShowUI)
	case key.Matches(msg, m.keys.Delete):
		if m.selected >= len(m.state.Laps) {
			return m, nil
		}
		number := m.state.Laps[m.selected].Number
		return m, m.run("delete", func() error { return m.controller.DeleteLap(number) })
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, m.run("show", m.controller.ShowUI)
	}
	return m, m.run("show", m.controller.ShowUI)
}

// run issues a controller command off the update loop.
func (m Model) run(name string, call func() error) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		if err := call(); err != nil {
			logger.Warn("command failed", "command", name, "err", err)
			return commandErrMsg{command: name, err: err}
		}
		return nil
	}
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.state.Laps) {
		m.selected = len(m.state.Laps) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) tickClock() tea.Cmd {
	clk := m.clock
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockMsg(clk.Now())
	})
}

func waitForState(states <-chan model.SessionState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return streamClosedMsg{}
		}
		return stateMsg{state: state}
	}
}

// nextTrack returns the distance after current in the track list, wrapping
// around. An unlisted distance moves to the first track.
func nextTrack(tracks []preferences.Track, current int) int {
	if len(tracks) == 0 {
		return current
	}
	for i, track := range tracks {
		if track.DistanceM == current {
			return tracks[(i+1)%len(tracks)].DistanceM
		}
	}
	return tracks[0].DistanceM
}
