// Package app holds the root Bubble Tea model. It subscribes to the session
// manager's state updates and forwards user intents back into it; all
// connection and polling logic lives in the session package.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pifft/remote/internal/session"
	"github.com/pifft/remote/internal/theme"
	"github.com/pifft/remote/internal/views/endpoint"
	"github.com/pifft/remote/internal/views/eventlog"
	"github.com/pifft/remote/internal/views/help"
	"github.com/pifft/remote/internal/views/settings"
	"github.com/pifft/remote/internal/views/spectrum"
	"github.com/pifft/remote/internal/views/status"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayEndpoint
	OverlaySettings
	OverlayLog
	OverlayHelp
)

// sessionUpdateMsg signals that the session manager has new state.
type sessionUpdateMsg struct{}

// frameMsg drives meter animation between polls.
type frameMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	mgr  *session.Manager
	keys KeyMap

	width  int
	height int

	// Configured endpoint; used by the connect key and edited via the
	// endpoint overlay.
	host string
	port int

	state   session.Session
	overlay Overlay

	statusBar    status.Model
	spectrumView spectrum.Model
	endpointForm endpoint.Model
	settingsForm settings.Model
	helpView     help.Model
	log          eventlog.Model

	animating bool
}

// New creates the root model. host/port are the initial endpoint from flags
// or config.
func New(mgr *session.Manager, host string, port int) Model {
	return Model{
		mgr:          mgr,
		keys:         DefaultKeyMap(),
		host:         host,
		port:         port,
		statusBar:    status.New(),
		spectrumView: spectrum.New(),
		helpView:     help.New(),
		log:          eventlog.New(),
	}
}

// Init starts listening for session updates.
func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.mgr)
}

func listenForUpdates(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		<-mgr.Updates()
		return sessionUpdateMsg{}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/spectrum.FPS, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.spectrumView.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionUpdateMsg:
		prev := m.state
		m.state = m.mgr.State()
		m.logTransitions(prev, m.state)
		m.statusBar.SetSession(m.state)
		m.spectrumView.SetSession(m.state)

		cmds := []tea.Cmd{listenForUpdates(m.mgr)}
		if !m.animating && m.state.Snapshot != nil {
			m.animating = true
			cmds = append(cmds, frameTick())
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if m.spectrumView.Animate() {
			return m, frameTick()
		}
		m.animating = false
		return m, nil
	}

	// Forward everything else (blink ticks etc.) to the active form.
	return m.updateOverlay(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.mgr.Disconnect()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Connect):
		m.log.Add("ui", fmt.Sprintf("connect %s:%d", m.host, m.port))
		m.mgr.Connect(m.host, m.port)
		return m, nil

	case key.Matches(msg, m.keys.Disconnect):
		m.log.Add("ui", "disconnect")
		m.mgr.Disconnect()
		return m, nil

	case key.Matches(msg, m.keys.Start):
		m.mgr.StartAnalysis()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		m.mgr.StopAnalysis()
		return m, nil

	case key.Matches(msg, m.keys.Raw):
		m.mgr.FetchRaw()
		return m, nil

	case key.Matches(msg, m.keys.Endpoint):
		// The endpoint is mutable only while disconnected.
		if m.state.Status == session.Disconnected || m.state.Status == session.ConnectionFailed {
			m.endpointForm = endpoint.New(m.host, m.port)
			m.overlay = OverlayEndpoint
		}
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		if m.state.Status == session.Connected {
			m.settingsForm = settings.New()
			m.overlay = OverlaySettings
		}
		return m, nil

	case key.Matches(msg, m.keys.Log):
		m.overlay = OverlayLog
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil
	}

	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.overlay = OverlayNone
		return m, nil
	}

	switch m.overlay {
	case OverlayEndpoint:
		if key.Matches(msg, m.keys.Enter) {
			host, port, err := m.endpointForm.Values()
			if err != nil {
				m.log.Add("err", err.Error())
				return m, nil
			}
			m.host = host
			m.port = port
			m.overlay = OverlayNone
			m.log.Add("ui", fmt.Sprintf("connect %s:%d", host, port))
			m.mgr.Connect(host, port)
			return m, nil
		}
		var cmd tea.Cmd
		m.endpointForm, cmd = m.endpointForm.Update(msg)
		return m, cmd

	case OverlaySettings:
		if key.Matches(msg, m.keys.Enter) {
			s, err := m.settingsForm.Values()
			if err != nil {
				m.log.Add("err", err.Error())
				return m, nil
			}
			m.overlay = OverlayNone
			m.mgr.UpdateSettings(s)
			return m, nil
		}
		var cmd tea.Cmd
		m.settingsForm, cmd = m.settingsForm.Update(msg)
		return m, cmd

	case OverlayLog:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.log.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.log.ScrollDown(1)
		}
		return m, nil

	case OverlayHelp:
		if key.Matches(msg, m.keys.Help) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	return m, nil
}

// updateOverlay forwards non-key messages (cursor blink ticks) to the form
// that is currently active.
func (m Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.overlay {
	case OverlayEndpoint:
		m.endpointForm, cmd = m.endpointForm.Update(msg)
	case OverlaySettings:
		m.settingsForm, cmd = m.settingsForm.Update(msg)
	}
	return m, cmd
}

// logTransitions records state changes in the event log.
func (m *Model) logTransitions(prev, next session.Session) {
	if prev.Status != next.Status {
		m.log.Add("net", fmt.Sprintf("%s → %s", prev.Status, next.Status))
	}
	if prev.Acquisition != next.Acquisition {
		m.log.Add("net", fmt.Sprintf("analysis %s", next.Acquisition))
	}
	if next.LastError != nil && (prev.LastError == nil || prev.LastError.Error() != next.LastError.Error()) {
		m.log.Add("err", next.LastError.Error())
	}
	if next.PollFailures > prev.PollFailures {
		m.log.Add("poll", fmt.Sprintf("poll failed (%d consecutive)", next.PollFailures))
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := m.renderBody()
	sections := []string{
		m.statusBar.View(),
		body,
		m.footer(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBody() string {
	switch m.overlay {
	case OverlayEndpoint:
		return m.endpointForm.View(m.width)
	case OverlaySettings:
		return m.settingsForm.View(m.width)
	case OverlayLog:
		return m.log.View(m.width, m.height)
	case OverlayHelp:
		return m.helpView.View(m.width)
	}

	switch m.state.Status {
	case session.Connected:
		return m.spectrumView.View()
	case session.Connecting:
		return theme.StyleDimmed.Render("  Connecting to " + m.state.Endpoint.String() + "...")
	case session.ConnectionFailed:
		return theme.StyleError.Render("  CONNECTION FAILED") + "\n" +
			theme.StyleDimmed.Render("  c:retry  e:edit endpoint")
	default:
		return theme.StyleDimmed.Render("  DISCONNECTED") + "\n" +
			theme.StyleDimmed.Render("  c:connect  e:edit endpoint")
	}
}

func (m Model) footer() string {
	if m.overlay != OverlayNone {
		return theme.StyleDimmed.Render("  esc:close")
	}
	if m.state.Status == session.Connected {
		return theme.StyleDimmed.Render("  s:start  x:stop  r:raw  o:settings  d:disconnect  l:log  ?:help  q:quit")
	}
	return theme.StyleDimmed.Render("  c:connect  e:endpoint  l:log  ?:help  q:quit")
}
