// Package status renders the top status bar: connection state, acquisition
// state, endpoint, and the last transport error.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pifft/remote/internal/session"
	"github.com/pifft/remote/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Width int

	state session.Session
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// SetSession updates the rendered session snapshot.
func (m *Model) SetSession(s session.Session) {
	m.state = s
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	connName := m.state.Status.String()
	connStr := lipgloss.NewStyle().
		Foreground(theme.ConnectionColor(connName)).
		Render(theme.ConnectionGlyph(connName) + " " + connName)

	endpoint := theme.StyleDimmed.Render(m.state.Endpoint.String())
	if m.state.Endpoint.Host == "" {
		endpoint = theme.StyleDimmed.Render("no device set")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + endpoint

	if m.state.Status == session.Connected {
		acqName := m.state.Acquisition.String()
		acqStr := lipgloss.NewStyle().
			Foreground(theme.AcquisitionColor(acqName)).
			Render("analysis " + acqName)
		content += sep + acqStr

		if m.state.DeviceVersion != "" {
			content += sep + theme.StyleDimmed.Render("fw "+m.state.DeviceVersion)
		}
		if m.state.PollFailures > 0 {
			content += sep + lipgloss.NewStyle().
				Foreground(theme.ColorWarning).
				Render(fmt.Sprintf("%d missed polls", m.state.PollFailures))
		}
	}

	if m.state.LastError != nil {
		content += sep + theme.StyleError.Render(m.state.LastError.Error())
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
