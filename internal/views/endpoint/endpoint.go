// Package endpoint provides the overlay form for editing the device
// host and port. The endpoint is editable only while disconnected; the app
// gates opening the form on that.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pifft/remote/internal/theme"
)

// Model holds the endpoint form state.
type Model struct {
	host  textinput.Model
	port  textinput.Model
	focus int // 0 = host, 1 = port
}

// New creates the form pre-filled with the current endpoint.
func New(host string, port int) Model {
	h := textinput.New()
	h.Prompt = "host > "
	h.CharLimit = 64
	h.Width = 24
	h.SetValue(host)
	h.Focus()

	p := textinput.New()
	p.Prompt = "port > "
	p.CharLimit = 5
	p.Width = 24
	if port > 0 {
		p.SetValue(strconv.Itoa(port))
	}

	return Model{host: h, port: p}
}

// Update handles key input. Tab moves between fields.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" {
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.port.Blur()
			return m, m.host.Focus()
		}
		m.host.Blur()
		return m, m.port.Focus()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.host, cmd = m.host.Update(msg)
	} else {
		m.port, cmd = m.port.Update(msg)
	}
	return m, cmd
}

// Values returns the entered endpoint. The port must parse as an integer;
// range checking is the session manager's job.
func (m Model) Values() (string, int, error) {
	host := strings.TrimSpace(m.host.Value())
	port, err := strconv.Atoi(strings.TrimSpace(m.port.Value()))
	if err != nil {
		return "", 0, fmt.Errorf("port %q is not a number", m.port.Value())
	}
	return host, port, nil
}

// View renders the form as an overlay panel.
func (m Model) View(width int) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}

	title := theme.StyleHeader.Render(" DEVICE ENDPOINT ")
	help := theme.StyleDimmed.Render("tab:switch field  enter:connect  esc:cancel")
	content := lipgloss.JoinVertical(lipgloss.Left,
		title, "", m.host.View(), m.port.View(), "", help)

	return lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
