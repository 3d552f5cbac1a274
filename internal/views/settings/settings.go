// Package settings provides the overlay form for tuning analysis parameters
// on the device (base frequency and noise level).
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pifft/remote/internal/client"
	"github.com/pifft/remote/internal/theme"
)

// Model holds the settings form state.
type Model struct {
	baseFreq   textinput.Model
	noiseLevel textinput.Model
	focus      int // 0 = base freq, 1 = noise level
}

// New creates an empty settings form. Blank fields are omitted from the
// request and left unchanged on the device.
func New() Model {
	f := textinput.New()
	f.Prompt = "base freq (Hz) > "
	f.CharLimit = 8
	f.Width = 12
	f.Focus()

	n := textinput.New()
	n.Prompt = "noise level    > "
	n.CharLimit = 8
	n.Width = 12

	return Model{baseFreq: f, noiseLevel: n}
}

// Update handles key input. Tab moves between fields.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" {
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.noiseLevel.Blur()
			return m, m.baseFreq.Focus()
		}
		m.baseFreq.Blur()
		return m, m.noiseLevel.Focus()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.baseFreq, cmd = m.baseFreq.Update(msg)
	} else {
		m.noiseLevel, cmd = m.noiseLevel.Update(msg)
	}
	return m, cmd
}

// Values returns the settings payload built from the non-empty fields.
func (m Model) Values() (client.Settings, error) {
	var s client.Settings
	if v := strings.TrimSpace(m.baseFreq.Value()); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("base freq %q is not a number", v)
		}
		s.BaseFreq = &f
	}
	if v := strings.TrimSpace(m.noiseLevel.Value()); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("noise level %q is not a number", v)
		}
		s.NoiseLevel = &f
	}
	return s, nil
}

// View renders the form as an overlay panel.
func (m Model) View(width int) string {
	innerW := width - 4
	if innerW < 34 {
		innerW = 34
	}

	title := theme.StyleHeader.Render(" ANALYSIS SETTINGS ")
	help := theme.StyleDimmed.Render("tab:switch field  enter:apply  esc:cancel")
	content := lipgloss.JoinVertical(lipgloss.Left,
		title, "", m.baseFreq.View(), m.noiseLevel.View(), "", help)

	return lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
