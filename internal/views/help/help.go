// Package help renders the key-binding reference as a markdown overlay.
package help

import (
	"github.com/charmbracelet/glamour"
	"github.com/pifft/remote/internal/theme"
)

const helpMarkdown = `# pifft remote

Terminal remote control for the FFT signal analyzer.

## Connection

| Key | Action |
|-----|--------|
| c   | connect to the device |
| d   | disconnect |
| e   | edit device endpoint (while disconnected) |

## Acquisition

| Key | Action |
|-----|--------|
| s   | start analysis |
| x   | stop analysis |
| r   | fetch raw spectrum |
| o   | analysis settings |

## Misc

| Key | Action |
|-----|--------|
| l   | event log |
| ?   | this help |
| esc | close overlay |
| q   | quit |

While analysis is running the measurement panel refreshes once per second.
A missed poll is skipped silently and retried on the next tick.
`

// Model caches the rendered help text per width.
type Model struct {
	rendered string
	width    int
}

// New creates an empty help model; rendering happens lazily in View.
func New() Model {
	return Model{}
}

// View renders the help overlay at the given width.
func (m *Model) View(width int) string {
	innerW := width - 4
	if innerW < 40 {
		innerW = 40
	}
	if m.rendered == "" || m.width != innerW {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(innerW),
		)
		if err != nil {
			return theme.StyleDimmed.Render(helpMarkdown)
		}
		out, err := r.Render(helpMarkdown)
		if err != nil {
			return theme.StyleDimmed.Render(helpMarkdown)
		}
		m.rendered = out
		m.width = innerW
	}
	return m.rendered
}
