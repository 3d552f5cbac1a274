// Package spectrum renders the measurement panel: detected peaks, smoothed
// voltage/power meters, and an optional raw spectrum sparkline.
package spectrum

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/pifft/remote/internal/client"
	"github.com/pifft/remote/internal/session"
	"github.com/pifft/remote/internal/theme"
)

// FPS is the animation frame rate for meter smoothing.
const FPS = 30

const (
	maxPeakRows = 8
	// Meter full-scale values, sized for the analyzer's synthesized test
	// signal (amplitude sum ≈ 2.2, band power ≈ 1.4).
	voltFullScale  = 3.0
	powerFullScale = 3.0
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Model holds the spectrum panel state. Polls land once a second; the
// harmonica springs move the meters smoothly between those targets.
type Model struct {
	Width int

	snapshot *session.Snapshot
	raw      *client.RawData

	spring harmonica.Spring

	voltPos, voltVel   float64
	powerPos, powerVel float64

	voltTarget  float64
	powerTarget float64
}

// New creates the spectrum panel.
func New() Model {
	return Model{
		spring: harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 0.7),
	}
}

// SetSession updates the panel from a session snapshot.
func (m *Model) SetSession(s session.Session) {
	m.snapshot = s.Snapshot
	m.raw = s.Raw
	if s.Snapshot != nil {
		m.voltTarget = s.Snapshot.MaxVoltage
		m.powerTarget = s.Snapshot.TotalPower
	} else {
		m.voltTarget = 0
		m.powerTarget = 0
	}
}

// Animate advances the meter springs one frame. It reports whether the
// meters are still visibly moving, so the caller can stop ticking when
// everything has settled.
func (m *Model) Animate() bool {
	m.voltPos, m.voltVel = m.spring.Update(m.voltPos, m.voltVel, m.voltTarget)
	m.powerPos, m.powerVel = m.spring.Update(m.powerPos, m.powerVel, m.powerTarget)

	const eps = 0.001
	settled := abs(m.voltPos-m.voltTarget) < eps && abs(m.voltVel) < eps &&
		abs(m.powerPos-m.powerTarget) < eps && abs(m.powerVel) < eps
	return !settled
}

// View renders the panel.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	if m.snapshot == nil {
		return theme.StyleDimmed.Render("  No measurement yet. Start analysis to begin polling.")
	}

	var sections []string
	sections = append(sections, m.renderMeters(width))
	sections = append(sections, m.renderPeaks())
	if m.raw != nil {
		sections = append(sections, m.renderRaw(width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMeters(width int) string {
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	volt := renderBar(m.voltPos/voltFullScale, barWidth)
	power := renderBar(m.powerPos/powerFullScale, barWidth)

	lines := []string{
		theme.StyleHeader.Render("=== MEASUREMENT ==="),
		fmt.Sprintf("  %s %s %s",
			theme.StyleDimmed.Render("max voltage"), volt,
			theme.StyleAccent.Render(fmt.Sprintf("%6.3f V", m.voltTarget))),
		fmt.Sprintf("  %s %s %s",
			theme.StyleDimmed.Render("total power"), power,
			theme.StyleAccent.Render(fmt.Sprintf("%6.3f  ", m.powerTarget))),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPeaks() string {
	lines := []string{theme.StyleHeader.Render("=== PEAKS ===")}
	if len(m.snapshot.Peaks) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  none detected"))
		return strings.Join(lines, "\n")
	}

	peaks := m.snapshot.Peaks
	if len(peaks) > maxPeakRows {
		peaks = peaks[:maxPeakRows]
	}
	for i, p := range peaks {
		freq := theme.StyleAccent.Render(fmt.Sprintf("%7.2f Hz", p.Frequency))
		mag := fmt.Sprintf("%7.4f", p.Magnitude)
		lines = append(lines, fmt.Sprintf("  %s%s  %s  %s",
			theme.StyleDimmed.Render(fmt.Sprintf("%2d", i+1)),
			theme.StyleDimmed.Render("│"), freq, mag))
	}
	if extra := len(m.snapshot.Peaks) - maxPeakRows; extra > 0 {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  ... %d more", extra)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRaw(width int) string {
	header := theme.StyleHeader.Render("=== SPECTRUM ===") +
		theme.StyleDimmed.Render(fmt.Sprintf("  0-%.0f Hz, %d bins", lastFreq(m.raw), len(m.raw.MagnitudeData)))
	return header + "\n  " + Sparkline(m.raw.MagnitudeData, width-4)
}

// Sparkline compresses a magnitude series into a one-line bar chart of the
// given width, colored by relative level.
func Sparkline(mags []float64, width int) string {
	if len(mags) == 0 || width <= 0 {
		return ""
	}

	peak := 0.0
	for _, v := range mags {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for col := 0; col < width; col++ {
		lo := col * len(mags) / width
		hi := (col + 1) * len(mags) / width
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(mags) {
			hi = len(mags)
		}
		v := 0.0
		for _, x := range mags[lo:hi] {
			if x > v {
				v = x
			}
		}
		frac := v / peak
		idx := int(frac * float64(len(sparkLevels)-1))
		style := lipgloss.NewStyle().Foreground(theme.BarColor(frac))
		b.WriteString(style.Render(string(sparkLevels[idx])))
	}
	return b.String()
}

func renderBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))

	fillStyle := lipgloss.NewStyle().Foreground(theme.BarColor(frac))
	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorDimmed)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString(fillStyle.Render("█"))
		} else {
			b.WriteString(dimStyle.Render("·"))
		}
	}
	return b.String()
}

func lastFreq(raw *client.RawData) float64 {
	if len(raw.FrequencyData) == 0 {
		return 0
	}
	return raw.FrequencyData[len(raw.FrequencyData)-1]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
