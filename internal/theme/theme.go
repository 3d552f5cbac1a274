// Package theme provides the Lip Gloss color palette and reusable styles
// for the pifft TUI. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Connection state colors.
var (
	ColorConnected    = lipgloss.Color("#22c55e")
	ColorConnecting   = lipgloss.Color("#d97706")
	ColorDisconnected = lipgloss.Color("#4b5563")
	ColorFailed       = lipgloss.Color("#dc2626")
)

// Acquisition state colors.
var (
	ColorRunning = lipgloss.Color("#2563eb")
	ColorPending = lipgloss.Color("#854d0e")
	ColorIdle    = lipgloss.Color("#6b7280")
)

// Spectrum bar thresholds relative to the strongest bin.
var (
	ColorBarLow  = lipgloss.Color("#22c55e") // <50%
	ColorBarMid  = lipgloss.Color("#d97706") // 50-80%
	ColorBarHigh = lipgloss.Color("#dc2626") // >80%
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#06b6d4")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// ConnectionColor returns the color for a connection state name.
func ConnectionColor(status string) lipgloss.Color {
	switch status {
	case "connected":
		return ColorConnected
	case "connecting":
		return ColorConnecting
	case "connection failed":
		return ColorFailed
	default:
		return ColorDisconnected
	}
}

// AcquisitionColor returns the color for an acquisition state name.
func AcquisitionColor(state string) lipgloss.Color {
	switch state {
	case "running":
		return ColorRunning
	case "starting", "stopping":
		return ColorPending
	default:
		return ColorIdle
	}
}

// BarColor returns the color for a bar at the given fraction of full scale.
func BarColor(pct float64) lipgloss.Color {
	switch {
	case pct > 0.8:
		return ColorBarHigh
	case pct > 0.5:
		return ColorBarMid
	default:
		return ColorBarLow
	}
}

// ConnectionGlyph returns the symbol shown next to the connection state.
func ConnectionGlyph(status string) string {
	switch status {
	case "connected":
		return "●"
	case "connecting":
		return "◎"
	case "connection failed":
		return "✗"
	default:
		return "○"
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleAccent = lipgloss.NewStyle().
			Foreground(ColorAccent)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
