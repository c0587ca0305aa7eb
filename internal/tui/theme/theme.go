// Package theme provides the Lip Gloss color palette and reusable styles
// for the lobby TUI. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Status colors.
var (
	ColorSuccess = lipgloss.Color("#16a34a")
	ColorInfo    = lipgloss.Color("#2563eb")
	ColorPending = lipgloss.Color("#7c3aed")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Quality tier colors, Low through Epic.
var (
	ColorLow    = lipgloss.Color("#9ca3af")
	ColorMedium = lipgloss.Color("#22c55e")
	ColorHigh   = lipgloss.Color("#3b82f6")
	ColorEpic   = lipgloss.Color("#a855f7")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorAccent  = lipgloss.Color("#06b6d4")
	ColorDefault = lipgloss.Color("#9ca3af")
)

// QualityColor returns the color for a quality level 0-3.
func QualityColor(level int) lipgloss.Color {
	switch level {
	case 0:
		return ColorLow
	case 1:
		return ColorMedium
	case 2:
		return ColorHigh
	case 3:
		return ColorEpic
	default:
		return ColorDefault
	}
}

// PingColor grades a latency in milliseconds.
func PingColor(ms int) lipgloss.Color {
	switch {
	case ms > 150:
		return ColorDanger
	case ms > 60:
		return ColorWarning
	default:
		return ColorSuccess
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

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleButton = lipgloss.NewStyle().
			Padding(0, 3).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Foreground(ColorBright)

	StyleButtonFocused = StyleButton.
				BorderForeground(ColorAccent).
				Bold(true)

	StyleButtonDisabled = StyleButton.
				Foreground(ColorDimmed).
				BorderForeground(ColorBg)
)

// Button renders a labelled button in its enabled, focused or disabled
// state.
func Button(label string, enabled, focused bool) string {
	switch {
	case !enabled:
		return StyleButtonDisabled.Render(label)
	case focused:
		return StyleButtonFocused.Render(label)
	default:
		return StyleButton.Render(label)
	}
}
