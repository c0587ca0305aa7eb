package status

import (
	"fmt"
	"strings"

	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the status bar state.
type Model struct {
	Subsystem string
	Owner     string
	Pending   []string
	Location  string
	Feed      string // event feed address, empty when disabled
	Width     int
}

// New creates a status bar model.
func New(subsystem, owner string) Model {
	return Model{Subsystem: subsystem, Owner: owner}
}

// View renders the status bar.
func (m Model) View() string {
	width := max(m.Width, 40)

	mode := "ONLINE"
	if m.Subsystem == "NULL" {
		mode = "LAN"
	}
	modeStr := lipgloss.NewStyle().Foreground(theme.ColorAccent).Bold(true).Render(mode)
	ownerStr := lipgloss.NewStyle().Foreground(theme.ColorBright).Render(m.Owner)

	var pendingStr string
	if len(m.Pending) == 0 {
		pendingStr = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("● idle")
	} else {
		pendingStr = lipgloss.NewStyle().Foreground(theme.ColorPending).Render(
			fmt.Sprintf("◎ %s", strings.Join(m.Pending, ", ")),
		)
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := modeStr + sep + ownerStr + sep + pendingStr
	if m.Location != "" {
		content += sep + theme.StyleDimmed.Render(m.Location)
	}
	if m.Feed != "" {
		content += sep + theme.StyleDimmed.Render("feed "+m.Feed)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
