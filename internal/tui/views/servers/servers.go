// Package servers renders the server list from the last search.
package servers

import (
	"fmt"
	"strings"

	"github.com/agent-racer/multiplayer/internal/menu"
	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ownerWidth = 20

// Model tracks the selected row.
type Model struct {
	Selected int
}

// Clamp keeps Selected inside n rows.
func (m *Model) Clamp(n int) {
	if n == 0 {
		m.Selected = 0
		return
	}
	m.Selected = min(max(m.Selected, 0), n-1)
}

// Next selects the following row, wrapping.
func (m *Model) Next(n int) {
	if n > 0 {
		m.Selected = (m.Selected + 1) % n
	}
}

// Prev selects the preceding row, wrapping.
func (m *Model) Prev(n int) {
	if n > 0 {
		m.Selected = (m.Selected - 1 + n) % n
	}
}

// View renders entries.
func (m Model) View(entries []*menu.Entry) string {
	header := theme.StyleHeader.Render("SERVERS")
	if len(entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			theme.StyleDimmed.Render("  No sessions listed. Press Join on the menu to search."))
	}

	lines := []string{header, theme.StyleDimmed.Render(fmt.Sprintf("  %-*s %-12s %5s %6s", ownerWidth, "HOST", "MATCH", "OPEN", "PING"))}
	for i, e := range entries {
		prefix := "  "
		if i == m.Selected {
			prefix = "> "
		}
		owner := ansi.Truncate(e.Owner(), ownerWidth, "...")
		owner += strings.Repeat(" ", ownerWidth-ansi.StringWidth(owner))
		row := fmt.Sprintf("%s %-12s %5d", owner, e.MatchType(), e.OpenSlots())
		ping := lipgloss.NewStyle().Foreground(theme.PingColor(e.PingMs())).Render(fmt.Sprintf("%4dms", e.PingMs()))
		line := prefix + row + " " + ping
		switch {
		case !e.Enabled():
			line = theme.StyleDimmed.Render(prefix+row) + " " + theme.StyleDimmed.Render("joining")
		case i == m.Selected:
			line = theme.StyleSelected.Render(prefix+row) + " " + ping
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", theme.StyleDimmed.Render(strings.Repeat("─", ownerWidth+30)),
		theme.StyleDimmed.Render("  enter:join selected"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
