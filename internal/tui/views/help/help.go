// Package help renders the keyboard reference overlay from markdown.
package help

import (
	"strings"

	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const doc = `# Lobby

**Host** creates a session and, once it starts, opens the lobby as a
listen server. If a session is already up it is torn down first.

**Join** searches the LAN and joins the first session with a matching
match type. Press it again to cancel; the search still finishes and fills
the server list.

| key | action |
|-----|--------|
| tab / 1-3 | menu, servers, settings |
| j / k | move |
| h / l | change value |
| enter | press / join selected |
| x | destroy hosted session |
| d | event log |
| ? | this help |
| q | quit |
`

// Model caches the rendered document per width.
type Model struct {
	width    int
	rendered string
}

// View renders the overlay at width.
func (m *Model) View(width int) string {
	inner := max(width-6, 30)
	if m.rendered == "" || m.width != inner {
		m.width = inner
		m.rendered = render(inner)
	}
	return lipgloss.NewStyle().
		Width(inner).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(strings.TrimRight(m.rendered, "\n"))
}

func render(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}
