// Package mainmenu renders the host/join screen.
package mainmenu

import (
	"github.com/agent-racer/multiplayer/internal/menu"
	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Button positions.
const (
	FocusHost = iota
	FocusJoin
)

// Model holds the view-only state of the menu screen.
type Model struct {
	Focus     int
	MatchType string
	Spinner   spinner.Model
}

// New creates a menu view.
func New(matchType string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorPending)
	return Model{MatchType: matchType, Spinner: sp}
}

// Toggle moves focus to the other button.
func (m *Model) Toggle() {
	m.Focus = 1 - m.Focus
}

// Tick starts the spinner.
func (m Model) Tick() tea.Cmd {
	return m.Spinner.Tick
}

// Update advances the spinner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return m, cmd
}

// View renders the buttons and status line for st.
func (m Model) View(st menu.State) string {
	title := theme.StyleHeader.Render("MULTIPLAYER")
	sub := theme.StyleDimmed.Render("match: " + m.MatchType)

	host := theme.Button("Host", st.HostEnabled, m.Focus == FocusHost)
	join := theme.Button(st.JoinLabel, st.JoinEnabled, m.Focus == FocusJoin)
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, host, "  ", join)

	status := st.Status
	if st.Joining {
		status = m.Spinner.View() + " " + status
	}
	statusStr := lipgloss.NewStyle().Foreground(statusColor(st)).Render(status)

	return lipgloss.JoinVertical(lipgloss.Left, title, sub, "", buttons, "", statusStr)
}

func statusColor(st menu.State) lipgloss.Color {
	switch {
	case st.Status == menu.StatusNoSession:
		return theme.ColorWarning
	case st.Joining:
		return theme.ColorPending
	default:
		return theme.ColorInfo
	}
}
