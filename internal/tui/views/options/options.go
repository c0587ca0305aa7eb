// Package options renders the settings panel form.
package options

import (
	"fmt"
	"slices"

	"github.com/agent-racer/multiplayer/internal/settings"
	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Row identifies one editable line of the form.
type Row int

const (
	RowResolution Row = iota
	RowWindowMode
	RowQuality
	RowVolume
	RowSensitivity
	RowSave
	rowCount
)

const (
	labelWidth = 18
	barWidth   = 24

	// SliderStep is how far left/right moves a slider.
	SliderStep = 0.05
)

var styleLabel = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Width(labelWidth)

// Model tracks the cursor and renders the panel.
type Model struct {
	Cursor Row

	volumeBar      progress.Model
	sensitivityBar progress.Model
}

// New creates the form view.
func New() Model {
	return Model{
		volumeBar: progress.New(
			progress.WithSolidFill(string(theme.ColorAccent)),
			progress.WithWidth(barWidth),
		),
		sensitivityBar: progress.New(
			progress.WithSolidFill(string(theme.ColorPending)),
			progress.WithWidth(barWidth),
		),
	}
}

// Up moves the cursor up one row.
func (m *Model) Up() { m.Cursor = (m.Cursor - 1 + rowCount) % rowCount }

// Down moves the cursor down one row.
func (m *Model) Down() { m.Cursor = (m.Cursor + 1) % rowCount }

// Adjust applies a left (-1) or right (+1) step on the current row.
func (m Model) Adjust(p *settings.Panel, dir int) error {
	switch m.Cursor {
	case RowResolution:
		opts := p.ResolutionOptions()
		i := slices.Index(opts, p.SelectedResolution())
		p.SelectResolution(opts[(max(i, 0)+dir+len(opts))%len(opts)])
	case RowWindowMode:
		n := len(settings.WindowModes)
		p.SelectWindowMode((p.WindowModeIndex() + dir + n) % n)
	case RowQuality:
		return p.SetQuality(p.Applied().Quality + dir)
	case RowVolume:
		p.SetVolume(p.Volume() + float64(dir)*SliderStep)
	case RowSensitivity:
		p.SetSensitivity(p.Sensitivity() + float64(dir)*SliderStep)
	}
	return nil
}

// View renders the form for p.
func (m Model) View(p *settings.Panel) string {
	applied := p.Applied()

	quality := lipgloss.NewStyle().Foreground(theme.QualityColor(applied.Quality)).Bold(true).
		Render(settings.QualityNames[applied.Quality])

	rows := []string{
		m.row(RowResolution, "Resolution", "‹ "+p.SelectedResolution()+" ›"),
		m.row(RowWindowMode, "Window mode", "‹ "+settings.WindowModeFromIndex(p.WindowModeIndex()).Label()+" ›"),
		m.row(RowQuality, "Quality", "‹ "+quality+" ›"),
		m.row(RowVolume, "Master volume", m.volumeBar.ViewAs(p.Volume())),
		m.row(RowSensitivity, "Mouse sensitivity", m.sensitivityBar.ViewAs(p.Sensitivity())),
		"",
		theme.Button("Save", true, m.Cursor == RowSave),
	}

	header := theme.StyleHeader.Render("SETTINGS")
	version := theme.StyleDimmed.Render(fmt.Sprintf("version %d", applied.GameVersion))
	help := theme.StyleDimmed.Render("j/k:row  h/l:change  enter:save  quality applies immediately")

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.JoinVertical(lipgloss.Left, header, version, "", body, "", help)
}

func (m Model) row(r Row, label, value string) string {
	prefix := "  "
	if m.Cursor == r {
		prefix = "> "
	}
	return prefix + styleLabel.Render(label) + value
}
