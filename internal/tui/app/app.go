package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/agent-racer/multiplayer/internal/menu"
	"github.com/agent-racer/multiplayer/internal/session"
	"github.com/agent-racer/multiplayer/internal/settings"
	"github.com/agent-racer/multiplayer/internal/tui/theme"
	"github.com/agent-racer/multiplayer/internal/tui/views/debug"
	"github.com/agent-racer/multiplayer/internal/tui/views/help"
	"github.com/agent-racer/multiplayer/internal/tui/views/mainmenu"
	"github.com/agent-racer/multiplayer/internal/tui/views/options"
	"github.com/agent-racer/multiplayer/internal/tui/views/servers"
	"github.com/agent-racer/multiplayer/internal/tui/views/status"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PumpInterval is how often queued provider completions are delivered.
const PumpInterval = 50 * time.Millisecond

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
	OverlayHelp
)

// Screen identifies the main panel.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenServers
	ScreenSettings
	screenCount
)

var screenNames = []string{"Menu", "Servers", "Settings"}

// Pump delivers queued provider completions on the caller's goroutine.
type Pump interface {
	Flush() int
}

// Deps are the components the TUI drives.
type Deps struct {
	Orch      *session.Orchestrator
	Menu      *menu.Controller
	Panel     *settings.Panel
	Pump      Pump
	Travel    *Travel
	Subsystem string
	Owner     string
	Feed      string
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(PumpInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root Bubble Tea model. Provider completions are flushed from
// Update, so every notification handler runs on the UI goroutine.
type Model struct {
	deps Deps

	keys   KeyMap
	width  int
	height int

	screen  Screen
	overlay Overlay

	statusBar status.Model
	mainMenu  mainmenu.Model
	servers   servers.Model
	options   options.Model
	help      *help.Model
	log       *debug.Model
}

// New creates the root model and subscribes its event log.
func New(d Deps) Model {
	m := Model{
		deps:      d,
		keys:      DefaultKeyMap(),
		statusBar: status.New(d.Subsystem, d.Owner),
		mainMenu:  mainmenu.New(d.Menu.MatchType()),
		options:   options.New(),
		help:      &help.Model{},
		log:       debug.New(),
	}
	m.statusBar.Feed = d.Feed
	m.subscribe()
	return m
}

func (m Model) subscribe() {
	log := m.log
	d := m.deps
	d.Menu.OnMessage.Add(func(msg menu.Message) {
		log.Add(levelKind(msg.Level), msg.Text)
	})
	d.Orch.OnFindSessionsComplete.Add(func(r session.FindResult) {
		log.Add("sess", fmt.Sprintf("find: %d results, success=%v", len(r.Results), r.Success))
	})
	d.Orch.OnJoinSessionComplete.Add(func(o session.JoinOutcome) {
		log.Add("sess", "join: "+o.String())
	})
	d.Orch.OnDestroySessionComplete.Add(func(ok bool) {
		if ok && d.Travel != nil {
			d.Travel.Reset()
		}
	})
	d.Panel.OnApply.Add(func(s settings.Settings) {
		log.Add("info", fmt.Sprintf("applied %s %s %s", s.Resolution, s.WindowMode.Label(), settings.QualityNames[s.Quality]))
	})
}

func levelKind(l menu.Level) string {
	switch l {
	case menu.LevelError:
		return "err"
	case menu.LevelWarn:
		return "warn"
	default:
		return "info"
	}
}

// Log returns the event log.
func (m Model) Log() *debug.Model { return m.log }

// Init starts the provider pump and the menu spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.mainMenu.Tick())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		return m, nil

	case tickMsg:
		m.pump()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.mainMenu, cmd = m.mainMenu.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) pump() {
	if m.deps.Pump != nil {
		m.deps.Pump.Flush()
	}
	m.statusBar.Pending = m.statusBar.Pending[:0]
	for _, k := range session.Kinds {
		if m.deps.Orch.Pending(k) {
			m.statusBar.Pending = append(m.statusBar.Pending, k.String())
		}
	}
	if m.deps.Travel != nil {
		m.statusBar.Location = m.deps.Travel.Location()
	}
	m.servers.Clamp(len(m.deps.Menu.State().Entries))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Up):
			m.log.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Down):
			m.log.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Tab):
		m.screen = (m.screen + 1) % screenCount
		return m, nil

	case key.Matches(msg, m.keys.Menu):
		m.screen = ScreenMenu
		return m, nil

	case key.Matches(msg, m.keys.Servers):
		m.screen = ScreenServers
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.screen = ScreenSettings
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Destroy):
		if err := m.deps.Orch.DestroySession(); err != nil {
			m.log.Add("warn", "destroy: "+err.Error())
		}
		return m, nil
	}

	switch m.screen {
	case ScreenMenu:
		m.handleMenuKey(msg)
	case ScreenServers:
		m.handleServersKey(msg)
	case ScreenSettings:
		m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down),
		key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		m.mainMenu.Toggle()
	case key.Matches(msg, m.keys.Enter):
		if m.mainMenu.Focus == mainmenu.FocusHost {
			m.deps.Menu.HostClicked()
		} else {
			m.deps.Menu.JoinClicked()
		}
	}
}

func (m *Model) handleServersKey(msg tea.KeyMsg) {
	entries := m.deps.Menu.State().Entries
	switch {
	case key.Matches(msg, m.keys.Up):
		m.servers.Prev(len(entries))
	case key.Matches(msg, m.keys.Down):
		m.servers.Next(len(entries))
	case key.Matches(msg, m.keys.Enter):
		if m.servers.Selected < len(entries) {
			if err := entries[m.servers.Selected].Join(); err != nil {
				m.log.Add("warn", "join: "+err.Error())
			}
		}
	}
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Up):
		m.options.Up()
	case key.Matches(msg, m.keys.Down):
		m.options.Down()
	case key.Matches(msg, m.keys.Left):
		err = m.options.Adjust(m.deps.Panel, -1)
	case key.Matches(msg, m.keys.Right):
		err = m.options.Adjust(m.deps.Panel, 1)
	case key.Matches(msg, m.keys.Enter):
		if m.options.Cursor == options.RowSave {
			err = m.deps.Panel.Save()
		}
	}
	if err != nil {
		m.log.Add("err", err.Error())
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.deps.Menu.Teardown()
	m.deps.Orch.Shutdown()
	return m, tea.Quit
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	switch m.overlay {
	case OverlayDebug:
		body = m.log.View(m.width, m.height-4)
	case OverlayHelp:
		body = m.help.View(m.width)
	default:
		body = m.renderScreen()
	}

	sections := []string{
		m.statusBar.View(),
		m.renderTabs(),
		"",
		body,
		"",
		theme.StyleDimmed.Render("  tab:screen  j/k:move  enter:press  x:destroy  d:log  ?:help  q:quit"),
	}
	if e, ok := m.log.Last(); ok && m.overlay == OverlayNone {
		line := lipgloss.NewStyle().Foreground(debug.KindColor(e.Kind)).Render("  " + e.Message)
		sections = slices.Insert(sections, 5, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderScreen() string {
	switch m.screen {
	case ScreenServers:
		return m.servers.View(m.deps.Menu.State().Entries)
	case ScreenSettings:
		return m.options.View(m.deps.Panel)
	default:
		return m.mainMenu.View(m.deps.Menu.State())
	}
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range screenNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if Screen(i) == m.screen {
			tabs = append(tabs, theme.StyleSelected.Underline(true).Render(label))
		} else {
			tabs = append(tabs, theme.StyleDimmed.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
