package app

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/agent-racer/multiplayer/internal/menu"
	"github.com/agent-racer/multiplayer/internal/provider/null"
	"github.com/agent-racer/multiplayer/internal/session"
	"github.com/agent-racer/multiplayer/internal/settings"
	"github.com/agent-racer/multiplayer/internal/tui/views/options"
	tea "github.com/charmbracelet/bubbletea"
)

type stack struct {
	lan      *null.LAN
	provider *null.Provider
	orch     *session.Orchestrator
	ctrl     *menu.Controller
	panel    *settings.Panel
	travel   *Travel
}

func newStack(t *testing.T) (Model, *stack) {
	t.Helper()
	s := &stack{lan: null.NewLAN()}
	s.provider = null.New(s.lan, null.WithOwner("me"), null.WithAddress("10.0.0.1:7777"))
	s.orch = session.New(s.provider)
	s.travel = NewTravel(nil)
	s.ctrl = menu.NewController(s.orch, s.travel)
	s.ctrl.Setup(4, "coop", "/Game/Maps/Lobby")
	panel, err := settings.NewPanel(settings.NewStore(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	s.panel = panel

	m := New(Deps{
		Orch:      s.orch,
		Menu:      s.ctrl,
		Panel:     s.panel,
		Pump:      s.provider,
		Travel:    s.travel,
		Subsystem: s.provider.SubsystemName(),
		Owner:     "me",
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pumpTicks(t *testing.T, m Model, n int) Model {
	t.Helper()
	for range n {
		m = update(t, m, tickMsg(time.Now()))
	}
	return m
}

func TestViewBeforeSize(t *testing.T) {
	_, s := newStack(t)
	m := New(Deps{Orch: s.orch, Menu: s.ctrl, Panel: s.panel})
	if m.View() != "Initializing..." {
		t.Errorf("View() = %q", m.View())
	}
}

func TestMenuViewShowsButtons(t *testing.T) {
	m, _ := newStack(t)
	v := m.View()
	for _, want := range []string{"Host", "Join", "LAN", "match: coop"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHostFlowThroughPump(t *testing.T) {
	m, s := newStack(t)

	m = update(t, m, keyMsg("enter")) // Host has focus
	if s.ctrl.State().HostEnabled {
		t.Fatal("host still enabled after enter")
	}

	m = pumpTicks(t, m, 2)

	if got := s.travel.Location(); got != "hosting /Game/Maps/Lobby?listen" {
		t.Errorf("Location() = %q", got)
	}
	if !s.travel.Hosting() {
		t.Error("Hosting() = false")
	}
	if !strings.Contains(m.View(), "hosting /Game/Maps/Lobby?listen") {
		t.Error("status bar missing location")
	}

	var sawCreated bool
	for _, e := range m.Log().Entries {
		if e.Message == "Session Created Successfully" {
			sawCreated = true
		}
	}
	if !sawCreated {
		t.Errorf("log = %+v", m.Log().Entries)
	}

	m = update(t, m, keyMsg("x"))
	m = pumpTicks(t, m, 1)
	if s.travel.Location() != "" {
		t.Errorf("Location() after destroy = %q", s.travel.Location())
	}
	if _, ok := s.provider.NamedSession(session.GameSessionName); ok {
		t.Error("session still registered after destroy")
	}
	if st := s.ctrl.State(); !st.HostEnabled || !st.JoinEnabled {
		t.Errorf("buttons after destroy = %+v", st)
	}
}

func TestJoinFlowUsesServerList(t *testing.T) {
	m, s := newStack(t)
	null.SeedLobbies(s.lan, 2, "ffa", 4) // bot-1 ffa, bot-2 ffa

	m = update(t, m, keyMsg("l"))     // focus Join
	m = update(t, m, keyMsg("enter")) // search
	m = pumpTicks(t, m, 1)

	st := s.ctrl.State()
	if len(st.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(st.Entries))
	}
	if st.Status != menu.StatusNoSession {
		t.Errorf("Status = %q, want no session (match type differs)", st.Status)
	}

	m = update(t, m, keyMsg("2"))
	if !strings.Contains(m.View(), "bot-1") {
		t.Error("server list missing bot-1")
	}
	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("enter"))
	m = pumpTicks(t, m, 1)

	if got := s.travel.Location(); got != "connected to 10.0.0.3:7777" {
		t.Errorf("Location() = %q, want bot-2's address", got)
	}
}

func TestSettingsQualityAppliesImmediately(t *testing.T) {
	m, s := newStack(t)
	before := s.panel.Applied().Quality

	m = update(t, m, keyMsg("3"))
	for m.options.Cursor != options.RowQuality {
		m = update(t, m, keyMsg("j"))
	}
	m = update(t, m, keyMsg("h"))

	if got := s.panel.Applied().Quality; got != before-1 {
		t.Errorf("Quality = %d, want %d", got, before-1)
	}
	if !strings.Contains(m.View(), "SETTINGS") {
		t.Error("settings view not shown")
	}
}

func TestSettingsSave(t *testing.T) {
	m, s := newStack(t)
	m = update(t, m, keyMsg("3"))
	for m.options.Cursor != options.RowVolume {
		m = update(t, m, keyMsg("j"))
	}
	m = update(t, m, keyMsg("h"))
	m = update(t, m, keyMsg("h"))
	for m.options.Cursor != options.RowSave {
		m = update(t, m, keyMsg("j"))
	}
	m = update(t, m, keyMsg("enter"))

	if got := s.panel.Applied().MasterVolume; got > 0.91 || got < 0.89 {
		t.Errorf("MasterVolume = %v, want 0.9", got)
	}
}

func TestOverlays(t *testing.T) {
	m, _ := newStack(t)

	m = update(t, m, keyMsg("d"))
	if m.overlay != OverlayDebug || !strings.Contains(m.View(), "EVENT LOG") {
		t.Error("debug overlay not shown")
	}
	m = update(t, m, keyMsg("esc"))
	if m.overlay != OverlayNone {
		t.Error("esc did not close overlay")
	}

	m = update(t, m, keyMsg("?"))
	if m.overlay != OverlayHelp {
		t.Fatal("help overlay not shown")
	}
	if !strings.Contains(m.View(), "Host") {
		t.Error("help overlay missing content")
	}
}

func TestTabCyclesScreens(t *testing.T) {
	m, _ := newStack(t)
	for _, want := range []Screen{ScreenServers, ScreenSettings, ScreenMenu} {
		m = update(t, m, keyMsg("tab"))
		if m.screen != want {
			t.Errorf("screen = %d, want %d", m.screen, want)
		}
	}
}

func TestQuitShutsDown(t *testing.T) {
	m, s := newStack(t)
	m = update(t, m, keyMsg("enter"))
	if !s.orch.Pending(session.KindCreate) {
		t.Fatal("create not pending")
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command is not tea.Quit")
	}
	if s.orch.Pending(session.KindCreate) {
		t.Error("Shutdown left create pending")
	}
	if s.provider.Handlers() != 0 {
		t.Errorf("provider handlers after quit = %d", s.provider.Handlers())
	}
}

func TestServerListTruncatesLongOwner(t *testing.T) {
	m, s := newStack(t)
	owner := strings.Repeat("Ø", 30)
	bot := null.New(s.lan, null.WithOwner(owner))
	cfg := session.Config{
		NumPublicConnections: 4,
		IsLANMatch:           true,
		ShouldAdvertise:      true,
		UsesPresence:         true,
		BuildUniqueID:        session.BuildID,
		Settings:             map[string]string{session.SettingMatchType: "ffa"},
	}
	if !bot.CreateSession(session.UserID(owner), session.GameSessionName, cfg) {
		t.Fatal("bot create rejected")
	}
	bot.Flush()

	m = update(t, m, keyMsg("l"))
	m = update(t, m, keyMsg("enter"))
	m = pumpTicks(t, m, 1)
	m = update(t, m, keyMsg("2"))

	v := m.View()
	if !utf8.ValidString(v) {
		t.Fatal("server list contains a split rune")
	}
	if !strings.Contains(v, strings.Repeat("Ø", 17)+"...") {
		t.Errorf("owner not truncated to the column:\n%s", v)
	}
}
