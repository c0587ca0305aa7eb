// Package menu is the host/join front end over a session orchestrator. It
// owns button state and the server list, reacts to orchestrator
// notifications and hands travel off to a Traveler.
package menu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/agent-racer/multiplayer/internal/delegate"
	"github.com/agent-racer/multiplayer/internal/session"
	"go.uber.org/zap"
)

const (
	// DefaultMaxSearchResults is the find capacity used by the Join button.
	DefaultMaxSearchResults = 10

	LabelJoin   = "Join"
	LabelCancel = "Cancel"

	StatusNoSession = "No session found"
)

// Traveler moves the local player to a map or a remote host.
type Traveler interface {
	// ServerTravel loads url as a listen server.
	ServerTravel(url string)
	// ClientTravel connects to a remote host at address.
	ClientTravel(address string)
}

// Level tags a Message for display.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Message is a user-facing status line, the menu's equivalent of an
// on-screen debug print.
type Message struct {
	Level Level
	Text  string
}

// State is a snapshot of the controls the menu renders.
type State struct {
	HostEnabled bool
	JoinEnabled bool
	JoinLabel   string
	Joining     bool
	Status      string
	Entries     []*Entry
}

// Controller binds the menu to an orchestrator.
type Controller struct {
	orch     *session.Orchestrator
	traveler Traveler
	logger   *zap.Logger

	OnMessage delegate.Multicast[Message]
	// OnChange fires after any state transition.
	OnChange delegate.Multicast[State]

	mu          sync.Mutex
	numConns    int
	matchType   string
	lobbyURL    string
	maxResults  int
	hostEnabled bool
	joinEnabled bool
	joinLabel   string
	joining     bool
	status      string
	entries     []*Entry
	subs        []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMaxSearchResults overrides DefaultMaxSearchResults.
func WithMaxSearchResults(n int) Option {
	return func(c *Controller) { c.maxResults = n }
}

// NewController creates a controller. Call Setup before use.
func NewController(orch *session.Orchestrator, traveler Traveler, opts ...Option) *Controller {
	c := &Controller{
		orch:        orch,
		traveler:    traveler,
		logger:      zap.NewNop(),
		maxResults:  DefaultMaxSearchResults,
		hostEnabled: true,
		joinEnabled: true,
		joinLabel:   LabelJoin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Setup stores the match parameters and subscribes to the orchestrator.
// Calling it again rebinds with the new parameters.
func (c *Controller) Setup(numPublicConnections int, matchType, lobbyPath string) {
	c.Teardown()

	c.mu.Lock()
	c.numConns = numPublicConnections
	c.matchType = matchType
	c.lobbyURL = lobbyPath + "?listen"
	c.mu.Unlock()

	o := c.orch
	create := o.OnCreateSessionComplete.Add(c.onCreate)
	find := o.OnFindSessionsComplete.Add(c.onFind)
	join := o.OnJoinSessionComplete.Add(c.onJoin)
	destroy := o.OnDestroySessionComplete.Add(c.onDestroy)
	start := o.OnStartSessionComplete.Add(c.onStart)

	c.mu.Lock()
	c.subs = []func(){
		func() { o.OnCreateSessionComplete.Remove(create) },
		func() { o.OnFindSessionsComplete.Remove(find) },
		func() { o.OnJoinSessionComplete.Remove(join) },
		func() { o.OnDestroySessionComplete.Remove(destroy) },
		func() { o.OnStartSessionComplete.Remove(start) },
	}
	c.mu.Unlock()

	c.logger.Info("menu setup",
		zap.Int("public_connections", numPublicConnections),
		zap.String("match_type", matchType),
		zap.String("lobby_url", c.lobbyURL))
}

// Teardown unsubscribes from the orchestrator.
func (c *Controller) Teardown() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, unsub := range subs {
		unsub()
	}
}

// LobbyURL returns the travel URL used after a successful host.
func (c *Controller) LobbyURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbyURL
}

// MatchType returns the match type the menu hosts and joins.
func (c *Controller) MatchType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchType
}

// State returns the current control state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		HostEnabled: c.hostEnabled,
		JoinEnabled: c.joinEnabled,
		JoinLabel:   c.joinLabel,
		Joining:     c.joining,
		Status:      c.status,
		Entries:     append([]*Entry(nil), c.entries...),
	}
}

// HostClicked disables both buttons and creates a session.
func (c *Controller) HostClicked() {
	c.mu.Lock()
	if !c.hostEnabled {
		c.mu.Unlock()
		return
	}
	c.hostEnabled = false
	c.joinEnabled = false
	c.status = "Hosting..."
	n, mt := c.numConns, c.matchType
	c.mu.Unlock()
	c.changed()

	if err := c.orch.CreateSession(n, mt); err != nil {
		c.report(LevelWarn, fmt.Sprintf("Host unavailable: %v", err))
		c.mu.Lock()
		c.hostEnabled = true
		c.joinEnabled = true
		c.status = ""
		c.mu.Unlock()
		c.changed()
	}
}

// JoinClicked starts a search, or cancels the current one. Cancelling only
// stops the menu from acting on the result; the search itself still
// completes.
func (c *Controller) JoinClicked() {
	c.mu.Lock()
	if !c.joinEnabled {
		c.mu.Unlock()
		return
	}
	if c.joining {
		c.mu.Unlock()
		c.cancelJoin()
		return
	}
	c.hostEnabled = false
	c.joinLabel = LabelCancel
	c.joining = true
	c.status = "Searching..."
	limit := c.maxResults
	c.mu.Unlock()
	c.changed()

	err := c.orch.FindSessions(limit)
	if errors.Is(err, session.ErrOperationPending) {
		c.report(LevelWarn, "A search is already running")
	}
}

func (c *Controller) cancelJoin() {
	c.mu.Lock()
	c.joining = false
	c.hostEnabled = true
	c.joinEnabled = true
	c.joinLabel = LabelJoin
	c.status = ""
	c.mu.Unlock()
	c.report(LevelError, "Canceled join")
	c.changed()
}

func (c *Controller) resetButtons(status string) {
	c.mu.Lock()
	c.hostEnabled = true
	c.joinEnabled = true
	c.joinLabel = LabelJoin
	c.status = status
	c.mu.Unlock()
}

func (c *Controller) onCreate(ok bool) {
	if !ok {
		c.report(LevelError, "Session Creation Failed")
		c.resetButtons("")
		c.changed()
		return
	}
	c.report(LevelInfo, "Session Created Successfully")
	if err := c.orch.StartSession(); err != nil {
		c.logger.Warn("start not issued", zap.Error(err))
	}
}

func (c *Controller) onFind(res session.FindResult) {
	c.mu.Lock()
	c.entries = c.entries[:0]
	for _, r := range res.Results {
		c.entries = append(c.entries, newEntry(c, r))
	}
	joining, mt := c.joining, c.matchType
	c.mu.Unlock()

	if !joining {
		c.changed()
		return
	}

	if r, _, ok := session.FirstMatch(res.Results, mt); ok {
		c.report(LevelInfo, fmt.Sprintf("Found session %s - %s. Joining!", r.SessionID, r.OwningUserName))
		c.mu.Lock()
		c.status = "Joining " + r.OwningUserName + "..."
		c.mu.Unlock()
		c.changed()
		if err := c.orch.JoinSession(r); err != nil {
			c.logger.Warn("join not issued", zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	c.joining = false
	c.mu.Unlock()
	c.resetButtons(StatusNoSession)
	c.report(LevelWarn, StatusNoSession)
	c.changed()
}

func (c *Controller) onJoin(out session.JoinOutcome) {
	if out == session.JoinSuccess {
		if addr, ok := c.orch.ResolvedConnectString(); ok {
			c.report(LevelInfo, "Travelling to "+addr)
			c.traveler.ClientTravel(addr)
		} else {
			c.report(LevelError, "Could not resolve host address")
		}
	} else {
		c.report(LevelError, "Join failed: "+out.String())
	}

	c.mu.Lock()
	c.joining = false
	c.mu.Unlock()
	if out != session.JoinSuccess {
		c.resetButtons("")
	} else {
		c.mu.Lock()
		c.status = "Joined"
		c.mu.Unlock()
	}
	c.changed()
}

// onDestroy re-enables the buttons unless a recreate or a search is
// still going to report back. A failed destroy drops any deferred create,
// so no create completion will arrive to reset them.
func (c *Controller) onDestroy(ok bool) {
	if ok {
		c.report(LevelInfo, "Session Destroyed Successfully")
	} else {
		c.report(LevelError, "Session Destroy Failed")
	}

	if c.orch.Pending(session.KindCreate) || c.orch.Pending(session.KindJoin) {
		return
	}
	c.mu.Lock()
	joining := c.joining
	c.mu.Unlock()
	if joining {
		return
	}
	c.resetButtons("")
	c.changed()
}

// onStart travels even when the start failed; the listen server still
// comes up.
func (c *Controller) onStart(ok bool) {
	if ok {
		c.report(LevelInfo, "Session Started Successfully")
	} else {
		c.report(LevelError, "Session Start Failed")
	}
	url := c.LobbyURL()
	c.mu.Lock()
	c.status = "Hosting " + url
	c.mu.Unlock()
	c.traveler.ServerTravel(url)
	c.changed()
}

func (c *Controller) report(level Level, text string) {
	switch level {
	case LevelError:
		c.logger.Error(text)
	case LevelWarn:
		c.logger.Warn(text)
	default:
		c.logger.Info(text)
	}
	c.OnMessage.Broadcast(Message{Level: level, Text: text})
}

func (c *Controller) changed() {
	c.OnChange.Broadcast(c.State())
}
