package menu

import (
	"fmt"
	"sync"

	"github.com/agent-racer/multiplayer/internal/session"
)

// Entry is one row of the server list.
type Entry struct {
	ctrl   *Controller
	result session.SearchResult

	mu      sync.Mutex
	enabled bool
}

func newEntry(c *Controller, r session.SearchResult) *Entry {
	return &Entry{ctrl: c, result: r, enabled: true}
}

func (e *Entry) ID() string        { return e.result.SessionID }
func (e *Entry) Owner() string     { return e.result.OwningUserName }
func (e *Entry) MatchType() string { return e.result.MatchType() }
func (e *Entry) OpenSlots() int    { return e.result.OpenPublicConnections }
func (e *Entry) PingMs() int       { return e.result.PingMs }

// Result returns the search result behind the row.
func (e *Entry) Result() session.SearchResult { return e.result }

// Enabled reports whether the row's join button can be pressed.
func (e *Entry) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Join disables the row and joins its session, bypassing match type
// filtering.
func (e *Entry) Join() error {
	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return nil
	}
	e.enabled = false
	e.mu.Unlock()

	e.ctrl.report(LevelInfo, fmt.Sprintf("Joining %s - %s", e.ID(), e.Owner()))
	if err := e.ctrl.orch.JoinSession(e.result); err != nil {
		e.mu.Lock()
		e.enabled = true
		e.mu.Unlock()
		return err
	}
	return nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%s) %d open, %dms", e.Owner(), e.MatchType(), e.OpenSlots(), e.PingMs())
}
