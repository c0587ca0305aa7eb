package null

import (
	"maps"
	"sort"
	"sync"

	"github.com/agent-racer/multiplayer/internal/session"
)

// LAN is the in-process broadcast domain shared by providers. Sessions
// advertised by one provider are visible to every other provider on the
// same LAN.
type LAN struct {
	mu      sync.RWMutex
	entries map[string]*advert
}

type advert struct {
	host    *Provider
	id      string
	owner   string
	address string
	ping    int
	cfg     session.Config
	started bool
	members map[session.UserID]bool
}

// NewLAN creates an empty LAN.
func NewLAN() *LAN {
	return &LAN{entries: make(map[string]*advert)}
}

func (l *LAN) advertise(a *advert) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[a.id] = a
}

func (l *LAN) withdraw(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

func (l *LAN) markStarted(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.entries[id]; ok {
		a.started = true
	}
}

// search returns sessions visible to searcher matching q, nearest first.
func (l *LAN) search(searcher *Provider, q *session.SearchQuery) []session.SearchResult {
	l.mu.RLock()
	var found []*advert
	for _, a := range l.entries {
		if a.host == searcher {
			continue
		}
		if a.cfg.BuildUniqueID != q.BuildUniqueID {
			continue
		}
		if a.cfg.IsLANMatch != q.IsLANQuery {
			continue
		}
		if q.PresenceFilter && !a.cfg.UsesPresence {
			continue
		}
		if a.started && !a.cfg.AllowJoinInProgress {
			continue
		}
		found = append(found, a)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].ping != found[j].ping {
			return found[i].ping < found[j].ping
		}
		return found[i].id < found[j].id
	})
	if len(found) > q.MaxResults {
		found = found[:q.MaxResults]
	}

	results := make([]session.SearchResult, 0, len(found))
	for _, a := range found {
		results = append(results, session.SearchResult{
			SessionID:             a.id,
			OwningUserName:        a.owner,
			Settings:              maps.Clone(a.cfg.Settings),
			OpenPublicConnections: a.cfg.NumPublicConnections - len(a.members),
			PingMs:                a.ping,
		})
	}
	l.mu.RUnlock()
	return results
}

// admit adds user to the session id, returning the host address on success.
func (l *LAN) admit(id string, user session.UserID) (string, session.JoinOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.entries[id]
	if !ok {
		return "", session.JoinSessionDoesNotExist
	}
	if a.members[user] {
		return "", session.JoinAlreadyInSession
	}
	if len(a.members) >= a.cfg.NumPublicConnections {
		return "", session.JoinSessionIsFull
	}
	if a.address == "" {
		return "", session.JoinCouldNotRetrieveAddress
	}
	a.members[user] = true
	return a.address, session.JoinSuccess
}

func (l *LAN) leave(id string, user session.UserID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.entries[id]; ok {
		delete(a.members, user)
	}
}

// Count returns the number of advertised sessions.
func (l *LAN) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
