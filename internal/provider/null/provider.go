// Package null implements the LAN session backend ("NULL" subsystem). All
// sessions live in an in-process LAN registry and completions are delivered
// when the owner pumps the provider with Flush, one event-loop turn at a time.
package null

import (
	"maps"
	"sync"

	"github.com/agent-racer/multiplayer/internal/session"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"
)

const (
	defaultAddress = "127.0.0.1:7777"
	defaultOwner   = "Player"
)

// Provider is one client's view of the LAN.
type Provider struct {
	lan     *LAN
	owner   string
	address string
	ping    int
	logger  *zap.Logger

	mu         sync.Mutex
	sessions   map[string]*local
	handlers   map[session.Handle]handler
	nextHandle session.Handle
	queue      []func()
	failNext   map[session.Kind]bool
}

type handler struct {
	kind session.Kind
	fn   func(session.Completion)
}

// local is a named session registered on this client, hosted or joined.
type local struct {
	named   session.NamedSession
	hosting bool
	user    session.UserID
	connect string
}

// Option configures a Provider.
type Option func(*Provider)

// WithOwner sets the display name advertised for hosted sessions.
func WithOwner(name string) Option {
	return func(p *Provider) { p.owner = name }
}

// WithAddress sets the address joining clients travel to.
func WithAddress(addr string) Option {
	return func(p *Provider) { p.address = addr }
}

// WithPing sets the latency other clients see for this host.
func WithPing(ms int) Option {
	return func(p *Provider) { p.ping = ms }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New creates a provider attached to lan.
func New(lan *LAN, opts ...Option) *Provider {
	p := &Provider{
		lan:      lan,
		address:  defaultAddress,
		logger:   zap.NewNop(),
		sessions: make(map[string]*local),
		handlers: make(map[session.Handle]handler),
		failNext: make(map[session.Kind]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.owner == "" {
		p.owner = DefaultOwnerName()
	}
	return p
}

// DefaultOwnerName returns the machine's host name, or "Player".
func DefaultOwnerName() string {
	info, err := host.Info()
	if err != nil || info.Hostname == "" {
		return defaultOwner
	}
	return info.Hostname
}

// SubsystemName implements session.Provider.
func (p *Provider) SubsystemName() string { return session.LANSubsystemName }

// Owner returns the advertised display name.
func (p *Provider) Owner() string { return p.owner }

// SetFailNext makes the next completion of kind report failure.
func (p *Provider) SetFailNext(kind session.Kind) {
	p.mu.Lock()
	p.failNext[kind] = true
	p.mu.Unlock()
}

// CreateSession registers and advertises a hosted session.
func (p *Provider) CreateSession(user session.UserID, name string, cfg session.Config) bool {
	if cfg.NumPublicConnections < 1 {
		return false
	}
	p.mu.Lock()
	if _, exists := p.sessions[name]; exists {
		p.mu.Unlock()
		p.logger.Warn("session already exists", zap.String("session", name))
		return false
	}
	cfg.Settings = maps.Clone(cfg.Settings)
	ls := &local{
		named:   session.NamedSession{Name: name, SessionID: uuid.NewString(), Config: cfg},
		hosting: true,
		user:    user,
		connect: p.address,
	}
	p.sessions[name] = ls
	p.mu.Unlock()

	p.enqueue(func() {
		if p.takeFail(session.KindCreate) {
			p.mu.Lock()
			delete(p.sessions, name)
			p.mu.Unlock()
			p.dispatch(session.Completion{Kind: session.KindCreate, SessionName: name})
			return
		}
		if cfg.ShouldAdvertise {
			p.lan.advertise(&advert{
				host:    p,
				id:      ls.named.SessionID,
				owner:   p.owner,
				address: p.address,
				ping:    p.ping,
				cfg:     cfg,
				members: make(map[session.UserID]bool),
			})
		}
		p.logger.Debug("hosted session",
			zap.String("session", name), zap.String("session_id", ls.named.SessionID))
		p.dispatch(session.Completion{Kind: session.KindCreate, SessionName: name, Success: true})
	})
	return true
}

// FindSessions fills q.Results from the LAN on the next turn.
func (p *Provider) FindSessions(user session.UserID, q *session.SearchQuery) bool {
	if q == nil || q.MaxResults < 1 {
		return false
	}
	p.enqueue(func() {
		if p.takeFail(session.KindFind) {
			p.dispatch(session.Completion{Kind: session.KindFind})
			return
		}
		q.Results = p.lan.search(p, q)
		p.dispatch(session.Completion{Kind: session.KindFind, Success: true})
	})
	return true
}

// JoinSession admits the local user into the advertised session.
func (p *Provider) JoinSession(user session.UserID, name string, result session.SearchResult) bool {
	if result.SessionID == "" {
		return false
	}
	p.enqueue(func() {
		if p.takeFail(session.KindJoin) {
			p.dispatch(session.Completion{Kind: session.KindJoin, SessionName: name, Outcome: session.JoinUnknownError})
			return
		}
		p.mu.Lock()
		_, exists := p.sessions[name]
		p.mu.Unlock()
		if exists {
			p.dispatch(session.Completion{Kind: session.KindJoin, SessionName: name, Outcome: session.JoinAlreadyInSession})
			return
		}

		addr, outcome := p.lan.admit(result.SessionID, user)
		if outcome == session.JoinSuccess {
			p.mu.Lock()
			p.sessions[name] = &local{
				named:   session.NamedSession{Name: name, SessionID: result.SessionID},
				user:    user,
				connect: addr,
			}
			p.mu.Unlock()
		}
		p.dispatch(session.Completion{Kind: session.KindJoin, SessionName: name, Outcome: outcome})
	})
	return true
}

// DestroySession unregisters the named session, withdrawing it from the LAN
// if hosted.
func (p *Provider) DestroySession(name string) bool {
	p.mu.Lock()
	_, exists := p.sessions[name]
	p.mu.Unlock()
	if !exists {
		return false
	}
	p.enqueue(func() {
		if p.takeFail(session.KindDestroy) {
			p.dispatch(session.Completion{Kind: session.KindDestroy, SessionName: name})
			return
		}
		p.mu.Lock()
		ls, ok := p.sessions[name]
		delete(p.sessions, name)
		p.mu.Unlock()
		if ok {
			if ls.hosting {
				p.lan.withdraw(ls.named.SessionID)
			} else {
				p.lan.leave(ls.named.SessionID, ls.user)
			}
		}
		p.dispatch(session.Completion{Kind: session.KindDestroy, SessionName: name, Success: ok})
	})
	return true
}

// StartSession marks the named session as in progress.
func (p *Provider) StartSession(name string) bool {
	p.mu.Lock()
	_, exists := p.sessions[name]
	p.mu.Unlock()
	if !exists {
		return false
	}
	p.enqueue(func() {
		if p.takeFail(session.KindStart) {
			p.dispatch(session.Completion{Kind: session.KindStart, SessionName: name})
			return
		}
		p.mu.Lock()
		ls, ok := p.sessions[name]
		if ok {
			ls.named.Started = true
		}
		p.mu.Unlock()
		if ok && ls.hosting {
			p.lan.markStarted(ls.named.SessionID)
		}
		p.dispatch(session.Completion{Kind: session.KindStart, SessionName: name, Success: ok})
	})
	return true
}

// NamedSession implements session.Provider.
func (p *Provider) NamedSession(name string) (session.NamedSession, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ls, ok := p.sessions[name]
	if !ok {
		return session.NamedSession{}, false
	}
	return ls.named, true
}

// ResolvedConnectString implements session.Provider.
func (p *Provider) ResolvedConnectString(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ls, ok := p.sessions[name]
	if !ok || ls.connect == "" {
		return "", false
	}
	return ls.connect, true
}

// AddCompletionHandler implements session.Provider.
func (p *Provider) AddCompletionHandler(kind session.Kind, fn func(session.Completion)) session.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextHandle++
	p.handlers[p.nextHandle] = handler{kind: kind, fn: fn}
	return p.nextHandle
}

// ClearCompletionHandler implements session.Provider.
func (p *Provider) ClearCompletionHandler(kind session.Kind, h session.Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if hd, ok := p.handlers[h]; ok && hd.kind == kind {
		delete(p.handlers, h)
	}
}

// Handlers returns the number of registered completion handlers.
func (p *Provider) Handlers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// Queued returns the number of completions waiting for Flush.
func (p *Provider) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Flush delivers every completion queued before the call. Completions
// queued by handlers during the flush wait for the next one. It returns the
// number delivered.
func (p *Provider) Flush() int {
	p.mu.Lock()
	batch := p.queue
	p.queue = nil
	p.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

func (p *Provider) enqueue(fn func()) {
	p.mu.Lock()
	p.queue = append(p.queue, fn)
	p.mu.Unlock()
}

func (p *Provider) takeFail(kind session.Kind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext[kind] {
		delete(p.failNext, kind)
		return true
	}
	return false
}

// dispatch invokes a snapshot of the handlers registered for c.Kind.
func (p *Provider) dispatch(c session.Completion) {
	p.mu.Lock()
	var fns []func(session.Completion)
	for h := session.Handle(1); h <= p.nextHandle; h++ {
		if hd, ok := p.handlers[h]; ok && hd.kind == c.Kind {
			fns = append(fns, hd.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
