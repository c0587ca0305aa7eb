// Package session drives the provider's asynchronous session API: it issues
// create/find/join/destroy/start, keeps at most one operation of each kind
// in flight, re-sequences a create behind the destroy of an existing session
// and republishes every result through multi-subscriber notifications.
package session

import (
	"errors"
	"slices"
	"sync"

	"github.com/agent-racer/multiplayer/internal/delegate"
	"go.uber.org/zap"
)

// ErrOperationPending is returned when an operation of the same kind is
// still outstanding. Nothing is issued and the outstanding registration is
// left untouched.
var ErrOperationPending = errors.New("session: operation already pending")

// Orchestrator owns all in-flight bookkeeping for one local player.
type Orchestrator struct {
	provider Provider
	logger   *zap.Logger
	user     UserID

	OnCreateSessionComplete  delegate.Multicast[bool]
	OnFindSessionsComplete   delegate.Multicast[FindResult]
	OnJoinSessionComplete    delegate.Multicast[JoinOutcome]
	OnDestroySessionComplete delegate.Multicast[bool]
	OnStartSessionComplete   delegate.Multicast[bool]

	mu         sync.Mutex
	pending    map[Kind]*registration
	intent     *Intent
	lastConfig *Config
}

// registration is the scoped ownership of one provider completion handle.
type registration struct {
	kind     Kind
	handle   Handle
	released bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithLocalUser sets the user id passed to provider calls that need one.
func WithLocalUser(id UserID) Option {
	return func(o *Orchestrator) { o.user = id }
}

// New creates an orchestrator over p. A nil p is allowed and makes every
// operation fail immediately.
func New(p Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: p,
		logger:   zap.NewNop(),
		user:     "local",
		pending:  make(map[Kind]*registration),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateSession hosts a new session. If one already exists under
// GameSessionName it is destroyed first and the create is reissued from
// the destroy completion.
func (o *Orchestrator) CreateSession(numPublicConnections int, matchType string) error {
	if o.provider == nil {
		o.unavailable(KindCreate)
		o.OnCreateSessionComplete.Broadcast(false)
		return nil
	}
	if numPublicConnections < 1 {
		o.logger.Warn("rejecting create with no public connections",
			zap.Int("public_connections", numPublicConnections))
		o.OnCreateSessionComplete.Broadcast(false)
		return nil
	}

	o.mu.Lock()
	busy := o.pending[KindCreate] != nil || o.intent != nil
	o.mu.Unlock()
	if busy {
		return ErrOperationPending
	}

	if _, exists := o.provider.NamedSession(GameSessionName); exists {
		o.mu.Lock()
		if o.pending[KindDestroy] != nil {
			o.mu.Unlock()
			return ErrOperationPending
		}
		o.intent = &Intent{NumPublicConnections: numPublicConnections, MatchType: matchType}
		o.mu.Unlock()

		o.logger.Info("session exists, destroying before create",
			zap.String("session", GameSessionName),
			zap.Int("public_connections", numPublicConnections),
			zap.String("match_type", matchType))
		if err := o.destroy(); err != nil {
			o.takeIntent()
			return err
		}
		return nil
	}

	cfg := newConfig(numPublicConnections, matchType, o.provider.SubsystemName() == LANSubsystemName)
	return o.issue(KindCreate,
		func() bool {
			o.mu.Lock()
			o.lastConfig = &cfg
			o.mu.Unlock()
			return o.provider.CreateSession(o.user, GameSessionName, cfg)
		},
		func(c Completion) {
			if c.Success {
				o.logger.Info("created session", zap.String("session", c.SessionName))
			} else {
				o.logger.Warn("session creation failed", zap.String("session", c.SessionName))
			}
			o.OnCreateSessionComplete.Broadcast(c.Success)
		},
		func() {
			o.logger.Warn("provider rejected create", zap.String("session", GameSessionName))
			o.OnCreateSessionComplete.Broadcast(false)
		},
	)
}

// FindSessions searches for up to maxResults advertised sessions. Zero
// results are reported exactly like a failed search.
func (o *Orchestrator) FindSessions(maxResults int) error {
	if o.provider == nil {
		o.unavailable(KindFind)
		o.OnFindSessionsComplete.Broadcast(FindResult{})
		return nil
	}
	if maxResults < 1 {
		o.logger.Warn("rejecting find with no result capacity", zap.Int("max_results", maxResults))
		o.OnFindSessionsComplete.Broadcast(FindResult{})
		return nil
	}

	q := &SearchQuery{
		MaxResults:     maxResults,
		IsLANQuery:     o.provider.SubsystemName() == LANSubsystemName,
		PresenceFilter: true,
		BuildUniqueID:  BuildID,
	}
	return o.issue(KindFind,
		func() bool { return o.provider.FindSessions(o.user, q) },
		func(c Completion) {
			if !c.Success || len(q.Results) == 0 {
				o.logger.Info("find sessions returned nothing",
					zap.Bool("success", c.Success), zap.Int("results", len(q.Results)))
				o.OnFindSessionsComplete.Broadcast(FindResult{})
				return
			}
			o.logger.Info("found sessions", zap.Int("results", len(q.Results)))
			o.OnFindSessionsComplete.Broadcast(FindResult{Results: slices.Clone(q.Results), Success: true})
		},
		func() {
			o.logger.Warn("provider rejected find")
			o.OnFindSessionsComplete.Broadcast(FindResult{})
		},
	)
}

// JoinSession joins the session described by result. The outcome reported
// by the provider is republished unchanged.
func (o *Orchestrator) JoinSession(result SearchResult) error {
	if o.provider == nil {
		o.unavailable(KindJoin)
		o.OnJoinSessionComplete.Broadcast(JoinUnknownError)
		return nil
	}
	return o.issue(KindJoin,
		func() bool { return o.provider.JoinSession(o.user, GameSessionName, result) },
		func(c Completion) {
			o.logger.Info("join session complete",
				zap.String("session_id", result.SessionID), zap.Stringer("outcome", c.Outcome))
			o.OnJoinSessionComplete.Broadcast(c.Outcome)
		},
		func() {
			o.logger.Warn("failed to join session", zap.String("session_id", result.SessionID))
			o.OnJoinSessionComplete.Broadcast(JoinUnknownError)
		},
	)
}

// DestroySession destroys the session registered under GameSessionName.
func (o *Orchestrator) DestroySession() error {
	if o.provider == nil {
		o.unavailable(KindDestroy)
		o.OnDestroySessionComplete.Broadcast(false)
		return nil
	}
	return o.destroy()
}

func (o *Orchestrator) destroy() error {
	return o.issue(KindDestroy,
		func() bool { return o.provider.DestroySession(GameSessionName) },
		func(c Completion) {
			intent := o.takeIntent()
			switch {
			case intent != nil && c.Success:
				// Recreate before announcing the destroy so no subscriber
				// observes a gap with no session and no create underway.
				o.logger.Info("destroyed session, recreating",
					zap.Int("public_connections", intent.NumPublicConnections),
					zap.String("match_type", intent.MatchType))
				if err := o.CreateSession(intent.NumPublicConnections, intent.MatchType); err != nil {
					o.logger.Error("recreate after destroy not issued", zap.Error(err))
				}
			case intent != nil:
				o.logger.Warn("destroy failed, dropping deferred create",
					zap.String("match_type", intent.MatchType))
			case c.Success:
				o.logger.Info("destroyed session", zap.String("session", c.SessionName))
			default:
				o.logger.Warn("session destroy failed", zap.String("session", c.SessionName))
			}
			o.OnDestroySessionComplete.Broadcast(c.Success)
		},
		func() {
			if o.takeIntent() != nil {
				o.logger.Warn("dropping deferred create")
			}
			o.logger.Warn("failed to destroy session", zap.String("session", GameSessionName))
			o.OnDestroySessionComplete.Broadcast(false)
		},
	)
}

// StartSession marks the hosted session as started.
func (o *Orchestrator) StartSession() error {
	if o.provider == nil {
		o.unavailable(KindStart)
		o.OnStartSessionComplete.Broadcast(false)
		return nil
	}
	return o.issue(KindStart,
		func() bool { return o.provider.StartSession(GameSessionName) },
		func(c Completion) {
			o.logger.Info("start session complete",
				zap.String("session", c.SessionName), zap.Bool("success", c.Success))
			o.OnStartSessionComplete.Broadcast(c.Success)
		},
		func() {
			o.logger.Warn("failed to start session", zap.String("session", GameSessionName))
			o.OnStartSessionComplete.Broadcast(false)
		},
	)
}

// ResolvedConnectString returns the address to travel to after a join.
func (o *Orchestrator) ResolvedConnectString() (string, bool) {
	if o.provider == nil {
		return "", false
	}
	return o.provider.ResolvedConnectString(GameSessionName)
}

// Pending reports whether an operation of kind is outstanding.
func (o *Orchestrator) Pending(kind Kind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending[kind] != nil
}

// DeferredRecreate returns the create parameters waiting on a destroy.
func (o *Orchestrator) DeferredRecreate() (Intent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.intent == nil {
		return Intent{}, false
	}
	return *o.intent, true
}

// LastConfig returns the config of the most recently issued create.
func (o *Orchestrator) LastConfig() (Config, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastConfig == nil {
		return Config{}, false
	}
	return *o.lastConfig, true
}

// Shutdown releases every outstanding registration without notifying
// subscribers. Completions arriving afterwards are ignored.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	regs := make([]*registration, 0, len(o.pending))
	for _, r := range o.pending {
		regs = append(regs, r)
	}
	o.intent = nil
	o.mu.Unlock()

	for _, r := range regs {
		o.release(r)
	}
}

// issue runs one provider call under a scoped registration. The completion
// handler is registered before call runs and its handle is cleared exactly
// once: before onComplete sees the result, when call rejects the operation
// (onReject then reports the failure), or if call panics.
func (o *Orchestrator) issue(kind Kind, call func() bool, onComplete func(Completion), onReject func()) error {
	o.mu.Lock()
	if o.pending[kind] != nil {
		o.mu.Unlock()
		o.logger.Warn("operation already pending", zap.Stringer("kind", kind))
		return ErrOperationPending
	}
	reg := &registration{kind: kind}
	o.pending[kind] = reg
	o.mu.Unlock()

	h := o.provider.AddCompletionHandler(kind, func(c Completion) {
		if !o.release(reg) {
			return
		}
		onComplete(c)
	})
	o.mu.Lock()
	reg.handle = h
	o.mu.Unlock()

	returned := false
	defer func() {
		if !returned {
			o.release(reg)
		}
	}()
	accepted := call()
	returned = true

	if !accepted && o.release(reg) {
		onReject()
	}
	return nil
}

// release clears reg's handle from the provider. It reports false if reg
// was already released.
func (o *Orchestrator) release(reg *registration) bool {
	o.mu.Lock()
	if reg.released {
		o.mu.Unlock()
		return false
	}
	reg.released = true
	if o.pending[reg.kind] == reg {
		delete(o.pending, reg.kind)
	}
	h := reg.handle
	o.mu.Unlock()

	o.provider.ClearCompletionHandler(reg.kind, h)
	return true
}

func (o *Orchestrator) takeIntent() *Intent {
	o.mu.Lock()
	defer o.mu.Unlock()
	intent := o.intent
	o.intent = nil
	return intent
}

func (o *Orchestrator) unavailable(kind Kind) {
	o.logger.Error("online session interface is not valid", zap.Stringer("kind", kind))
}
