package session

import (
	"fmt"
	"strings"
	"testing"
)

// fakeProvider records every call in order and lets tests decide when and
// how each operation completes.
type fakeProvider struct {
	t *testing.T

	subsystem string
	calls     []string

	// accept controls the synchronous return per kind (default true).
	accept map[Kind]bool

	existing *NamedSession
	results  []SearchResult
	address  string

	nextHandle Handle
	handlers   map[Handle]fakeHandler
	added      map[Kind]int
	cleared    map[Kind]int
	clearedBad int

	lastCreate  *Config
	lastQuery   *SearchQuery
	lastJoin    *SearchResult
	createCalls []Config
}

type fakeHandler struct {
	kind Kind
	fn   func(Completion)
}

func newFakeProvider(t *testing.T) *fakeProvider {
	return &fakeProvider{
		t:         t,
		subsystem: LANSubsystemName,
		accept:    make(map[Kind]bool),
		handlers:  make(map[Handle]fakeHandler),
		added:     make(map[Kind]int),
		cleared:   make(map[Kind]int),
	}
}

func (f *fakeProvider) accepts(k Kind) bool {
	v, ok := f.accept[k]
	return !ok || v
}

func (f *fakeProvider) SubsystemName() string { return f.subsystem }

func (f *fakeProvider) CreateSession(user UserID, name string, cfg Config) bool {
	f.calls = append(f.calls, "provider.create")
	f.lastCreate = &cfg
	f.createCalls = append(f.createCalls, cfg)
	return f.accepts(KindCreate)
}

func (f *fakeProvider) FindSessions(user UserID, q *SearchQuery) bool {
	f.calls = append(f.calls, "provider.find")
	f.lastQuery = q
	return f.accepts(KindFind)
}

func (f *fakeProvider) JoinSession(user UserID, name string, r SearchResult) bool {
	f.calls = append(f.calls, "provider.join:"+r.SessionID)
	f.lastJoin = &r
	return f.accepts(KindJoin)
}

func (f *fakeProvider) DestroySession(name string) bool {
	f.calls = append(f.calls, "provider.destroy")
	return f.accepts(KindDestroy)
}

func (f *fakeProvider) StartSession(name string) bool {
	f.calls = append(f.calls, "provider.start")
	return f.accepts(KindStart)
}

func (f *fakeProvider) NamedSession(name string) (NamedSession, bool) {
	if f.existing == nil {
		return NamedSession{}, false
	}
	return *f.existing, true
}

func (f *fakeProvider) ResolvedConnectString(name string) (string, bool) {
	return f.address, f.address != ""
}

func (f *fakeProvider) AddCompletionHandler(kind Kind, fn func(Completion)) Handle {
	f.nextHandle++
	f.handlers[f.nextHandle] = fakeHandler{kind: kind, fn: fn}
	f.added[kind]++
	return f.nextHandle
}

func (f *fakeProvider) ClearCompletionHandler(kind Kind, h Handle) {
	hd, ok := f.handlers[h]
	if !ok || hd.kind != kind {
		f.clearedBad++
		return
	}
	delete(f.handlers, h)
	f.cleared[kind]++
}

// registered returns the number of live handlers for kind.
func (f *fakeProvider) registered(kind Kind) int {
	n := 0
	for _, h := range f.handlers {
		if h.kind == kind {
			n++
		}
	}
	return n
}

// complete fires every live handler of kind, as a provider event loop
// would. Handlers are snapshotted first because they clear themselves.
func (f *fakeProvider) complete(c Completion) {
	f.t.Helper()
	var fns []func(Completion)
	for _, h := range f.handlers {
		if h.kind == c.Kind {
			fns = append(fns, h.fn)
		}
	}
	if len(fns) == 0 {
		f.t.Fatalf("complete(%s): no registered handler", c.Kind)
	}
	if c.SessionName == "" {
		c.SessionName = GameSessionName
	}
	for _, fn := range fns {
		fn(c)
	}
}

// providerCalls returns the recorded calls made into the provider,
// leaving out notifications interleaved by attach.
func (f *fakeProvider) providerCalls() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "provider.") {
			out = append(out, c)
		}
	}
	return out
}

// recorder collects notifications in order, tagged by kind.
type recorder struct {
	events  []string
	creates []bool
	finds   []FindResult
	joins   []JoinOutcome
	destroy []bool
	starts  []bool
}

func attach(o *Orchestrator, f *fakeProvider) *recorder {
	r := &recorder{}
	o.OnCreateSessionComplete.Add(func(ok bool) {
		r.creates = append(r.creates, ok)
		r.events = append(r.events, fmt.Sprintf("create:%v", ok))
		if f != nil {
			f.calls = append(f.calls, fmt.Sprintf("notify.create:%v", ok))
		}
	})
	o.OnFindSessionsComplete.Add(func(res FindResult) {
		r.finds = append(r.finds, res)
		r.events = append(r.events, fmt.Sprintf("find:%d:%v", len(res.Results), res.Success))
	})
	o.OnJoinSessionComplete.Add(func(out JoinOutcome) {
		r.joins = append(r.joins, out)
		r.events = append(r.events, "join:"+out.String())
	})
	o.OnDestroySessionComplete.Add(func(ok bool) {
		r.destroy = append(r.destroy, ok)
		r.events = append(r.events, fmt.Sprintf("destroy:%v", ok))
		if f != nil {
			f.calls = append(f.calls, fmt.Sprintf("notify.destroy:%v", ok))
		}
	})
	o.OnStartSessionComplete.Add(func(ok bool) {
		r.starts = append(r.starts, ok)
		r.events = append(r.events, fmt.Sprintf("start:%v", ok))
	})
	return r
}
