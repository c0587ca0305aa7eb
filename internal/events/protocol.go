package events

import "github.com/agent-racer/multiplayer/internal/session"

type MessageType string

const (
	MsgSnapshot        MessageType = "snapshot"
	MsgCreateComplete  MessageType = "create_session_complete"
	MsgFindComplete    MessageType = "find_sessions_complete"
	MsgJoinComplete    MessageType = "join_session_complete"
	MsgDestroyComplete MessageType = "destroy_session_complete"
	MsgStartComplete   MessageType = "start_session_complete"
)

type Message struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Payload any         `json:"payload"`
}

type ResultPayload struct {
	Success bool `json:"success"`
}

type FindPayload struct {
	Success bool            `json:"success"`
	Results []ResultSummary `json:"results"`
}

type ResultSummary struct {
	SessionID string `json:"sessionId"`
	Owner     string `json:"owner"`
	MatchType string `json:"matchType"`
	OpenSlots int    `json:"openSlots"`
	PingMs    int    `json:"pingMs"`
}

type JoinPayload struct {
	Outcome string `json:"outcome"`
}

// Status is the orchestrator state served by /api/session and sent as the
// first message to every feed client.
type Status struct {
	Pending          []string       `json:"pending"`
	LastConfig       *ConfigSummary `json:"lastConfig,omitempty"`
	DeferredRecreate *IntentSummary `json:"deferredRecreate,omitempty"`
	ConnectString    string         `json:"connectString,omitempty"`
}

type ConfigSummary struct {
	PublicConnections int    `json:"publicConnections"`
	MatchType         string `json:"matchType"`
	LAN               bool   `json:"lan"`
}

type IntentSummary struct {
	PublicConnections int    `json:"publicConnections"`
	MatchType         string `json:"matchType"`
}

func summarize(results []session.SearchResult) []ResultSummary {
	out := make([]ResultSummary, 0, len(results))
	for _, r := range results {
		out = append(out, ResultSummary{
			SessionID: r.SessionID,
			Owner:     r.OwningUserName,
			MatchType: r.MatchType(),
			OpenSlots: r.OpenPublicConnections,
			PingMs:    r.PingMs,
		})
	}
	return out
}

// StatusOf captures the orchestrator's current bookkeeping.
func StatusOf(o *session.Orchestrator) Status {
	st := Status{Pending: []string{}}
	for _, k := range session.Kinds {
		if o.Pending(k) {
			st.Pending = append(st.Pending, k.String())
		}
	}
	if cfg, ok := o.LastConfig(); ok {
		st.LastConfig = &ConfigSummary{
			PublicConnections: cfg.NumPublicConnections,
			MatchType:         cfg.MatchType(),
			LAN:               cfg.IsLANMatch,
		}
	}
	if in, ok := o.DeferredRecreate(); ok {
		st.DeferredRecreate = &IntentSummary{PublicConnections: in.NumPublicConnections, MatchType: in.MatchType}
	}
	if addr, ok := o.ResolvedConnectString(); ok {
		st.ConnectString = addr
	}
	return st
}
