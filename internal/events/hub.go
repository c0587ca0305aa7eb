// Package events republishes orchestrator notifications to websocket
// clients as JSON messages.
package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/agent-racer/multiplayer/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBuffer = 64

type client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

func newClient(conn *websocket.Conn, h *Hub) *client {
	return &client{conn: conn, hub: h, send: make(chan []byte, sendBuffer)}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.RemoveClient(c)
			return
		}
	}
}

// Hub fans orchestrator notifications out to connected clients.
type Hub struct {
	orch   *session.Orchestrator
	logger *zap.Logger
	seq    atomic.Uint64

	mu      sync.RWMutex
	clients map[*client]bool
	unsubs  []func()
}

// NewHub subscribes to every orchestrator notification.
func NewHub(o *session.Orchestrator, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{orch: o, logger: logger, clients: make(map[*client]bool)}

	create := o.OnCreateSessionComplete.Add(func(ok bool) {
		h.publish(MsgCreateComplete, ResultPayload{Success: ok})
	})
	find := o.OnFindSessionsComplete.Add(func(r session.FindResult) {
		h.publish(MsgFindComplete, FindPayload{Success: r.Success, Results: summarize(r.Results)})
	})
	join := o.OnJoinSessionComplete.Add(func(out session.JoinOutcome) {
		h.publish(MsgJoinComplete, JoinPayload{Outcome: out.String()})
	})
	destroy := o.OnDestroySessionComplete.Add(func(ok bool) {
		h.publish(MsgDestroyComplete, ResultPayload{Success: ok})
	})
	start := o.OnStartSessionComplete.Add(func(ok bool) {
		h.publish(MsgStartComplete, ResultPayload{Success: ok})
	})
	h.unsubs = []func(){
		func() { o.OnCreateSessionComplete.Remove(create) },
		func() { o.OnFindSessionsComplete.Remove(find) },
		func() { o.OnJoinSessionComplete.Remove(join) },
		func() { o.OnDestroySessionComplete.Remove(destroy) },
		func() { o.OnStartSessionComplete.Remove(start) },
	}
	return h
}

// AddClient registers conn and queues a status snapshot for it.
func (h *Hub) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn, h)

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	go c.writePump()

	data, err := h.encode(MsgSnapshot, StatusOf(h.orch))
	if err == nil {
		h.mu.RLock()
		if h.clients[c] {
			select {
			case c.send <- data:
			default:
			}
		}
		h.mu.RUnlock()
	}
	return c
}

// RemoveClient unregisters c and stops its write pump.
func (h *Hub) RemoveClient(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes from the orchestrator and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	unsubs := h.unsubs
	h.unsubs = nil
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	for _, c := range clients {
		h.RemoveClient(c)
	}
}

func (h *Hub) encode(t MessageType, payload any) ([]byte, error) {
	msg := Message{Type: t, Seq: h.seq.Add(1), Payload: payload}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("event marshal failed", zap.String("type", string(t)), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// publish never blocks the notifying goroutine; clients that cannot keep up
// are disconnected. Sends happen under the read lock so RemoveClient cannot
// close a channel mid-send.
func (h *Hub) publish(t MessageType, payload any) {
	data, err := h.encode(t, payload)
	if err != nil {
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("event client too slow, disconnecting")
		h.RemoveClient(c)
	}
}
