package httpapi

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/opengeos/geoagent/pkg/errorsx"
)

// sendBuffer bounds how many pending instructions a subscriber may lag
// behind before it is considered too slow and dropped.
const sendBuffer = 64

// subscriber serializes all writes to one connection through a single writer
// goroutine. The websocket library allows at most one concurrent writer per
// connection.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue hands a message to the writer goroutine. It reports false when the
// buffer is full, which marks the subscriber as too slow to keep.
func (s *subscriber) enqueue(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()
	_ = s.conn.Close()
}

// Hub fans action instructions out to subscribed mapping clients. Delivery
// is best effort: a client that cannot keep up is dropped, never waited on.
type Hub struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[*websocket.Conn]*subscriber
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:  log,
		subs: make(map[*websocket.Conn]*subscriber),
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.subs[conn] = sub
	h.mu.Unlock()
	go h.writeLoop(sub)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	sub, ok := h.subs[conn]
	delete(h.subs, conn)
	h.mu.Unlock()
	if ok {
		sub.close()
	}
}

// writeLoop is the single writer for one connection. It exits when the
// subscriber is closed or a write fails.
func (h *Hub) writeLoop(sub *subscriber) {
	for msg := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			err = errorsx.Wrap(err, errorsx.ReasonTransportSend)
			h.log.Debug("websocket write failed, dropping client",
				"reason", string(errorsx.Reason(err)),
				"error", err)
			h.remove(sub.conn)
			return
		}
	}
}

// Count returns the number of subscribed clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends v as JSON to every subscriber. The message is marshaled
// once and enqueued; per-connection writer goroutines do the actual writes,
// so any number of goroutines may broadcast concurrently.
func (h *Hub) Broadcast(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		h.log.Error("broadcast marshal failed", "error", err)
		return
	}
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		if !s.enqueue(raw) {
			h.log.Debug("dropping slow websocket client",
				"remote", s.conn.RemoteAddr().String())
			h.remove(s.conn)
		}
	}
}

// CloseAll disconnects every subscriber, used during drain.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.subs = make(map[*websocket.Conn]*subscriber)
	h.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}
