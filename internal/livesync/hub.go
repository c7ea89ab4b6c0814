package livesync

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// CommandHandler is the control-side sink for inbound output events. Handler
// failures are the handler's own to log; the hub never stops delivering
// because one command failed.
type CommandHandler interface {
	// Snapshot returns the events that fully describe current live state,
	// answered to every request-state instead of replaying missed deltas.
	Snapshot() []Envelope
	HandleAdvance()
	HandleRetreat()
}

// Hub owns the set of attached output connections and broadcasts live-state
// events to all of them. It tracks no attach count for correctness: detach
// needs no handshake, and broadcasting to zero outputs is fine.
type Hub struct {
	logger   *slog.Logger
	handler  CommandHandler
	upgrader websocket.Upgrader

	register   chan *outputConn
	unregister chan *outputConn
	broadcast  chan []byte
	attached   atomic.Int64
}

// NewHub creates a hub; Run must be started for it to deliver anything.
// The command handler is attached with SetHandler once the controller
// exists, mirroring the hub-before-controller construction order.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Outputs attach from the local machine or the venue network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *outputConn),
		unregister: make(chan *outputConn),
		broadcast:  make(chan []byte, sendBuffer),
	}
}

// SetHandler attaches the control-side command handler. Must be called
// before the first output attaches.
func (h *Hub) SetHandler(handler CommandHandler) {
	h.handler = handler
}

// Run pumps registrations and broadcasts until the context ends. Events
// queued to one connection stay in emission order; a connection that cannot
// keep up is dropped and re-attaches with a fresh request-state.
func (h *Hub) Run(ctx context.Context) {
	conns := make(map[*outputConn]bool)
	for {
		select {
		case <-ctx.Done():
			for c := range conns {
				close(c.send)
			}
			return
		case c := <-h.register:
			conns[c] = true
			h.attached.Store(int64(len(conns)))
			h.logger.Info("output attached", "output", c.id, "attached", len(conns))
		case c := <-h.unregister:
			if conns[c] {
				delete(conns, c)
				close(c.send)
				h.attached.Store(int64(len(conns)))
				h.logger.Info("output detached", "output", c.id, "attached", len(conns))
			}
		case msg := <-h.broadcast:
			for c := range conns {
				select {
				case c.send <- msg:
				default:
					delete(conns, c)
					close(c.send)
					h.attached.Store(int64(len(conns)))
					h.logger.Warn("output dropped, send queue full", "output", c.id)
				}
			}
		}
	}
}

// Broadcast queues an event to every attached output.
func (h *Hub) Broadcast(ev Envelope) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("broadcast encode failed", "type", ev.Type, "err", err)
		return
	}
	h.broadcast <- msg
}

// Attached reports the number of currently attached outputs.
func (h *Hub) Attached() int {
	return int(h.attached.Load())
}

// ServeWS upgrades an HTTP request into an output connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	c := &outputConn{
		id:   uuid.NewString(),
		hub:  h,
		conn: ws,
		send: make(chan []byte, sendBuffer),
	}
	h.register <- c
	go c.writePump()
	go c.readPump()
}

// outputConn is one attached output process.
type outputConn struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *outputConn) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("output read failed", "output", c.id, "err", err)
			}
			return
		}

		var ev Envelope
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.hub.logger.Warn("bad event from output", "output", c.id, "err", err)
			continue
		}
		c.handle(ev)
	}
}

// handle dispatches one inbound event. Failures are logged at the point of
// occurrence and never halt subsequent delivery.
func (c *outputConn) handle(ev Envelope) {
	if c.hub.handler == nil {
		c.hub.logger.Warn("event before handler attached, dropped", "type", ev.Type)
		return
	}
	switch ev.Type {
	case EventRequestState:
		for _, snap := range c.hub.handler.Snapshot() {
			msg, err := json.Marshal(snap)
			if err != nil {
				c.hub.logger.Error("snapshot encode failed", "type", snap.Type, "err", err)
				continue
			}
			select {
			case c.send <- msg:
			default:
				c.hub.logger.Warn("snapshot dropped, send queue full", "output", c.id)
			}
		}
	case EventAdvance:
		c.hub.handler.HandleAdvance()
	case EventRetreat:
		c.hub.handler.HandleRetreat()
	default:
		c.hub.logger.Warn("unexpected event from output", "output", c.id, "type", ev.Type)
	}
}

func (c *outputConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
