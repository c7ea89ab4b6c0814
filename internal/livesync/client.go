package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventSink applies control-side events on an output process. Calls arrive
// from a single goroutine in receipt order; application is cumulative.
type EventSink interface {
	ApplyPresentation(PresentationUpdate)
	ApplySlideChanged(SlideChanged)
	ApplyStateChanged(StateChanged)
}

// Client is the output-process side of the synchronizer. It attaches to the
// control hub, emits request-state once per (re)attach, applies inbound
// events in order, and relays local keyboard intent upstream.
type Client struct {
	url    string
	logger *slog.Logger
	sink   EventSink

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a client for the control hub websocket URL.
func NewClient(url string, sink EventSink, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, logger: logger, sink: sink}
}

// Run attaches and processes events until the context ends, reconnecting
// with backoff. No delivery guarantee holds across a reconnect, so every
// attach starts with request-state and the snapshot answer supersedes
// whatever was missed.
func (c *Client) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := c.attach(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("control connection lost", "err", err, "retry", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
	}
}

func (c *Client) attach(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial control: %w", err)
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	if err := c.SendIntent(EventRequestState); err != nil {
		return err
	}
	c.logger.Info("attached to control", "url", c.url)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var ev Envelope
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.logger.Warn("bad event from control", "err", err)
			continue
		}
		c.apply(ev)
	}
}

// apply decodes and hands one event to the sink. A malformed payload is
// logged and skipped; delivery continues.
func (c *Client) apply(ev Envelope) {
	switch ev.Type {
	case EventPresentationUpdate:
		var p PresentationUpdate
		if ev.Payload != nil {
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				c.logger.Warn("bad presentation-update payload", "err", err)
				return
			}
		}
		c.sink.ApplyPresentation(p)
	case EventSlideChanged:
		var p SlideChanged
		if ev.Payload != nil {
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				c.logger.Warn("bad slide-changed payload", "err", err)
				return
			}
		}
		c.sink.ApplySlideChanged(p)
	case EventStateChanged:
		var p StateChanged
		if ev.Payload != nil {
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				c.logger.Warn("bad state-changed payload", "err", err)
				return
			}
		}
		c.sink.ApplyStateChanged(p)
	default:
		c.logger.Warn("unexpected event from control", "type", ev.Type)
	}
}

// SendIntent relays an intent event upstream. It is safe to call from the
// keyboard goroutine while Run reads; writes are serialized by the mutex.
func (c *Client) SendIntent(t EventType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not attached")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	msg, err := json.Marshal(Envelope{Type: t})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}
