// Package push is the live update channel: one long-lived websocket
// subscription to a shop-scoped event stream. Dialing and re-dialing are
// handled inside the channel; consumers only range over Events(). Events
// are delivered in arrival order, with no sequence numbers and no
// buffering beyond a small channel.
package push

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultReconnectDelay = 5 * time.Second

	// Ping interval to keep the connection alive.
	defaultPingInterval = 2 * time.Minute

	// Write timeout for outgoing frames.
	defaultWriteTimeout = 10 * time.Second
)

// Config carries the connection parameters of one subscription.
type Config struct {
	URL            string
	ShopID         string
	Credential     string // owner bearer token, empty on the customer surface
	ReconnectDelay time.Duration
	PingInterval   time.Duration
	WriteTimeout   time.Duration
}

func (cfg *Config) fillDefaults() {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
}

// Channel is one always-on subscription. It redials with a constant delay
// whenever the connection drops and re-announces room membership on every
// successful connect. Close stops the goroutines and closes Events.
type Channel struct {
	cfg      Config
	clientID string

	events chan Event
	done   chan struct{}

	closeOnce sync.Once
	connMu    sync.Mutex
	conn      *websocket.Conn
}

// Connect validates the configuration and starts the connection manager.
// A failed first dial is not an error: the manager keeps retrying until
// Close, and the rest of the client stays usable over REST alone.
func Connect(cfg Config) (*Channel, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid push channel URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("push channel URL must use ws or wss, got %q", u.Scheme)
	}
	if cfg.ShopID == "" {
		return nil, fmt.Errorf("push channel requires a shop id")
	}
	cfg.fillDefaults()

	c := &Channel{
		cfg:      cfg,
		clientID: uuid.NewString(),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}

	go c.run()

	return c, nil
}

// Events returns the channel delivering decoded server events. It is
// closed after Close, so consumer loops terminate cleanly.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// ClientID returns the per-process id announced in the join message.
func (c *Channel) ClientID() string {
	return c.clientID
}

// Close tears down the subscription. No events are delivered afterwards.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// run is the connection manager: dial, join, pump until the connection
// drops, wait, repeat. It owns the events channel and closes it on exit.
func (c *Channel) run() {
	defer close(c.events)

	for {
		conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, nil)
		if err != nil {
			slog.Warn("Fail to connect push channel", "url", c.cfg.URL, "error", err)
			if !c.sleep(c.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		c.setConn(conn)
		if c.closed() {
			// Close raced the dial.
			conn.Close()
			return
		}

		if err := c.announce(conn); err != nil {
			slog.Warn("Fail to join shop room", "shop", c.cfg.ShopID, "error", err)
			conn.Close()
			if !c.sleep(c.cfg.ReconnectDelay) {
				return
			}
			continue
		}
		slog.Info("Joined shop room", "shop", c.cfg.ShopID, "client", c.clientID)

		connDone := make(chan struct{})
		go c.pingLoop(conn, connDone)

		c.readPump(conn)
		close(connDone)
		conn.Close()

		if !c.sleep(c.cfg.ReconnectDelay) {
			return
		}
		slog.Debug("Reconnecting push channel", "shop", c.cfg.ShopID)
	}
}

// announce sends the room membership message. Called once per connect,
// before the ping loop starts, so writes never overlap.
func (c *Channel) announce(conn *websocket.Conn) error {
	env, err := newJoinEnvelope(c.cfg.ShopID, c.clientID, c.cfg.Credential)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteJSON(env)
}

// readPump reads frames until the connection errors out. Frames that do
// not parse, and event names the client does not consume, are skipped.
func (c *Channel) readPump(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !c.closed() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Push channel read error", "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			slog.Warn("Fail to parse push frame", "error", err, "msg", string(raw))
			continue
		}

		ev, err := Decode(env)
		if err != nil {
			slog.Debug("Skipping push event", "event", env.Event, "error", err)
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// pingLoop sends periodic pings to keep the connection alive.
func (c *Channel) pingLoop(conn *websocket.Conn, connDone chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("Fail to send ping", "error", err)
				return
			}
		case <-connDone:
			return
		case <-c.done:
			return
		}
	}
}

func (c *Channel) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

func (c *Channel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// sleep waits out the reconnect delay, returning false when Close arrived
// in the meantime.
func (c *Channel) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-c.done:
		return false
	}
}
