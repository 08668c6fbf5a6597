// Package channel owns the client side of the game event channel: one
// websocket connection to the remote authority, translated into session
// store mutations through a typed dispatch table.
package channel

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/roilabs/progression-go/internal/protocol"
	"github.com/roilabs/progression-go/internal/session"
	"go.uber.org/zap"
)

// ConnState is the lifecycle state of the channel connection.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Client manages exactly one logical connection per store instance.
// Connect while connected is a no-op; otherwise any previous transport is
// closed before a new one is dialed.
type Client struct {
	url        string
	store      *session.Store
	dispatcher *Dispatcher
	logger     *zap.Logger
	dialer     *websocket.Dialer

	mu    sync.Mutex
	conn  *websocket.Conn
	state ConnState
}

// NewClient creates a client targeting url (see GameEndpoint). logger may
// be nil.
func NewClient(url string, store *session.Store, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		store:      store,
		dispatcher: NewDispatcher(store, logger),
		logger:     logger,
		dialer:     websocket.DefaultDialer,
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the transport and emits the join intent for userID. While
// already connected it does nothing, which guards against duplicate
// connections from repeated calls.
func (c *Client) Connect(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateConnected && c.conn != nil {
		if c.logger != nil {
			c.logger.Debug("already connected to game channel")
		}
		return nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.state = StateConnecting
	conn, resp, err := c.dialer.Dial(c.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		c.state = StateError
		c.store.SetError("failed to connect to game server")
		c.store.AddNotification(session.Notification{
			Type:    session.NotificationError,
			Title:   "Connection Failed",
			Message: "failed to connect to game server",
		})
		return fmt.Errorf("channel: dial %s: %w", c.url, err)
	}

	c.conn = conn
	c.state = StateConnected
	c.store.ClearError()
	c.store.SetConnected(true)

	if err := c.writeLocked(protocol.IntentJoinGame, protocol.JoinGame{UserID: userID}); err != nil {
		c.teardownLocked()
		c.state = StateError
		c.store.SetConnected(false)
		c.store.SetError("failed to join game")
		return fmt.Errorf("channel: join: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("connected to game channel",
			zap.String("url", c.url),
			zap.String("user_id", userID),
		)
	}

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the transport and resets the store's connection-bound
// fields to their initial empty values.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.teardownLocked()
	c.state = StateDisconnected
	c.mu.Unlock()

	c.store.Reset()
	if c.logger != nil {
		c.logger.Info("disconnected from game channel")
	}
}

// Emit sends a named intent with a payload to the authority.
func (c *Client) Emit(intent string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("channel: emit %s: not connected", intent)
	}
	return c.writeLocked(intent, payload)
}

func (c *Client) writeLocked(eventType string, payload any) error {
	env, err := protocol.NewEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(env)
}

func (c *Client) teardownLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// readLoop applies inbound events until the transport fails or is closed.
// A failure on the active connection surfaces as a store error with no
// automatic retry; a stale loop left over from an explicit disconnect or
// reconnect exits silently.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var env protocol.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.mu.Lock()
			active := c.conn == conn
			if active {
				c.conn = nil
				c.state = StateError
			}
			c.mu.Unlock()

			if active {
				c.store.SetConnected(false)
				c.store.SetError("connection to game server lost")
				c.store.AddNotification(session.Notification{
					Type:    session.NotificationError,
					Title:   "Connection Lost",
					Message: "connection to game server lost",
				})
				if c.logger != nil {
					c.logger.Warn("game channel read failed", zap.Error(err))
				}
			}
			return
		}
		c.dispatcher.Dispatch(env)
	}
}
