// Package authority implements the remote game authority: a websocket hub
// with per-user rooms and an in-memory progression service that pushes
// typed events to joined clients.
package authority

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/roilabs/progression-go/internal/protocol"
	"go.uber.org/zap"
)

const clientSendBuffer = 32

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The browser client is served from a different origin.
		return true
	},
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

type roomChange struct {
	c      *client
	userID string
}

type userEvent struct {
	userID string
	data   []byte
}

// Hub routes events to the clients joined to each user's game room. All
// room bookkeeping happens on the Run goroutine.
type Hub struct {
	logger  *zap.Logger
	service *Service

	register   chan *client
	unregister chan *client
	join       chan roomChange
	leave      chan roomChange
	emit       chan userEvent
	done       chan struct{}

	clients map[*client]struct{}
	rooms   map[string]map[*client]struct{}
}

// NewHub creates a hub backed by service. logger may be nil.
func NewHub(service *Service, logger *zap.Logger) *Hub {
	h := &Hub{
		logger:     logger,
		service:    service,
		register:   make(chan *client),
		unregister: make(chan *client),
		join:       make(chan roomChange),
		leave:      make(chan roomChange),
		emit:       make(chan userEvent, 64),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		rooms:      make(map[string]map[*client]struct{}),
	}
	if service != nil {
		service.attach(h)
	}
	return h
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.logger != nil {
				h.logger.Info("game client connected", zap.String("client_id", c.id))
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.detach(c)
				delete(h.clients, c)
				close(c.send)
				if h.logger != nil {
					h.logger.Info("game client disconnected", zap.String("client_id", c.id))
				}
			}

		case rc := <-h.join:
			h.detach(rc.c)
			rc.c.userID = rc.userID
			if h.rooms[rc.userID] == nil {
				h.rooms[rc.userID] = make(map[*client]struct{})
			}
			h.rooms[rc.userID][rc.c] = struct{}{}
			if h.logger != nil {
				h.logger.Info("client joined game room",
					zap.String("client_id", rc.c.id),
					zap.String("user_id", rc.userID),
				)
			}
			h.sendSnapshot(rc.c, rc.userID)

		case rc := <-h.leave:
			h.detach(rc.c)

		case ev := <-h.emit:
			for c := range h.rooms[ev.userID] {
				select {
				case c.send <- ev.data:
				default:
					h.detach(c)
					delete(h.clients, c)
					close(c.send)
				}
			}

		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*client]struct{})
			h.rooms = make(map[string]map[*client]struct{})
			return
		}
	}
}

func (h *Hub) detach(c *client) {
	if c.userID == "" {
		return
	}
	if room, ok := h.rooms[c.userID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.userID)
		}
	}
	c.userID = ""
}

func (h *Hub) sendSnapshot(c *client, userID string) {
	state := h.service.GameState(userID)
	env, err := protocol.NewEnvelope(protocol.EventGameState, state)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode game state", zap.Error(err))
		}
		h.sendError(c, "Failed to load game state")
		return
	}
	data, _ := json.Marshal(env)
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) sendError(c *client, msg string) {
	env, err := protocol.NewEnvelope(protocol.EventGameError, protocol.GameError{Message: msg})
	if err != nil {
		return
	}
	data, _ := json.Marshal(env)
	select {
	case c.send <- data:
	default:
	}
}

// EmitTo pushes one typed event to every client joined to userID's room.
func (h *Hub) EmitTo(userID, eventType string, payload any) {
	env, err := protocol.NewEnvelope(eventType, payload)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode game event",
				zap.String("type", eventType),
				zap.Error(err),
			)
		}
		return
	}
	data, _ := json.Marshal(env)
	select {
	case h.emit <- userEvent{userID: userID, data: data}:
	case <-h.done:
	}
}

// ServeWS upgrades an HTTP request to a game channel connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		var env protocol.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		switch env.Type {
		case protocol.IntentJoinGame:
			var intent protocol.JoinGame
			if err := json.Unmarshal(env.Payload, &intent); err != nil || intent.UserID == "" {
				h.sendError(c, "join-game requires a user id")
				continue
			}
			select {
			case h.join <- roomChange{c: c, userID: intent.UserID}:
			case <-h.done:
				return
			}
		case protocol.IntentLeaveGame:
			select {
			case h.leave <- roomChange{c: c}:
			case <-h.done:
				return
			}
		default:
			if h.logger != nil {
				h.logger.Debug("ignoring unknown intent",
					zap.String("type", env.Type),
					zap.String("client_id", c.id),
				)
			}
		}
	}
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}
