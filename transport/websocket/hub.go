package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/berserker/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound frames buffered per client before it is dropped.
	sendBufferSize = 256
)

// Client is one WebSocket connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	id        string
	sessionID string
}

// ID returns the connection identifier used for seat binding
func (c *Client) ID() string {
	return c.id
}

type inboundFrame struct {
	client *Client
	data   []byte
}

// Hub owns every connection and session subscription. All inbound events are
// handled one at a time on the goroutine running Run.
type Hub struct {
	service service.GameService
	logger  *zap.Logger

	// Subscribed clients by session ID
	sessions map[string]map[*Client]bool

	// Every registered client, subscribed or not
	clients map[*Client]bool

	// Inbound frames from clients
	inbound chan *inboundFrame

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	upgrader websocket.Upgrader
}

// NewHub creates a new WebSocket hub. An empty allowedOrigins list accepts
// every origin; "*" does the same explicitly.
func NewHub(svc service.GameService, logger *zap.Logger, allowedOrigins []string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		service:    svc,
		logger:     logger,
		sessions:   make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		inbound:    make(chan *inboundFrame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Run starts the hub's event loop and blocks until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			h.unregisterClient(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.inbound:
			h.handleFrame(ctx, frame)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.NewString(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// SubscriberCount returns how many clients are subscribed to a session.
// It must only be called from the hub goroutine or after Run has returned.
func (h *Hub) SubscriberCount(sessionID string) int {
	return len(h.sessions[sessionID])
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.logger.Debug("client connected", zap.String("conn", client.id), zap.Int("clients", len(h.clients)))
}

// unregisterClient removes a client from its session. Its seat, if any, stays
// bound to the connection ID.
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	h.unsubscribe(client)
	delete(h.clients, client)
	close(client.send)

	h.logger.Debug("client disconnected", zap.String("conn", client.id), zap.Int("clients", len(h.clients)))
}

func (h *Hub) subscribe(client *Client, sessionID string) {
	if client.sessionID == sessionID {
		return
	}
	h.unsubscribe(client)

	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*Client]bool)
	}
	h.sessions[sessionID][client] = true
	client.sessionID = sessionID
}

func (h *Hub) unsubscribe(client *Client) {
	if client.sessionID == "" {
		return
	}
	if clients, ok := h.sessions[client.sessionID]; ok {
		delete(clients, client)

		// Clean up empty sessions
		if len(clients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	client.sessionID = ""
}

// handleFrame decodes and dispatches one inbound frame to completion
func (h *Hub) handleFrame(ctx context.Context, frame *inboundFrame) {
	if _, ok := h.clients[frame.client]; !ok {
		return
	}

	event, err := DecodeEvent(frame.data)
	if err != nil {
		h.logger.Warn("dropping inbound frame", zap.String("conn", frame.client.id), zap.Error(err))
		return
	}

	log := h.logger.With(
		zap.String("conn", frame.client.id),
		zap.String("event", string(event.Type())),
		zap.String("session", event.Session()),
	)

	switch e := event.(type) {
	case *JoinEvent:
		res, err := h.service.Join(ctx, e.SessionID, frame.client.id, e.Name)
		if err != nil {
			h.reject(log, err)
			return
		}
		h.subscribe(frame.client, res.Snapshot.SessionID)
		log.Debug("joined", zap.String("seat", string(res.Seat)), zap.Bool("full", res.Full))
		h.broadcast(res.Snapshot.SessionID, MessageState, res.Snapshot)

	case *MoveEvent:
		res, err := h.service.Move(ctx, e.SessionID, frame.client.id, e.Row, e.Col)
		if err != nil {
			h.reject(log, err)
			return
		}
		if res.Winner != nil {
			log.Info("game won", zap.String("winner", string(*res.Winner)))
		}
		h.broadcast(e.SessionID, MessageState, res.Snapshot)

	case *ResetEvent:
		snap, err := h.service.Reset(ctx, e.SessionID, frame.client.id)
		if err != nil {
			h.reject(log, err)
			return
		}
		log.Info("game reset")
		h.broadcast(e.SessionID, MessageState, snap)

	case *ChatEvent:
		h.broadcast(e.SessionID, MessageChat, ChatPayload{Author: e.Author, Text: e.Text})
	}
}

// reject logs a refused event. Rule and authorization rejections are silent
// to clients; anything else is an infrastructure failure.
func (h *Hub) reject(log *zap.Logger, err error) {
	if service.IsRejection(err) {
		log.Debug("event rejected", zap.Error(err))
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	log.Error("event failed", zap.Error(err))
}

// broadcast sends a message to every client subscribed to sessionID
func (h *Hub) broadcast(sessionID, msgType string, payload interface{}) {
	data, err := json.Marshal(OutboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal outbound message", zap.Error(err))
		return
	}

	for client := range h.sessions[sessionID] {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop it
			h.logger.Warn("send buffer full, dropping client", zap.String("conn", client.id))
			h.unregisterClient(client)
		}
	}
}

// readPump pumps frames from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}

		select {
		case c.hub.inbound <- &inboundFrame{client: c, data: data}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection, one
// JSON frame per WebSocket message
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}
