// Package server implements the authoritative game host: a websocket
// hub that routes messages into per-room actors.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"hexfront/internal/config"
	"hexfront/internal/game"
	"hexfront/internal/protocol"
)

// Server owns the HTTP listener, the hub, and the active rooms.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	server   *http.Server
	log      *slog.Logger
	tuning   config.Tuning
	pool     []game.Question
}

// New creates a server. The question pool is shared by every room.
func New(addr string, tuning config.Tuning, pool []game.Question, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:    logger,
		tuning: tuning,
		pool:   pool,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.hub = NewHub(s)

	r := chi.NewRouter()
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/api/rooms", s.handleListRooms)

	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Start runs the hub and serves until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	go s.hub.Run()
	s.log.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the listener and closes every room.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.CloseRooms()
	return s.server.Shutdown(ctx)
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// roomSummary is the public listing entry for a room.
type roomSummary struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
}

// handleListRooms returns the open rooms.
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	summaries := s.hub.RoomSummaries()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// Hub maintains the set of connected clients and the active rooms.
type Hub struct {
	server *Server

	clients map[*Client]bool
	rooms   map[string]*Room

	register   chan *Client
	unregister chan *Client
	inbound    chan *ClientMessage

	mu sync.RWMutex
}

// ClientMessage wraps a message with its source client.
type ClientMessage struct {
	Client  *Client
	Message *protocol.Message
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	return &Hub{
		server:     server,
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *ClientMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	handlers := NewHandlers(h)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case msg := <-h.inbound:
			handlers.Handle(msg.Client, msg.Message)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Inbound queues a message from a client.
func (h *Hub) Inbound(client *Client, msg *protocol.Message) {
	h.inbound <- &ClientMessage{Client: client, Message: msg}
}

// Room returns the room with the given code, if any.
func (h *Hub) Room(code string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[code]
}

// AddRoom registers a new room.
func (h *Hub) AddRoom(room *Room) {
	h.mu.Lock()
	h.rooms[room.Code] = room
	h.mu.Unlock()
}

// RemoveRoom drops an empty room.
func (h *Hub) RemoveRoom(code string) {
	h.mu.Lock()
	delete(h.rooms, code)
	h.mu.Unlock()
}

// RoomSummaries lists the active rooms. The room list is copied out
// first: querying an actor while holding the hub lock would deadlock
// against a room calling RemoveRoom as it tears itself down.
func (h *Hub) RoomSummaries() []roomSummary {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	summaries := make([]roomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	return summaries
}

// CloseRooms shuts down every room actor.
func (h *Hub) CloseRooms() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, room := range rooms {
		room.Close()
	}
}

// handleDisconnect handles a client dropping its connection.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	h.mu.Unlock()

	if room := client.Room(); room != nil {
		room.Post(disconnectCmd{client: client})
	}

	client.closeSend()
}

// Client represents a connected WebSocket peer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *protocol.Message

	mu         sync.Mutex
	room       *Room
	playerID   string
	name       string
	sendClosed bool
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 262144
)

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan *protocol.Message, 256),
	}
}

// SetSession associates the client with a room and player identity.
func (c *Client) SetSession(room *Room, playerID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
	c.playerID = playerID
	c.name = name
}

// ClearSession detaches the client from its room.
func (c *Client) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = nil
	c.playerID = ""
}

// Room returns the room the client has joined, if any.
func (c *Client) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// PlayerID returns the client's player identity within its room.
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Send queues a message to be sent to the client. Sends and the close
// of the send channel share the client mutex: the hub and the room
// actors both send, so neither may observe a close mid-send.
func (c *Client) Send(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendClosed {
		return
	}
	select {
	case c.send <- msg:
	default:
		// Channel full, client too slow. Closing here makes the write
		// pump drain and drop the connection; the read pump then
		// unregisters the client from its own goroutine.
		c.sendClosed = true
		close(c.send)
	}
}

// closeSend shuts the outbound channel exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// SendPayload builds and queues a message.
func (c *Client) SendPayload(msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return
	}
	c.Send(msg)
}

// SendError queues an error message.
func (c *Client) SendError(code protocol.ErrorCode, message string) {
	c.SendPayload(protocol.TypeError, protocol.ErrorPayload{Code: code, Message: message})
}

// ReadPump pumps messages from the WebSocket into the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
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
				c.hub.server.log.Warn("websocket read error", "error", err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.SendError(protocol.ErrCodeProtocolError, "malformed message")
			continue
		}
		if !protocol.KnownType(msg.Type) {
			// Unknown types are ignored for forward compatibility.
			continue
		}

		c.hub.Inbound(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket.
func (c *Client) WritePump() {
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

			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
