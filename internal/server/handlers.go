package server

import (
	"math/rand"

	"hexfront/internal/protocol"
)

// Handlers routes hub messages to rooms. Anything that touches game
// state is posted into the target room's inbox so the room actor
// processes intents strictly in arrival order.
type Handlers struct {
	hub *Hub
	rng *rand.Rand
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{
		hub: hub,
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
}

// Handle routes a message. Unknown types were already dropped at the
// read pump; malformed payloads are protocol errors, never fatal.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeJoinRequest:
		h.handleJoinRequest(client, msg)
	case protocol.TypeLeaveRoom:
		h.handleLeaveRoom(client)
	case protocol.TypeStartGame:
		h.handleStartGame(client, msg)
	case protocol.TypeTerritoryAction:
		h.handleTerritoryAction(client, msg)
	case protocol.TypePing:
		client.SendPayload(protocol.TypePong, struct{}{})
	}
}

// handleJoinRequest admits the client into a room, creating one when
// no room code is given.
func (h *Handlers) handleJoinRequest(client *Client, msg *protocol.Message) {
	var payload protocol.JoinRequestPayload
	if err := msg.ParsePayload(&payload); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, "malformed join request")
		return
	}
	if err := payload.Validate(); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, err.Error())
		return
	}

	if payload.RoomCode == "" {
		room := h.createRoom()
		room.Post(joinCmd{client: client, name: payload.PlayerName})
		return
	}

	room := h.hub.Room(payload.RoomCode)
	if room == nil {
		client.SendPayload(protocol.TypeJoinReject, protocol.JoinRejectPayload{
			Code:   protocol.ErrCodeJoinRejected,
			Reason: "no such room",
		})
		return
	}
	room.Post(joinCmd{client: client, name: payload.PlayerName})
}

// createRoom makes a room under a fresh join code.
func (h *Handlers) createRoom() *Room {
	srv := h.hub.server
	for {
		code := NewRoomCode(h.rng)
		if h.hub.Room(code) != nil {
			continue
		}
		room := NewRoom(h.hub, code, srv.tuning, srv.pool, srv.log)
		h.hub.AddRoom(room)
		srv.log.Info("room created", "room", code)
		return room
	}
}

func (h *Handlers) handleLeaveRoom(client *Client) {
	if room := client.Room(); room != nil {
		room.Post(leaveCmd{client: client})
	}
}

func (h *Handlers) handleStartGame(client *Client, msg *protocol.Message) {
	room := client.Room()
	if room == nil {
		client.SendError(protocol.ErrCodeJoinRejected, "not in a room")
		return
	}

	var payload protocol.StartRequestPayload
	if err := msg.ParsePayload(&payload); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, "malformed start request")
		return
	}
	if err := payload.Validate(); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, err.Error())
		return
	}

	room.Post(startCmd{client: client, mode: payload.Mode, teams: payload.Teams})
}

func (h *Handlers) handleTerritoryAction(client *Client, msg *protocol.Message) {
	room := client.Room()
	if room == nil {
		client.SendError(protocol.ErrCodeJoinRejected, "not in a room")
		return
	}

	var payload protocol.TerritoryActionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, "malformed action")
		return
	}
	if err := payload.Validate(); err != nil {
		client.SendError(protocol.ErrCodeProtocolError, err.Error())
		return
	}

	room.Post(actionCmd{client: client, payload: payload})
}
