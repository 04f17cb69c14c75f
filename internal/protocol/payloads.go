package protocol

import (
	"errors"

	"hexfront/internal/game"
)

// ==================== Handshake Payloads ====================

// JoinRequestPayload is sent by a client to enter a room. An empty
// room code asks the server to create a new room with the sender as
// its host. The same message replays the handshake on reconnection.
type JoinRequestPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// Validate checks the decoded payload at the transport boundary.
func (p *JoinRequestPayload) Validate() error {
	if p.PlayerName == "" {
		return errors.New("missing player name")
	}
	return nil
}

// RoomState describes the lobby to joined clients.
type RoomState struct {
	Code    string   `json:"code"`
	Players []string `json:"players"`
	MaxSize int      `json:"maxSize"`
	Started bool     `json:"started"`
}

// JoinAcceptPayload confirms a join. GameState is present only when a
// match is already running, which is how reconnecting clients resume.
type JoinAcceptPayload struct {
	PlayerID  string          `json:"playerId"`
	RoomState RoomState       `json:"roomState"`
	GameState *game.GameState `json:"gameState,omitempty"`
}

// JoinRejectPayload explains a refused join.
type JoinRejectPayload struct {
	Code   ErrorCode `json:"code"`
	Reason string    `json:"reason"`
}

// LeaveRoomPayload is sent by a client abandoning the room.
type LeaveRoomPayload struct {
	PlayerID string `json:"playerId"`
}

// ==================== Game Flow Payloads ====================

// StartRequestPayload is sent by the room host to start or restart a
// match. Teams optionally overrides the automatic player assignment.
type StartRequestPayload struct {
	Mode  game.Mode           `json:"mode"`
	Teams map[string][]string `json:"teams,omitempty"`
}

// Validate checks the decoded payload.
func (p *StartRequestPayload) Validate() error {
	if p.Mode != game.ModeMultiplayer && p.Mode != game.ModePractice {
		return errors.New("unknown game mode")
	}
	return nil
}

// StartGamePayload announces a new match to everyone in the room.
type StartGamePayload struct {
	Mode         game.Mode       `json:"mode"`
	InitialState *game.GameState `json:"initialState"`
}

// Validate checks the decoded payload.
func (p *StartGamePayload) Validate() error {
	if p.Mode != game.ModeMultiplayer && p.Mode != game.ModePractice {
		return errors.New("unknown game mode")
	}
	if p.InitialState == nil {
		return errors.New("missing initial state")
	}
	return nil
}

// TerritoryActionPayload is a client intent. It is never applied
// locally as ground truth; the host validates and applies it, then
// broadcasts the resulting state.
type TerritoryActionPayload struct {
	PlayerID   string          `json:"playerId"`
	Kind       game.ActionKind `json:"kind"`
	HexID      string          `json:"hexId,omitempty"`
	IsCorrect  bool            `json:"isCorrect,omitempty"`
	Card       game.CardID     `json:"card,omitempty"`
	QuestionID string          `json:"questionId,omitempty"` // lets the host track per-player seen questions
}

// Validate checks the decoded payload.
func (p *TerritoryActionPayload) Validate() error {
	if p.PlayerID == "" {
		return errors.New("missing player id")
	}
	switch p.Kind {
	case game.ActionAttack:
		if p.HexID == "" {
			return errors.New("attack requires a target hex")
		}
	case game.ActionCardUse:
		if p.Card == "" {
			return errors.New("card use requires a card id")
		}
	default:
		return errors.New("unknown action kind")
	}
	return nil
}

// UpdateStatePayload carries the authoritative state after every
// applied action. Clients replace their projection wholesale.
type UpdateStatePayload struct {
	GameState *game.GameState `json:"gameState"`
}

// NotificationPayload carries an ephemeral display notification.
// Receivers show it briefly and drop it; it carries no durable state.
type NotificationPayload struct {
	Notification game.Notification `json:"notification"`
}
