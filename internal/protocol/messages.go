// Package protocol defines the network message types exchanged between
// the room host and its clients.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the type of message. The enum is closed:
// receivers must ignore unknown types rather than fail, so older
// clients keep working against newer hosts.
type MessageType string

// Handshake message types
const (
	TypeJoinRequest MessageType = "join_request"
	TypeJoinAccept  MessageType = "join_accept"
	TypeJoinReject  MessageType = "join_reject"
	TypeLeaveRoom   MessageType = "leave_room"
)

// Game flow message types
const (
	TypeStartGame        MessageType = "start_game"
	TypeTerritoryAction  MessageType = "territory_action"
	TypeUpdateState      MessageType = "update_state"
	TypeCardNotification MessageType = "card_notification"
	TypeGameNotification MessageType = "game_notification"
)

// System message types
const (
	TypeError MessageType = "error"
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// KnownType reports whether the message type belongs to the enum.
// Unknown types are dropped at the transport boundary.
func KnownType(t MessageType) bool {
	switch t {
	case TypeJoinRequest, TypeJoinAccept, TypeJoinReject, TypeLeaveRoom,
		TypeStartGame, TypeTerritoryAction, TypeUpdateState,
		TypeCardNotification, TypeGameNotification,
		TypeError, TypePing, TypePong:
		return true
	}
	return false
}

// ErrorCode represents an error type surfaced to clients.
type ErrorCode string

const (
	ErrCodeOutOfTurn        ErrorCode = "out_of_turn"
	ErrCodeIllegalTarget    ErrorCode = "illegal_target"
	ErrCodeCardNotInHand    ErrorCode = "card_not_in_hand"
	ErrCodeRoomFull         ErrorCode = "room_full"
	ErrCodeJoinRejected     ErrorCode = "join_rejected"
	ErrCodeConnectionLost   ErrorCode = "connection_lost"
	ErrCodeHandshakeTimeout ErrorCode = "handshake_timeout"
	ErrCodeProtocolError    ErrorCode = "protocol_error"
	ErrCodeInternalError    ErrorCode = "internal_error"
)

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
