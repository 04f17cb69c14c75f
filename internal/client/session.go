package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"hexfront/internal/game"
	"hexfront/internal/protocol"
)

// ConnState is the session's connection state.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateJoined // in the room, waiting for a match
	StateInGame
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateInGame:
		return "in-game"
	default:
		return "disconnected"
	}
}

// Session errors
var (
	ErrHandshakeTimeout = errors.New("join handshake timed out")
	ErrConnectionLost   = errors.New("connection to host lost")
	ErrQuestionRequired = errors.New("card can only be played while a question is open")
)

// JoinRejectedError is returned when the host refuses a join.
type JoinRejectedError struct {
	Code   protocol.ErrorCode
	Reason string
}

func (e *JoinRejectedError) Error() string {
	return fmt.Sprintf("join rejected: %s", e.Reason)
}

// joinAttempts bounds the handshake retries before the client gives up
// and falls back to the manual join screen.
const joinAttempts = 2

// Session is the client-side orchestrator: it joins (or rejoins) a
// room, keeps a read-only projection of the authoritative state, and
// turns UI intents into messages to the host. It never mutates the
// projection itself; every UPDATE_STATE replaces it wholesale.
type Session struct {
	net *NetworkClient
	cfg *Config
	log *slog.Logger
	rng *rand.Rand
	mu  sync.Mutex

	state        ConnState
	roomCode     string
	playerID     string
	myTeam       string
	room         protocol.RoomState
	game         *game.GameState
	questionOpen bool

	joinResult chan error

	// Callbacks into the rendering layer.
	OnStateUpdate  func(*game.GameState)
	OnNotification func(game.Notification)
	OnServerError  func(protocol.ErrorCode, string)
	OnDisconnect   func(error)
}

// NewSession creates a session over a fresh network client.
func NewSession(cfg *Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		net: NewNetworkClient(logger),
		cfg: cfg,
		log: logger,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.net.OnMessage = s.handleMessage
	s.net.OnDisconnect = s.handleDisconnect
	return s
}

// State returns the current connection state.
func (s *Session) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RoomCode returns the joined room's code.
func (s *Session) RoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomCode
}

// MyTeam returns the team the local player belongs to, resolved from
// the roster after joining a running match.
func (s *Session) MyTeam() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.myTeam
}

// Snapshot returns the current read-only projection, or nil before the
// first update. Callers must not mutate it.
func (s *Session) Snapshot() *game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Join connects to the server and enters a room. An empty roomCode
// creates a new room with this player as host. The handshake is
// bounded by the timeout and a fixed retry count; cancelling ctx
// abandons the attempt immediately.
func (s *Session) Join(ctx context.Context, serverAddr, roomCode, playerName string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var lastErr error = ErrHandshakeTimeout
	for attempt := 0; attempt < joinAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.tryJoin(ctx, serverAddr, roomCode, playerName, timeout)
		if err == nil {
			// Persist the session so a reload can rejoin the same room.
			s.cfg.LastServer = serverAddr
			s.cfg.RoomCode = s.RoomCode()
			s.cfg.PlayerName = playerName
			if err := s.cfg.Save(); err != nil {
				s.log.Warn("failed to persist session", "error", err)
			}
			return nil
		}

		var rejected *JoinRejectedError
		if errors.As(err, &rejected) {
			return err // the host said no; retrying won't help
		}
		lastErr = err
		s.net.Disconnect()
	}
	return lastErr
}

// Rejoin replays the join handshake from the persisted session.
func (s *Session) Rejoin(ctx context.Context, timeout time.Duration) error {
	if s.cfg.RoomCode == "" || s.cfg.PlayerName == "" {
		return errors.New("no stored session to resume")
	}
	return s.Join(ctx, s.cfg.LastServer, s.cfg.RoomCode, s.cfg.PlayerName, timeout)
}

func (s *Session) tryJoin(ctx context.Context, serverAddr, roomCode, playerName string, timeout time.Duration) error {
	s.mu.Lock()
	s.state = StateConnecting
	s.playerID = playerName
	result := make(chan error, 1)
	s.joinResult = result
	s.mu.Unlock()

	if !s.net.IsConnected() {
		if err := s.net.Connect(ctx, serverAddr); err != nil {
			s.setState(StateDisconnected)
			return fmt.Errorf("connecting: %w", err)
		}
	}

	s.net.SendPayload(protocol.TypeJoinRequest, protocol.JoinRequestPayload{
		RoomCode:   roomCode,
		PlayerName: playerName,
	})

	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		// Timed-out join: drop the pending result channel so a reply
		// arriving later is ignored instead of resurrecting the join.
		s.mu.Lock()
		s.joinResult = nil
		s.state = StateDisconnected
		s.mu.Unlock()
		return ErrHandshakeTimeout
	case <-ctx.Done():
		// Abandoned join: the pending result channel is dropped so a
		// late reply cannot fire against torn-down state.
		s.mu.Lock()
		s.joinResult = nil
		s.state = StateDisconnected
		s.mu.Unlock()
		return ctx.Err()
	}
}

// Leave tells the host the player is going and closes the link.
func (s *Session) Leave() {
	s.mu.Lock()
	playerID := s.playerID
	s.mu.Unlock()

	s.net.SendPayload(protocol.TypeLeaveRoom, protocol.LeaveRoomPayload{PlayerID: playerID})
	s.net.Disconnect()
	s.setState(StateDisconnected)
	s.cfg.Clear()
}

// StartGame asks the host to start (or restart) the match. Only the
// room's host player will be obeyed.
func (s *Session) StartGame(mode game.Mode, teams map[string][]string) {
	s.net.SendPayload(protocol.TypeStartGame, protocol.StartRequestPayload{
		Mode:  mode,
		Teams: teams,
	})
}

// RequestAttack submits an attack intent for a hex. isCorrect is the
// outcome of the locally answered question; the host remains the sole
// authority on whether and how the attack lands.
func (s *Session) RequestAttack(hexID string, isCorrect bool, questionID string) {
	s.mu.Lock()
	playerID := s.playerID
	s.questionOpen = false // the answer has been submitted
	s.mu.Unlock()

	s.net.SendPayload(protocol.TypeTerritoryAction, protocol.TerritoryActionPayload{
		PlayerID:   playerID,
		Kind:       game.ActionAttack,
		HexID:      hexID,
		IsCorrect:  isCorrect,
		QuestionID: questionID,
	})
}

// RequestCardUse submits a card-use intent. Cards that act on the
// current question are refused unless one is open; the session owns
// the question flow, so this check lives here rather than on the host.
func (s *Session) RequestCardUse(cardID game.CardID, hexID string) error {
	card, ok := game.LookupCard(cardID)
	if !ok {
		return game.ErrUnknownCard
	}

	s.mu.Lock()
	if card.NeedsQuestion && !s.questionOpen {
		s.mu.Unlock()
		return ErrQuestionRequired
	}
	playerID := s.playerID
	s.mu.Unlock()

	s.net.SendPayload(protocol.TypeTerritoryAction, protocol.TerritoryActionPayload{
		PlayerID: playerID,
		Kind:     game.ActionCardUse,
		Card:     cardID,
		HexID:    hexID,
	})
	return nil
}

// CanTarget pre-filters hex clicks against the local projection. This
// is advisory for UI responsiveness only; the host re-validates.
func (s *Session) CanTarget(hexID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil || s.myTeam == "" {
		return false
	}
	return s.game.IsLegalTarget(s.myTeam, hexID)
}

// NextQuestion draws a question for the local player from the shared
// pool, applying the unseen -> same difficulty -> any fallback chain.
func (s *Session) NextQuestion(difficulty int) (game.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return game.Question{}, game.ErrNoQuestion
	}
	q, err := s.game.DrawQuestion(s.playerID, difficulty, s.rng)
	if err == nil {
		s.questionOpen = true
	}
	return q, err
}

func (s *Session) setState(state ConnState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// handleMessage dispatches messages from the network client.
func (s *Session) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeJoinAccept:
		s.handleJoinAccept(msg)
	case protocol.TypeJoinReject:
		s.handleJoinReject(msg)
	case protocol.TypeStartGame:
		s.handleStartGame(msg)
	case protocol.TypeUpdateState:
		s.handleUpdateState(msg)
	case protocol.TypeCardNotification, protocol.TypeGameNotification:
		s.handleNotification(msg)
	case protocol.TypeError:
		s.handleError(msg)
	}
}

func (s *Session) handleJoinAccept(msg *protocol.Message) {
	var payload protocol.JoinAcceptPayload
	if err := msg.ParsePayload(&payload); err != nil {
		s.log.Warn("malformed join accept", "error", err)
		return
	}

	s.mu.Lock()
	result := s.joinResult
	if result == nil {
		// No join pending: a reply that arrived after the handshake
		// timed out or was abandoned. Ignore it.
		s.mu.Unlock()
		s.log.Debug("ignoring stale join accept")
		return
	}
	s.joinResult = nil
	s.playerID = payload.PlayerID
	s.roomCode = payload.RoomState.Code
	s.room = payload.RoomState
	if payload.GameState != nil {
		// Rejoining a running match: find our team by roster scan.
		s.game = payload.GameState
		s.myTeam = game.FindTeamByPlayer(payload.GameState, payload.PlayerID)
		s.state = StateInGame
	} else {
		s.state = StateJoined
	}
	update := s.OnStateUpdate
	snapshot := s.game
	s.mu.Unlock()

	result <- nil
	if snapshot != nil && update != nil {
		update(snapshot)
	}
}

func (s *Session) handleJoinReject(msg *protocol.Message) {
	var payload protocol.JoinRejectPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return
	}

	s.mu.Lock()
	result := s.joinResult
	if result == nil {
		s.mu.Unlock()
		return
	}
	s.joinResult = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	result <- &JoinRejectedError{Code: payload.Code, Reason: payload.Reason}
}

func (s *Session) handleStartGame(msg *protocol.Message) {
	var payload protocol.StartGamePayload
	if err := msg.ParsePayload(&payload); err != nil || payload.Validate() != nil {
		s.log.Warn("malformed start game message")
		return
	}

	s.mu.Lock()
	s.game = payload.InitialState
	s.myTeam = game.FindTeamByPlayer(payload.InitialState, s.playerID)
	s.state = StateInGame
	update := s.OnStateUpdate
	s.mu.Unlock()

	if update != nil {
		update(payload.InitialState)
	}
}

func (s *Session) handleUpdateState(msg *protocol.Message) {
	var payload protocol.UpdateStatePayload
	if err := msg.ParsePayload(&payload); err != nil || payload.GameState == nil {
		return
	}

	s.mu.Lock()
	s.game = payload.GameState
	if s.myTeam == "" {
		s.myTeam = game.FindTeamByPlayer(payload.GameState, s.playerID)
	}
	update := s.OnStateUpdate
	s.mu.Unlock()

	if update != nil {
		update(payload.GameState)
	}
}

func (s *Session) handleNotification(msg *protocol.Message) {
	var payload protocol.NotificationPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return
	}
	if s.OnNotification != nil {
		s.OnNotification(payload.Notification)
	}
}

func (s *Session) handleError(msg *protocol.Message) {
	var payload protocol.ErrorPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return
	}
	s.log.Debug("server error", "code", payload.Code, "message", payload.Message)
	if s.OnServerError != nil {
		s.OnServerError(payload.Code, payload.Message)
	}
}

// handleDisconnect surfaces a dropped link. A host crash looks the
// same as any other loss: "connection lost", never a silent hang.
func (s *Session) handleDisconnect(err error) {
	s.mu.Lock()
	s.state = StateDisconnected
	result := s.joinResult
	s.joinResult = nil
	s.mu.Unlock()

	if result != nil {
		result <- ErrConnectionLost
	}
	if s.OnDisconnect != nil {
		if err == nil {
			err = ErrConnectionLost
		}
		s.OnDisconnect(err)
	}
}
