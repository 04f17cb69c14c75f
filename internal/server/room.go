package server

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"hexfront/internal/config"
	"hexfront/internal/game"
	"hexfront/internal/hexmap"
	"hexfront/internal/protocol"
)

// defaultTeamNames seed the automatic team split, in assignment order.
var defaultTeamNames = []string{"Solar Alliance", "Void Syndicate", "Nebula Corps", "Comet Guard"}

// rewardCards are the drops granted on captures.
var rewardCards = []game.CardID{
	game.CardAsteroid,
	game.CardForceField,
	game.CardWormhole,
	game.CardSupernova,
	game.CardNavProbe,
	game.CardTimeDilation,
	game.CardHyperspace,
}

// member is one player slot in a room. Members survive disconnects so
// reconnecting players can resume a running match under the same name.
type member struct {
	name      string
	client    *Client
	connected bool
}

// command is posted into the room's inbox. All room state is owned by
// the Run goroutine, so every apply is serialized without locks.
type command interface{}

type joinCmd struct {
	client *Client
	name   string
}

type leaveCmd struct{ client *Client }

type disconnectCmd struct{ client *Client }

type startCmd struct {
	client *Client
	mode   game.Mode
	teams  map[string][]string // optional custom team -> players assignment
}

type actionCmd struct {
	client  *Client
	payload protocol.TerritoryActionPayload
}

type botMoveCmd struct{}

// Room is the actor owning one match. Clients submit intents through
// the hub; the Run goroutine applies them one at a time and broadcasts
// the authoritative state after every applied action.
type Room struct {
	Code string

	hub      *Hub
	log      *slog.Logger
	tuning   config.Tuning
	pool     []game.Question
	commands chan command
	done     chan struct{}

	// Owned by Run.
	members map[string]*member
	host    string
	state   *game.GameState
	started bool
	rng     *rand.Rand
}

// NewRoom creates a room and starts its actor goroutine.
func NewRoom(hub *Hub, code string, tuning config.Tuning, pool []game.Question, logger *slog.Logger) *Room {
	r := &Room{
		Code:     code,
		hub:      hub,
		log:      logger.With("room", code),
		tuning:   tuning,
		pool:     pool,
		commands: make(chan command, 64),
		done:     make(chan struct{}),
		members:  make(map[string]*member),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go r.Run()
	return r
}

// NewRoomCode returns a short join code like "AB12".
func NewRoomCode(rng *rand.Rand) string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	var b strings.Builder
	b.WriteByte(letters[rng.Intn(len(letters))])
	b.WriteByte(letters[rng.Intn(len(letters))])
	b.WriteByte(digits[rng.Intn(len(digits))])
	b.WriteByte(digits[rng.Intn(len(digits))])
	return b.String()
}

// Post queues a command for the room actor, dropping it if the room is
// already closed.
func (r *Room) Post(cmd command) {
	select {
	case r.commands <- cmd:
	case <-r.done:
	}
}

// Close shuts the actor down.
func (r *Room) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// Summary returns the public listing entry. It is served from the
// actor to keep the room state single-threaded.
func (r *Room) Summary() roomSummary {
	reply := make(chan roomSummary, 1)
	select {
	case r.commands <- summaryCmd{reply: reply}:
		select {
		case s := <-reply:
			return s
		case <-r.done:
		}
	case <-r.done:
	}
	return roomSummary{Code: r.Code}
}

type summaryCmd struct{ reply chan roomSummary }

// Run is the actor loop.
func (r *Room) Run() {
	for {
		select {
		case <-r.done:
			return
		case cmd := <-r.commands:
			switch c := cmd.(type) {
			case joinCmd:
				r.handleJoin(c)
			case leaveCmd:
				r.handleLeave(c.client, true)
			case disconnectCmd:
				r.handleLeave(c.client, false)
			case startCmd:
				r.handleStart(c)
			case actionCmd:
				r.handleAction(c)
			case botMoveCmd:
				r.handleBotMove()
			case summaryCmd:
				c.reply <- roomSummary{
					Code:    r.Code,
					Players: len(r.members),
					Started: r.started,
				}
			}
		}
	}
}

func (r *Room) roomState() protocol.RoomState {
	players := make([]string, 0, len(r.members))
	for name := range r.members {
		players = append(players, name)
	}
	return protocol.RoomState{
		Code:    r.Code,
		Players: players,
		MaxSize: r.tuning.Room.MaxPlayers,
		Started: r.started,
	}
}

// handleJoin admits a new player or reattaches a reconnecting one.
func (r *Room) handleJoin(c joinCmd) {
	reject := func(code protocol.ErrorCode, reason string) {
		c.client.SendPayload(protocol.TypeJoinReject, protocol.JoinRejectPayload{
			Code:   code,
			Reason: reason,
		})
	}

	if m, ok := r.members[c.name]; ok {
		if m.connected {
			reject(protocol.ErrCodeJoinRejected, "name already taken in this room")
			return
		}
		// Reconnection: reattach and hand back the running state.
		m.client = c.client
		m.connected = true
		c.client.SetSession(r, c.name, c.name)
		accept := protocol.JoinAcceptPayload{
			PlayerID:  c.name,
			RoomState: r.roomState(),
		}
		if r.started {
			accept.GameState = r.state
		}
		c.client.SendPayload(protocol.TypeJoinAccept, accept)
		r.notify(game.Notification{
			Kind:    game.NoteTurnChange,
			Message: c.name + " reconnected",
		}, c.name)
		r.log.Info("player reconnected", "player", c.name)
		return
	}

	if r.started {
		reject(protocol.ErrCodeJoinRejected, "match already running")
		return
	}
	if len(r.members) >= r.tuning.Room.MaxPlayers {
		reject(protocol.ErrCodeRoomFull, "room is full")
		return
	}

	r.members[c.name] = &member{name: c.name, client: c.client, connected: true}
	if r.host == "" {
		r.host = c.name
	}
	c.client.SetSession(r, c.name, c.name)

	c.client.SendPayload(protocol.TypeJoinAccept, protocol.JoinAcceptPayload{
		PlayerID:  c.name,
		RoomState: r.roomState(),
	})
	r.notify(game.Notification{
		Kind:    game.NoteTurnChange,
		Message: c.name + " joined the room",
	}, c.name)
	r.log.Info("player joined", "player", c.name, "members", len(r.members))
}

// handleLeave detaches a client. An explicit leave before the match
// starts frees the slot; a mid-game drop keeps the roster entry so the
// player can reconnect.
func (r *Room) handleLeave(client *Client, explicit bool) {
	name := client.PlayerID()
	m := r.members[name]
	if m == nil || m.client != client {
		return
	}
	m.connected = false
	m.client = nil
	client.ClearSession()

	if explicit && !r.started {
		delete(r.members, name)
		if r.host == name {
			r.host = ""
			for n := range r.members {
				r.host = n
				break
			}
		}
	}

	r.notify(game.Notification{
		Kind:    game.NoteTurnChange,
		Message: name + " left",
	}, "")
	r.log.Info("player left", "player", name, "explicit", explicit)

	for _, m := range r.members {
		if m.connected {
			return
		}
	}
	// Nobody left; tear the room down. Session state is not persisted.
	r.hub.RemoveRoom(r.Code)
	r.Close()
}

// handleStart builds a fresh match (start or restart: the map is
// regenerated and teams re-seeded either way).
func (r *Room) handleStart(c startCmd) {
	if c.client.PlayerID() != r.host {
		c.client.SendError(protocol.ErrCodeJoinRejected, "only the host can start the match")
		return
	}

	teams, err := r.assignTeams(c.mode, c.teams)
	if err != nil {
		c.client.SendError(protocol.ErrCodeInternalError, err.Error())
		return
	}

	gencfg := hexmap.GenConfig{
		Radius:         r.tuning.Map.Radius,
		StartTiles:     r.tuning.Map.StartTiles,
		HideDifficulty: r.tuning.Map.HideDifficulty,
	}
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	tiles, err := hexmap.Generate(gencfg, names)
	if err != nil {
		c.client.SendError(protocol.ErrCodeInternalError, err.Error())
		return
	}

	r.state = game.NewGameState(c.mode, r.tuning.Rules, tiles, teams, r.pool)
	r.started = true

	r.broadcast(protocol.TypeStartGame, protocol.StartGamePayload{
		Mode:         c.mode,
		InitialState: r.state,
	})
	r.log.Info("match started", "mode", c.mode, "teams", len(teams), "tiles", len(tiles))

	r.scheduleBotMove()
}

// assignTeams splits the room members into teams. A custom assignment
// wins when provided; otherwise members are dealt round-robin into two
// teams (practice mode gets one human team plus the bot).
func (r *Room) assignTeams(mode game.Mode, custom map[string][]string) ([]*game.Team, error) {
	players := make([]string, 0, len(r.members))
	for name := range r.members {
		players = append(players, name)
	}
	// Map iteration order is random; keep assignment stable per start.
	r.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	var teams []*game.Team
	switch {
	case len(custom) > 0:
		for name, roster := range custom {
			teams = append(teams, &game.Team{Name: name, Players: roster})
		}

	case mode == game.ModePractice:
		teams = append(teams,
			&game.Team{Name: defaultTeamNames[0], Players: players},
			&game.Team{Name: game.BotTeamName, IsBot: true})

	default:
		count := 2
		if len(players) > 6 {
			count = 3
		}
		for i := 0; i < count; i++ {
			teams = append(teams, &game.Team{Name: defaultTeamNames[i]})
		}
		for i, p := range players {
			t := teams[i%count]
			t.Players = append(t.Players, p)
		}
	}
	return teams, nil
}

// handleAction validates and applies a client intent. State-machine
// errors are echoed back to the sender only; the match carries on.
func (r *Room) handleAction(c actionCmd) {
	if !r.started {
		c.client.SendError(protocol.ErrCodeProtocolError, "no match running")
		return
	}
	playerID := c.client.PlayerID()
	team := game.FindTeamByPlayer(r.state, playerID)
	if team == "" {
		c.client.SendError(protocol.ErrCodeJoinRejected, "player is not on a team")
		return
	}

	action := game.Action{
		Kind:      c.payload.Kind,
		Team:      team,
		HexID:     c.payload.HexID,
		IsCorrect: c.payload.IsCorrect,
		Card:      c.payload.Card,
	}

	notes, err := r.state.Apply(action)
	if err != nil {
		c.client.SendError(gameErrorCode(err), err.Error())
		return
	}

	if c.payload.QuestionID != "" {
		r.state.MarkSeen(playerID, c.payload.QuestionID)
	}
	r.finishApply(team, notes)
}

// handleBotMove plays one scripted bot turn through the normal Apply
// path. Stale timer commands are dropped by re-checking the turn.
func (r *Room) handleBotMove() {
	if !r.started || r.state.Mode != game.ModePractice {
		return
	}
	bot := r.state.Teams[r.state.ActiveTeam]
	if bot == nil || !bot.IsBot {
		return
	}

	move, ok := game.ChooseBotMove(r.state, r.state.ActiveTeam, r.tuning.Bot.SuccessRate, r.rng)
	if !ok {
		// Bot has no frontier left; it forfeits the turn.
		r.finishApply(bot.Name, r.state.SkipTurn())
		return
	}

	notes, err := r.state.Apply(game.Action{
		Kind:      game.ActionAttack,
		Team:      r.state.ActiveTeam,
		HexID:     move.HexID,
		IsCorrect: move.IsCorrect,
	})
	if err != nil {
		r.log.Warn("bot move rejected", "error", err)
		return
	}
	r.finishApply(bot.Name, notes)
}

// finishApply runs the shared post-apply steps: capture rewards, state
// broadcast, notifications, and bot scheduling.
func (r *Room) finishApply(team string, notes []game.Notification) {
	for _, n := range notes {
		if n.Kind != game.NoteCapture {
			continue
		}
		if r.rng.Intn(100) >= r.tuning.Room.RewardPercent {
			continue
		}
		card := rewardCards[r.rng.Intn(len(rewardCards))]
		if r.state.GrantCard(team, card) {
			notes = append(notes, game.Notification{
				Kind:    game.NoteCardUsed,
				Team:    team,
				Card:    card,
				Message: team + " salvaged a " + string(card) + " card",
			})
		}
	}

	r.broadcastState()
	for _, n := range notes {
		r.notify(n, "")
	}
	r.scheduleBotMove()
}

// scheduleBotMove arms the bot's think timer when it is the bot's turn.
func (r *Room) scheduleBotMove() {
	if !r.started || r.state.Mode != game.ModePractice || r.state.IsGameOver() {
		return
	}
	bot := r.state.Teams[r.state.ActiveTeam]
	if bot == nil || !bot.IsBot {
		return
	}
	time.AfterFunc(r.tuning.BotDelay(), func() {
		r.Post(botMoveCmd{})
	})
}

// broadcastState sends the authoritative state to every connected
// member. Clients replace their projection wholesale.
func (r *Room) broadcastState() {
	r.broadcast(protocol.TypeUpdateState, protocol.UpdateStatePayload{GameState: r.state})
}

// notify fans out an ephemeral notification, skipping one player.
func (r *Room) notify(n game.Notification, skip string) {
	msgType := protocol.TypeGameNotification
	if n.Kind == game.NoteCardUsed || n.Kind == game.NoteQuestionSwap {
		msgType = protocol.TypeCardNotification
	}
	payload := protocol.NotificationPayload{Notification: n}
	for name, m := range r.members {
		if name == skip || !m.connected || m.client == nil {
			continue
		}
		m.client.SendPayload(msgType, payload)
	}
}

// broadcast sends a message to every connected member.
func (r *Room) broadcast(msgType protocol.MessageType, payload interface{}) {
	for _, m := range r.members {
		if m.connected && m.client != nil {
			m.client.SendPayload(msgType, payload)
		}
	}
}

// gameErrorCode maps state-machine errors onto wire error codes.
func gameErrorCode(err error) protocol.ErrorCode {
	switch err {
	case game.ErrOutOfTurn:
		return protocol.ErrCodeOutOfTurn
	case game.ErrIllegalTarget, game.ErrUnknownHex:
		return protocol.ErrCodeIllegalTarget
	case game.ErrCardNotInHand, game.ErrUnknownCard:
		return protocol.ErrCodeCardNotInHand
	default:
		return protocol.ErrCodeInternalError
	}
}
