package game

import "fmt"

// ActionKind discriminates the two action types Apply accepts.
type ActionKind string

const (
	ActionAttack  ActionKind = "attack"
	ActionCardUse ActionKind = "card_use"
)

// Action is a validated request against the state machine. IsCorrect is
// decided by the question-answer flow before Apply is called; the state
// machine never judges answers itself.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Team      string     `json:"team"`
	HexID     string     `json:"hexId,omitempty"`
	IsCorrect bool       `json:"isCorrect,omitempty"`
	Card      CardID     `json:"card,omitempty"`
}

// NotificationKind classifies derived notifications.
type NotificationKind string

const (
	NoteCapture      NotificationKind = "capture"
	NoteReinforce    NotificationKind = "reinforce"
	NoteClaim        NotificationKind = "claim"
	NoteHit          NotificationKind = "hit"
	NoteMiss         NotificationKind = "miss"
	NoteCardUsed     NotificationKind = "card_used"
	NoteQuestionSwap NotificationKind = "question_swap"
	NoteTurnChange   NotificationKind = "turn_change"
	NoteGameOver     NotificationKind = "game_over"
)

// Notification describes an outcome for display. Notifications are
// ephemeral and never part of durable state.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Team    string           `json:"team,omitempty"`
	HexID   string           `json:"hexId,omitempty"`
	Card    CardID           `json:"card,omitempty"`
	Message string           `json:"message"`
}

// Apply is the single state-transition entry point. It validates the
// action fully before mutating anything, so an error always leaves the
// state unchanged.
func (g *GameState) Apply(action Action) ([]Notification, error) {
	switch action.Kind {
	case ActionAttack:
		return g.applyAttack(action)
	case ActionCardUse:
		return g.applyCardUse(action)
	default:
		return nil, fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

func (g *GameState) applyAttack(action Action) ([]Notification, error) {
	if action.Team != g.ActiveTeam {
		return nil, ErrOutOfTurn
	}
	tile := g.Tiles[action.HexID]
	if tile == nil {
		return nil, ErrUnknownHex
	}

	effect := g.teamEffect(action.Team)
	if !g.IsLegalTarget(action.Team, action.HexID) {
		return nil, ErrIllegalTarget
	}

	// Resolved before resolveHit, which may transfer ownership.
	defender := tile.Owner

	var notes []Notification

	if action.IsCorrect {
		notes = append(notes, g.resolveHit(action.Team, tile, effect))
	} else {
		notes = append(notes, Notification{
			Kind:    NoteMiss,
			Team:    action.Team,
			HexID:   tile.ID,
			Message: fmt.Sprintf("%s answered wrong; %s holds", action.Team, describeTile(tile)),
		})
	}

	// A force field lasts until the next enemy attack on the tile,
	// whether or not the answer was correct. This also strips the
	// raised cap from a tile the attacker just captured.
	if defender != "" && defender != action.Team {
		tile.ShieldCap = g.Rules.MaxShield
	}

	g.ActiveEffect = nil
	notes = append(notes, g.advanceAndNote()...)
	return notes, nil
}

// SkipTurn passes the turn without an action, for a team that has no
// legal move left.
func (g *GameState) SkipTurn() []Notification {
	return g.advanceAndNote()
}

// advanceAndNote rotates the active team and returns the derived
// turn-change and game-over notifications.
func (g *GameState) advanceAndNote() []Notification {
	g.advanceTurn()
	notes := []Notification{{
		Kind:    NoteTurnChange,
		Team:    g.ActiveTeam,
		Message: fmt.Sprintf("%s is up", g.ActiveTeam),
	}}
	if g.IsGameOver() {
		notes = append(notes, Notification{
			Kind:    NoteGameOver,
			Team:    g.Leader(),
			Message: fmt.Sprintf("%s controls the sector", g.Leader()),
		})
	}
	return notes
}

// resolveHit mutates the target tile for a correct answer and returns
// the outcome notification.
func (g *GameState) resolveHit(team string, tile *Tile, effect *ActiveEffect) Notification {
	forceCapture := effect != nil && effect.Card == CardSupernova

	switch {
	case tile.Owner == "":
		tile.Owner = team
		tile.Shield = 1
		return Notification{
			Kind:    NoteClaim,
			Team:    team,
			HexID:   tile.ID,
			Message: fmt.Sprintf("%s claimed %s", team, tile.ID),
		}

	case tile.Owner == team:
		if tile.Shield < tile.ShieldCap {
			tile.Shield++
		}
		return Notification{
			Kind:    NoteReinforce,
			Team:    team,
			HexID:   tile.ID,
			Message: fmt.Sprintf("%s reinforced %s to shield %d", team, tile.ID, tile.Shield),
		}

	default:
		if forceCapture {
			defender := tile.Owner
			tile.Owner = team
			tile.Shield = 1
			return Notification{
				Kind:    NoteCapture,
				Team:    team,
				HexID:   tile.ID,
				Card:    CardSupernova,
				Message: fmt.Sprintf("%s obliterated %s and took %s", team, defender, tile.ID),
			}
		}
		tile.Shield--
		if tile.Shield <= 0 {
			defender := tile.Owner
			tile.Owner = team
			tile.Shield = 1
			return Notification{
				Kind:    NoteCapture,
				Team:    team,
				HexID:   tile.ID,
				Message: fmt.Sprintf("%s captured %s from %s", team, tile.ID, defender),
			}
		}
		return Notification{
			Kind:    NoteHit,
			Team:    team,
			HexID:   tile.ID,
			Message: fmt.Sprintf("%s hit %s, shield down to %d", team, tile.ID, tile.Shield),
		}
	}
}

func (g *GameState) applyCardUse(action Action) ([]Notification, error) {
	if action.Team != g.ActiveTeam {
		return nil, ErrOutOfTurn
	}
	team := g.Teams[action.Team]
	if team == nil {
		return nil, ErrUnknownTeam
	}
	card, ok := LookupCard(action.Card)
	if !ok {
		return nil, ErrUnknownCard
	}
	if !team.HasCard(card.ID) {
		return nil, ErrCardNotInHand
	}

	var target *Tile
	switch card.Target {
	case TargetOwn:
		target = g.Tiles[action.HexID]
		if target == nil {
			return nil, ErrUnknownHex
		}
		if target.Owner != action.Team {
			return nil, ErrIllegalTarget
		}
	case TargetEnemy:
		target = g.Tiles[action.HexID]
		if target == nil {
			return nil, ErrUnknownHex
		}
		if target.Owner == "" || target.Owner == action.Team {
			return nil, ErrIllegalTarget
		}
	}

	// Validation done; consume the card and apply its effect.
	team.RemoveCard(card.ID)

	used := Notification{
		Kind:    NoteCardUsed,
		Team:    action.Team,
		Card:    card.ID,
		HexID:   action.HexID,
		Message: fmt.Sprintf("%s played %s", action.Team, card.Name),
	}

	switch card.ID {
	case CardAsteroid:
		defender := target.Owner
		target.Owner = ""
		target.Shield = 0
		target.ShieldCap = g.Rules.MaxShield
		used.Message = fmt.Sprintf("%s smashed %s off %s", action.Team, defender, target.ID)

	case CardForceField:
		cap := g.Rules.MaxShield + g.Rules.ShieldCapBonus
		if target.ShieldCap < cap {
			target.ShieldCap++
		}
		if target.Shield < target.ShieldCap {
			target.Shield++
		}
		used.Message = fmt.Sprintf("%s shielded %s (shield %d/%d)", action.Team, target.ID, target.Shield, target.ShieldCap)

	case CardWormhole, CardSupernova:
		g.ActiveEffect = &ActiveEffect{Team: action.Team, Card: card.ID}

	case CardHyperspace:
		return []Notification{used, {
			Kind:    NoteQuestionSwap,
			Team:    action.Team,
			Message: fmt.Sprintf("%s jumped to a different question", action.Team),
		}}, nil

	case CardNavProbe, CardTimeDilation:
		// Hint and timer effects are realized entirely in the
		// question UI; the map is untouched.
	}

	return []Notification{used}, nil
}

// teamEffect returns the active card effect if it belongs to the team.
func (g *GameState) teamEffect(team string) *ActiveEffect {
	if g.ActiveEffect != nil && g.ActiveEffect.Team == team {
		return g.ActiveEffect
	}
	return nil
}

func describeTile(t *Tile) string {
	if t.Owner == "" {
		return "the neutral tile"
	}
	return t.Owner
}
