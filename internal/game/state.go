// Package game contains the core rules for the territory conquest
// minigame. This package is shared between client and server: the host
// applies actions authoritatively and clients reuse the same legality
// checks to pre-filter input.
package game

import (
	"github.com/google/uuid"

	"hexfront/internal/hexmap"
)

// Mode selects how a match is run.
type Mode string

const (
	ModeMultiplayer Mode = "multiplayer"
	ModePractice    Mode = "practice" // one human team against the bot
)

// BotTeamName is the reserved team name for the practice-mode opponent.
const BotTeamName = "Nova Swarm"

// Tile is one cell of the map. Owner and Shield are mutated only by
// Apply; everything else is fixed at generation time.
type Tile struct {
	ID                string          `json:"id"`
	Hex               hexmap.Hex      `json:"hex"`
	Owner             string          `json:"owner,omitempty"` // team name, empty if neutral
	Shield            int             `json:"shield"`
	ShieldCap         int             `json:"shieldCap"`
	Type              hexmap.TileType `json:"type"`
	Difficulty        int             `json:"difficulty"`
	DifficultyVisible bool            `json:"difficultyVisible"`
}

// Team is a named group of players with a bounded hand of cards.
type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Hand    []CardID `json:"hand"`
	IsBot   bool     `json:"isBot,omitempty"`
}

// Question is an entry in the shared pool. The engine only cares about
// identity and difficulty; content lives in the question collaborator.
type Question struct {
	ID         string `json:"id"`
	Difficulty int    `json:"difficulty"`
}

// ActiveEffect is the single in-flight card modifier, set by a deferred
// card and consumed by the owning team's next attack.
type ActiveEffect struct {
	Team string `json:"team"`
	Card CardID `json:"card"`
}

// Rules are the tunable rule parameters of a match.
type Rules struct {
	MaxShield      int `json:"maxShield" yaml:"max_shield"`
	MaxHandSize    int `json:"maxHandSize" yaml:"max_hand_size"`
	ShieldCapBonus int `json:"shieldCapBonus" yaml:"shield_cap_bonus"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		MaxShield:      5,
		MaxHandSize:    5,
		ShieldCapBonus: 2,
	}
}

// GameState is the aggregate root of a running match. It is owned by a
// single goroutine on the host; clients hold read-only projections
// replaced wholesale on every update.
type GameState struct {
	ID           string              `json:"id"`
	Mode         Mode                `json:"mode"`
	Rules        Rules               `json:"rules"`
	Round        int                 `json:"round"`
	Tiles        map[string]*Tile    `json:"tiles"`
	Teams        map[string]*Team    `json:"teams"`
	TeamOrder    []string            `json:"teamOrder"`
	ActiveTeam   string              `json:"activeTeam"`
	ActiveEffect *ActiveEffect       `json:"activeEffect,omitempty"`
	Questions    []Question          `json:"questions"`
	Seen         map[string][]string `json:"seen"` // player ID -> question IDs already shown
}

// NewGameState builds a match from generated tiles and team rosters.
func NewGameState(mode Mode, rules Rules, tiles map[string]*hexmap.TileData, teams []*Team, questions []Question) *GameState {
	g := &GameState{
		ID:        uuid.New().String(),
		Mode:      mode,
		Rules:     rules,
		Tiles:     make(map[string]*Tile, len(tiles)),
		Teams:     make(map[string]*Team, len(teams)),
		TeamOrder: make([]string, 0, len(teams)),
		Questions: questions,
		Seen:      make(map[string][]string),
	}

	for key, td := range tiles {
		g.Tiles[key] = &Tile{
			ID:                key,
			Hex:               td.Hex,
			Owner:             td.Owner,
			Shield:            td.Shield,
			ShieldCap:         rules.MaxShield,
			Type:              td.Type,
			Difficulty:        td.Difficulty,
			DifficultyVisible: td.DifficultyVisible,
		}
	}

	for _, t := range teams {
		g.Teams[t.Name] = t
		g.TeamOrder = append(g.TeamOrder, t.Name)
	}
	if len(g.TeamOrder) > 0 {
		g.ActiveTeam = g.TeamOrder[0]
	}

	return g
}

// TileCount returns how many tiles the team owns.
func (g *GameState) TileCount(team string) int {
	count := 0
	for _, t := range g.Tiles {
		if t.Owner == team {
			count++
		}
	}
	return count
}

// ShieldSum returns the total shield across the team's tiles.
func (g *GameState) ShieldSum(team string) int {
	sum := 0
	for _, t := range g.Tiles {
		if t.Owner == team {
			sum += t.Shield
		}
	}
	return sum
}

// FindTeamByPlayer returns the name of the team whose roster contains
// the player, or "" if none does. O(teams × roster), which is fine for
// the small team counts this game supports.
func FindTeamByPlayer(g *GameState, playerID string) string {
	for _, team := range g.Teams {
		for _, p := range team.Players {
			if p == playerID {
				return team.Name
			}
		}
	}
	return ""
}

// eligible reports whether the team still takes turns: it holds at
// least one tile or has at least one rostered player.
func (g *GameState) eligible(name string) bool {
	team := g.Teams[name]
	if team == nil {
		return false
	}
	return len(team.Players) > 0 || g.TileCount(name) > 0
}

// advanceTurn moves ActiveTeam to the next eligible team in round-robin
// order. When no other team is eligible the active team keeps the turn.
func (g *GameState) advanceTurn() {
	if len(g.TeamOrder) == 0 {
		return
	}
	current := 0
	for i, name := range g.TeamOrder {
		if name == g.ActiveTeam {
			current = i
			break
		}
	}
	for step := 1; step <= len(g.TeamOrder); step++ {
		idx := (current + step) % len(g.TeamOrder)
		if g.eligible(g.TeamOrder[idx]) {
			if idx <= current {
				g.Round++
			}
			g.ActiveTeam = g.TeamOrder[idx]
			return
		}
	}
}

// IsGameOver reports whether at most one team can still act.
func (g *GameState) IsGameOver() bool {
	eligible := 0
	for _, name := range g.TeamOrder {
		if g.eligible(name) {
			eligible++
		}
	}
	return eligible <= 1
}

// Leader returns the team with the most tiles, ties broken by shield
// sum and then team order.
func (g *GameState) Leader() string {
	leader := ""
	bestTiles, bestShield := -1, -1
	for _, name := range g.TeamOrder {
		tiles, shield := g.TileCount(name), g.ShieldSum(name)
		if tiles > bestTiles || (tiles == bestTiles && shield > bestShield) {
			leader, bestTiles, bestShield = name, tiles, shield
		}
	}
	return leader
}

// MarkSeen records that the player has been shown the question.
func (g *GameState) MarkSeen(playerID, questionID string) {
	for _, id := range g.Seen[playerID] {
		if id == questionID {
			return
		}
	}
	g.Seen[playerID] = append(g.Seen[playerID], questionID)
}

// HasSeen reports whether the player has been shown the question.
func (g *GameState) HasSeen(playerID, questionID string) bool {
	for _, id := range g.Seen[playerID] {
		if id == questionID {
			return true
		}
	}
	return false
}
