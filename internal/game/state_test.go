package game

import (
	"encoding/json"
	"reflect"
	"testing"

	"hexfront/internal/hexmap"
)

// newTestState builds a match on a bare radius-N map with the given
// teams. No starting tiles are assigned; tests set ownership directly.
func newTestState(teams ...*Team) *GameState {
	return newTestStateRadius(2, teams...)
}

func newTestStateRadius(radius int, teams ...*Team) *GameState {
	tiles := make(map[string]*hexmap.TileData)
	for _, h := range hexmap.Region(radius) {
		tiles[h.Key()] = &hexmap.TileData{
			Hex:               h,
			Type:              hexmap.TileNormal,
			Difficulty:        2,
			DifficultyVisible: true,
		}
	}
	return NewGameState(ModeMultiplayer, DefaultRules(), tiles, teams, nil)
}

func twoTeams() (*Team, *Team) {
	return &Team{Name: "Solar Alliance", Players: []string{"ada"}},
		&Team{Name: "Void Syndicate", Players: []string{"bela"}}
}

// own assigns a tile in tests, bypassing the state machine.
func own(g *GameState, hexID, team string, shield int) {
	tile := g.Tiles[hexID]
	tile.Owner = team
	tile.Shield = shield
}

func TestNewGameState_FirstTeamActive(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if g.ActiveTeam != "Solar Alliance" {
		t.Errorf("Expected first team active, got %q", g.ActiveTeam)
	}
	if len(g.Tiles) != 19 {
		t.Errorf("Expected 19 tiles at radius 2, got %d", len(g.Tiles))
	}
}

func TestTileCountAndShieldSum(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 3)
	own(g, "1,0,-1", a.Name, 1)
	own(g, "-1,0,1", b.Name, 2)

	if count := g.TileCount(a.Name); count != 2 {
		t.Errorf("Expected 2 tiles for %s, got %d", a.Name, count)
	}
	if sum := g.ShieldSum(a.Name); sum != 4 {
		t.Errorf("Expected shield sum 4 for %s, got %d", a.Name, sum)
	}
	if count := g.TileCount("nobody"); count != 0 {
		t.Errorf("Expected 0 tiles for unknown team, got %d", count)
	}
}

func TestFindTeamByPlayer(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if team := FindTeamByPlayer(g, "bela"); team != "Void Syndicate" {
		t.Errorf("Expected Void Syndicate, got %q", team)
	}
	if team := FindTeamByPlayer(g, "nobody"); team != "" {
		t.Errorf("Expected empty team for unknown player, got %q", team)
	}
}

func TestFindTeamByPlayer_ReconnectionScenario(t *testing.T) {
	// A client rejoining room "AB12" as Éva must resolve its team from
	// the roster alone, without further messages.
	g := newTestState(
		&Team{Name: "Kék", Players: []string{"Éva", "Márk"}},
		&Team{Name: "Piros", Players: []string{"Judit"}},
	)

	if team := FindTeamByPlayer(g, "Éva"); team != "Kék" {
		t.Errorf("Expected Éva to resolve to Kék, got %q", team)
	}
}

func TestAdvanceTurn_RoundRobin(t *testing.T) {
	a, b := twoTeams()
	c := &Team{Name: "Nebula Corps", Players: []string{"cili"}}
	g := newTestState(a, b, c)

	g.advanceTurn()
	if g.ActiveTeam != b.Name {
		t.Errorf("Expected %s active, got %q", b.Name, g.ActiveTeam)
	}
	g.advanceTurn()
	if g.ActiveTeam != c.Name {
		t.Errorf("Expected %s active, got %q", c.Name, g.ActiveTeam)
	}
	g.advanceTurn()
	if g.ActiveTeam != a.Name {
		t.Errorf("Expected rotation to wrap back to %s, got %q", a.Name, g.ActiveTeam)
	}
	if g.Round != 1 {
		t.Errorf("Expected round 1 after a full rotation, got %d", g.Round)
	}
}

func TestAdvanceTurn_SkipsEliminatedTeams(t *testing.T) {
	a, b := twoTeams()
	c := &Team{Name: "Nebula Corps", Players: []string{"cili"}}
	g := newTestState(a, b, c)

	// B has no players and no tiles: eliminated.
	b.Players = nil

	g.advanceTurn()
	if g.ActiveTeam != c.Name {
		t.Errorf("Expected rotation to skip %s and land on %s, got %q", b.Name, c.Name, g.ActiveTeam)
	}
}

func TestAdvanceTurn_TeamWithTilesButNoPlayersStillRotates(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	b.Players = nil
	own(g, "0,0,0", b.Name, 1)

	g.advanceTurn()
	if g.ActiveTeam != b.Name {
		t.Errorf("Expected tile-holding team to stay in rotation, got %q", g.ActiveTeam)
	}
}

func TestIsGameOver(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	if g.IsGameOver() {
		t.Error("Expected game not over with two eligible teams")
	}

	b.Players = nil // and no tiles
	if !g.IsGameOver() {
		t.Error("Expected game over with a single eligible team")
	}
}

func TestLeader(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "1,0,-1", b.Name, 3)
	own(g, "-1,0,1", b.Name, 1)

	if leader := g.Leader(); leader != b.Name {
		t.Errorf("Expected %s to lead, got %q", b.Name, leader)
	}
}

func TestSeenTracking(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if g.HasSeen("ada", "q1") {
		t.Error("Expected q1 unseen initially")
	}
	g.MarkSeen("ada", "q1")
	g.MarkSeen("ada", "q1") // idempotent
	if !g.HasSeen("ada", "q1") {
		t.Error("Expected q1 seen after marking")
	}
	if len(g.Seen["ada"]) != 1 {
		t.Errorf("Expected one seen entry, got %d", len(g.Seen["ada"]))
	}
	if g.HasSeen("bela", "q1") {
		t.Error("Seen set must be scoped per player")
	}
}

func TestGameState_WireRoundTrip(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 2)
	own(g, "1,-1,0", b.Name, 4)
	g.Tiles["1,-1,0"].Type = hexmap.TileRelay
	g.Tiles["1,-1,0"].DifficultyVisible = false
	a.Hand = []CardID{CardWormhole, CardAsteroid, CardAsteroid}
	b.Hand = []CardID{CardHyperspace}
	g.ActiveEffect = &ActiveEffect{Team: a.Name, Card: CardWormhole}
	g.Questions = []Question{{ID: "q1", Difficulty: 1}, {ID: "q2", Difficulty: 3}}
	g.MarkSeen("ada", "q1")

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded GameState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(&decoded, g) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", &decoded, g)
	}
}
