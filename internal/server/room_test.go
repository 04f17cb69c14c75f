package server

import (
	"math/rand"
	"testing"

	"hexfront/internal/game"
	"hexfront/internal/protocol"
)

func TestNewRoomCode_Format(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		code := NewRoomCode(rng)
		if len(code) != 4 {
			t.Fatalf("Expected a 4-character code, got %q", code)
		}
		for _, c := range code[:2] {
			if c < 'A' || c > 'Z' || c == 'I' || c == 'O' {
				t.Errorf("Code %q has an ambiguous or invalid letter", code)
			}
		}
		for _, c := range code[2:] {
			if c < '2' || c > '9' {
				t.Errorf("Code %q has an ambiguous or invalid digit", code)
			}
		}
	}
}

func testRoom(names ...string) *Room {
	r := &Room{
		Code:    "AB12",
		members: make(map[string]*member),
		rng:     rand.New(rand.NewSource(1)),
	}
	for _, n := range names {
		r.members[n] = &member{name: n, connected: true}
	}
	return r
}

func TestAssignTeams_TwoTeamsByDefault(t *testing.T) {
	r := testRoom("ada", "bela", "cili", "dora")

	teams, err := r.assignTeams(game.ModeMultiplayer, nil)
	if err != nil {
		t.Fatalf("assignTeams failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("Expected 2 teams for 4 players, got %d", len(teams))
	}
	total := 0
	for _, team := range teams {
		if len(team.Players) != 2 {
			t.Errorf("Expected a balanced split, team %s has %d players", team.Name, len(team.Players))
		}
		total += len(team.Players)
	}
	if total != 4 {
		t.Errorf("Expected every player assigned, got %d", total)
	}
}

func TestAssignTeams_ThreeTeamsForLargeRooms(t *testing.T) {
	r := testRoom("p1", "p2", "p3", "p4", "p5", "p6", "p7")

	teams, err := r.assignTeams(game.ModeMultiplayer, nil)
	if err != nil {
		t.Fatalf("assignTeams failed: %v", err)
	}
	if len(teams) != 3 {
		t.Errorf("Expected 3 teams for 7 players, got %d", len(teams))
	}
}

func TestAssignTeams_PracticeModeAddsBot(t *testing.T) {
	r := testRoom("ada")

	teams, err := r.assignTeams(game.ModePractice, nil)
	if err != nil {
		t.Fatalf("assignTeams failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("Expected a human team plus the bot, got %d teams", len(teams))
	}
	if !teams[1].IsBot || teams[1].Name != game.BotTeamName {
		t.Errorf("Expected the bot team second, got %+v", teams[1])
	}
	if len(teams[0].Players) != 1 || teams[0].Players[0] != "ada" {
		t.Errorf("Expected all humans on one team, got %+v", teams[0])
	}
}

func TestAssignTeams_CustomAssignmentWins(t *testing.T) {
	r := testRoom("ada", "bela")

	custom := map[string][]string{
		"Kék":   {"ada"},
		"Piros": {"bela"},
	}
	teams, err := r.assignTeams(game.ModeMultiplayer, custom)
	if err != nil {
		t.Fatalf("assignTeams failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("Expected 2 custom teams, got %d", len(teams))
	}
	rosters := make(map[string]string)
	for _, team := range teams {
		for _, p := range team.Players {
			rosters[p] = team.Name
		}
	}
	if rosters["ada"] != "Kék" || rosters["bela"] != "Piros" {
		t.Errorf("Custom rosters not honored: %v", rosters)
	}
}

func TestGameErrorCode_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want protocol.ErrorCode
	}{
		{game.ErrOutOfTurn, protocol.ErrCodeOutOfTurn},
		{game.ErrIllegalTarget, protocol.ErrCodeIllegalTarget},
		{game.ErrUnknownHex, protocol.ErrCodeIllegalTarget},
		{game.ErrCardNotInHand, protocol.ErrCodeCardNotInHand},
		{game.ErrUnknownCard, protocol.ErrCodeCardNotInHand},
		{game.ErrGameOver, protocol.ErrCodeInternalError},
	}
	for _, tc := range cases {
		if got := gameErrorCode(tc.err); got != tc.want {
			t.Errorf("gameErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
