package game

import "testing"

func attack(team, hexID string, correct bool) Action {
	return Action{Kind: ActionAttack, Team: team, HexID: hexID, IsCorrect: correct}
}

func TestApply_UnknownActionKind(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if _, err := g.Apply(Action{Kind: "warp", Team: a.Name}); err == nil {
		t.Error("Expected an error for an unknown action kind")
	}
}

func TestAttack_OutOfTurn(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", b.Name, 1)

	_, err := g.Apply(attack(b.Name, "0,0,0", true))
	if err != ErrOutOfTurn {
		t.Errorf("Expected ErrOutOfTurn, got %v", err)
	}
	if g.ActiveTeam != a.Name {
		t.Error("A rejected action must not advance the turn")
	}
}

func TestAttack_UnknownHex(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if _, err := g.Apply(attack(a.Name, "9,9,-18", true)); err != ErrUnknownHex {
		t.Errorf("Expected ErrUnknownHex, got %v", err)
	}
}

func TestAttack_IllegalTarget(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)

	// Two steps away from anything A owns.
	_, err := g.Apply(attack(a.Name, "2,0,-2", true))
	if err != ErrIllegalTarget {
		t.Errorf("Expected ErrIllegalTarget, got %v", err)
	}
	if g.Tiles["2,0,-2"].Owner != "" {
		t.Error("A rejected attack must not mutate the target")
	}
}

func TestAttack_ClaimNeutralTile(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)

	notes, err := g.Apply(attack(a.Name, "1,0,-1", true))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tile := g.Tiles["1,0,-1"]
	if tile.Owner != a.Name || tile.Shield != 1 {
		t.Errorf("Expected claim with shield 1, got owner=%q shield=%d", tile.Owner, tile.Shield)
	}
	if g.ActiveTeam != b.Name {
		t.Errorf("Expected turn to pass to %s, got %q", b.Name, g.ActiveTeam)
	}
	if notes[0].Kind != NoteClaim {
		t.Errorf("Expected claim notification, got %q", notes[0].Kind)
	}
}

func TestAttack_ReinforceOwnTile(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)

	if _, err := g.Apply(attack(a.Name, "0,0,0", true)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if shield := g.Tiles["0,0,0"].Shield; shield != 2 {
		t.Errorf("Expected shield 2 after reinforcement, got %d", shield)
	}
}

func TestAttack_ReinforceCapsAtMaxShield(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, g.Rules.MaxShield)

	if _, err := g.Apply(attack(a.Name, "0,0,0", true)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if shield := g.Tiles["0,0,0"].Shield; shield != g.Rules.MaxShield {
		t.Errorf("Expected shield capped at %d, got %d", g.Rules.MaxShield, shield)
	}
}

func TestAttack_HitDecrementsEnemyShield(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "1,0,-1", b.Name, 3)

	notes, err := g.Apply(attack(a.Name, "1,0,-1", true))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tile := g.Tiles["1,0,-1"]
	if tile.Owner != b.Name || tile.Shield != 2 {
		t.Errorf("Expected %s to keep the tile at shield 2, got owner=%q shield=%d", b.Name, tile.Owner, tile.Shield)
	}
	if notes[0].Kind != NoteHit {
		t.Errorf("Expected hit notification, got %q", notes[0].Kind)
	}
}

func TestAttack_CaptureResetsShieldToOne(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "1,0,-1", b.Name, 1)

	notes, err := g.Apply(attack(a.Name, "1,0,-1", true))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tile := g.Tiles["1,0,-1"]
	if tile.Owner != a.Name || tile.Shield != 1 {
		t.Errorf("Expected capture with shield 1, got owner=%q shield=%d", tile.Owner, tile.Shield)
	}
	if notes[0].Kind != NoteCapture {
		t.Errorf("Expected capture notification, got %q", notes[0].Kind)
	}
}

func TestAttack_WrongAnswerMutatesNothingButAdvancesTurn(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 2)
	own(g, "1,0,-1", b.Name, 3)

	notes, err := g.Apply(attack(a.Name, "1,0,-1", false))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for id, tile := range g.Tiles {
		switch id {
		case "0,0,0":
			if tile.Owner != a.Name || tile.Shield != 2 {
				t.Errorf("Tile %s changed on a missed attack", id)
			}
		case "1,0,-1":
			if tile.Owner != b.Name || tile.Shield != 3 {
				t.Errorf("Tile %s changed on a missed attack", id)
			}
		default:
			if tile.Owner != "" || tile.Shield != 0 {
				t.Errorf("Tile %s changed on a missed attack", id)
			}
		}
	}
	if g.ActiveTeam != b.Name {
		t.Errorf("Expected turn to advance after a miss, got %q", g.ActiveTeam)
	}
	if notes[0].Kind != NoteMiss {
		t.Errorf("Expected miss notification, got %q", notes[0].Kind)
	}
}

func TestAttack_SupernovaForcesCapture(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "2,0,-2", b.Name, 5) // out of adjacency range
	a.Hand = []CardID{CardSupernova}

	if _, err := g.Apply(Action{Kind: ActionCardUse, Team: a.Name, Card: CardSupernova}); err != nil {
		t.Fatalf("Card use failed: %v", err)
	}
	if g.ActiveTeam != a.Name {
		t.Error("Playing a deferred card must not advance the turn")
	}

	notes, err := g.Apply(attack(a.Name, "2,0,-2", true))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tile := g.Tiles["2,0,-2"]
	if tile.Owner != a.Name || tile.Shield != 1 {
		t.Errorf("Expected forced capture with shield 1, got owner=%q shield=%d", tile.Owner, tile.Shield)
	}
	if notes[0].Kind != NoteCapture || notes[0].Card != CardSupernova {
		t.Errorf("Expected supernova capture notification, got %+v", notes[0])
	}
	if g.ActiveEffect != nil {
		t.Error("Expected the active effect to be consumed by the attack")
	}
}

func TestAttack_EffectConsumedEvenOnMiss(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "2,0,-2", b.Name, 2)
	a.Hand = []CardID{CardWormhole}

	if _, err := g.Apply(Action{Kind: ActionCardUse, Team: a.Name, Card: CardWormhole}); err != nil {
		t.Fatalf("Card use failed: %v", err)
	}
	if _, err := g.Apply(attack(a.Name, "2,0,-2", false)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if g.ActiveEffect != nil {
		t.Error("Expected the wormhole effect to be consumed by the missed attack")
	}
	if tile := g.Tiles["2,0,-2"]; tile.Owner != b.Name || tile.Shield != 2 {
		t.Error("A missed wormhole attack must not mutate the target")
	}
}

func TestAttack_ResetsForceFieldCap(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "1,0,-1", b.Name, 2)
	g.Tiles["1,0,-1"].ShieldCap = g.Rules.MaxShield + 2

	if _, err := g.Apply(attack(a.Name, "1,0,-1", false)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if cap := g.Tiles["1,0,-1"].ShieldCap; cap != g.Rules.MaxShield {
		t.Errorf("Expected shield cap reset to %d after an enemy attack, got %d", g.Rules.MaxShield, cap)
	}
}

func TestAttack_CaptureStripsRaisedShieldCap(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "2,0,-2", b.Name, 2)
	g.Tiles["2,0,-2"].ShieldCap = g.Rules.MaxShield + 2
	a.Hand = []CardID{CardSupernova}

	if _, err := g.Apply(useCard(a.Name, CardSupernova, "")); err != nil {
		t.Fatalf("Card use failed: %v", err)
	}
	if _, err := g.Apply(attack(a.Name, "2,0,-2", true)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tile := g.Tiles["2,0,-2"]
	if tile.Owner != a.Name {
		t.Fatalf("Expected capture, got owner %q", tile.Owner)
	}
	if tile.ShieldCap != g.Rules.MaxShield {
		t.Errorf("Expected the defender's raised cap stripped on capture, got %d", tile.ShieldCap)
	}
}

func TestSkipTurn(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	notes := g.SkipTurn()
	if g.ActiveTeam != b.Name {
		t.Errorf("Expected the turn to pass to %s, got %q", b.Name, g.ActiveTeam)
	}
	if len(notes) == 0 || notes[0].Kind != NoteTurnChange {
		t.Errorf("Expected a turn-change notification, got %+v", notes)
	}
}

func TestAttack_RotationSkipsEliminatedTeam(t *testing.T) {
	a, b := twoTeams()
	c := &Team{Name: "Nebula Corps", Players: []string{"cili"}}
	g := newTestState(a, b, c)
	own(g, "0,0,0", a.Name, 1)
	b.Players = nil // no players and no tiles: out of rotation

	if _, err := g.Apply(attack(a.Name, "1,0,-1", true)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if g.ActiveTeam != c.Name {
		t.Errorf("Expected rotation to skip %s, got %q", b.Name, g.ActiveTeam)
	}
}
