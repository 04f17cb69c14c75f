package game

import (
	"sort"
	"testing"
)

func TestIsLegalTarget_OwnAndAdjacent(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)

	if !g.IsLegalTarget(a.Name, "0,0,0") {
		t.Error("Expected an owned tile to be a legal target")
	}
	for _, n := range g.Tiles["0,0,0"].Hex.Neighbors() {
		if !g.IsLegalTarget(a.Name, n.Key()) {
			t.Errorf("Expected neighbor %s to be a legal target", n.Key())
		}
	}
	if g.IsLegalTarget(a.Name, "2,0,-2") {
		t.Error("Expected a tile two steps away to be out of reach")
	}
	if g.IsLegalTarget(a.Name, "9,9,-18") {
		t.Error("Expected a hex outside the map to be illegal")
	}
}

func TestIsLegalTarget_EnemyAdjacency(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	own(g, "1,0,-1", b.Name, 2)

	if !g.IsLegalTarget(a.Name, "1,0,-1") {
		t.Error("Expected an adjacent enemy tile to be a legal target")
	}
	// B's reach is symmetric.
	if !g.IsLegalTarget(b.Name, "0,0,0") {
		t.Error("Expected the enemy's adjacent tile to be a legal target for B")
	}
}

func TestIsLegalTarget_DeferredEffectIsGlobal(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)
	own(g, "0,0,0", a.Name, 1)
	g.ActiveEffect = &ActiveEffect{Team: a.Name, Card: CardWormhole}

	if !g.IsLegalTarget(a.Name, "2,0,-2") {
		t.Error("Expected a wormhole to make any hex a legal target")
	}
	// The effect belongs to A and must not extend B's reach.
	if g.IsLegalTarget(b.Name, "2,0,-2") {
		t.Error("Expected the wormhole to apply only to its owner")
	}
	// Even with a wormhole, targets must exist on the map.
	if g.IsLegalTarget(a.Name, "9,9,-18") {
		t.Error("Expected a hex outside the map to stay illegal")
	}
}

func TestLegalTargets_Enumeration(t *testing.T) {
	a, b := twoTeams()
	g := newTestStateRadius(1, a, b)
	own(g, "0,0,0", a.Name, 1)

	// The center of a radius-1 map reaches everything.
	targets := g.LegalTargets(a.Name)
	if len(targets) != 7 {
		t.Errorf("Expected all 7 tiles reachable from the center, got %d", len(targets))
	}

	// A corner tile reaches itself and its in-grid neighbors only.
	g2 := newTestStateRadius(1, a, b)
	own(g2, "1,0,-1", a.Name, 1)
	targets = g2.LegalTargets(a.Name)
	sort.Strings(targets)
	want := []string{"0,0,0", "0,1,-1", "1,-1,0", "1,0,-1"}
	if len(targets) != len(want) {
		t.Fatalf("Expected %d reachable tiles from a corner, got %v", len(want), targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("Reachable set mismatch: got %v, want %v", targets, want)
			break
		}
	}
}

func TestLegalTargets_NoTilesNoTargets(t *testing.T) {
	a, b := twoTeams()
	g := newTestState(a, b)

	if targets := g.LegalTargets(a.Name); len(targets) != 0 {
		t.Errorf("Expected no targets for a landless team, got %v", targets)
	}
}
