package game

// IsLegalTarget reports whether the team may attack the hex: the team
// already owns it, it neighbors a tile the team owns, or the team's
// active card effect grants global targeting. The host evaluates this
// authoritatively before Apply; clients may call it to pre-filter
// clicks, but their result is advisory only.
func (g *GameState) IsLegalTarget(team, hexID string) bool {
	tile := g.Tiles[hexID]
	if tile == nil {
		return false
	}
	if effect := g.teamEffect(team); effect != nil {
		if card, ok := LookupCard(effect.Card); ok && card.Deferred {
			return true
		}
	}
	if tile.Owner == team {
		return true
	}
	for _, n := range tile.Hex.Neighbors() {
		if neighbor := g.Tiles[n.Key()]; neighbor != nil && neighbor.Owner == team {
			return true
		}
	}
	return false
}

// LegalTargets returns every hex the team may currently attack.
func (g *GameState) LegalTargets(team string) []string {
	var targets []string
	for id := range g.Tiles {
		if g.IsLegalTarget(team, id) {
			targets = append(targets, id)
		}
	}
	return targets
}
