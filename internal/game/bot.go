package game

import (
	"math/rand"
	"sort"
)

// BotSuccessRate is the fixed probability that the bot "answers"
// correctly when no tuning overrides it.
const BotSuccessRate = 0.7

// BotMove is the bot's chosen action for one turn.
type BotMove struct {
	HexID     string
	IsCorrect bool
}

// ChooseBotMove picks a target for the bot team: every hex adjacent to
// a bot-owned tile, deduplicated, one chosen uniformly at random, with
// a synthetic answer outcome. The caller submits the result through the
// same Apply path as human actions; the bot has no privileged path.
func ChooseBotMove(g *GameState, botTeam string, successRate float64, rng *rand.Rand) (BotMove, bool) {
	frontier := make(map[string]bool)
	for _, tile := range g.Tiles {
		if tile.Owner != botTeam {
			continue
		}
		for _, n := range tile.Hex.Neighbors() {
			key := n.Key()
			if g.Tiles[key] != nil {
				frontier[key] = true
			}
		}
	}
	if len(frontier) == 0 {
		return BotMove{}, false
	}

	// Sorted for a deterministic pick under a seeded rng.
	targets := make([]string, 0, len(frontier))
	for key := range frontier {
		targets = append(targets, key)
	}
	sort.Strings(targets)

	if successRate <= 0 {
		successRate = BotSuccessRate
	}
	return BotMove{
		HexID:     targets[rng.Intn(len(targets))],
		IsCorrect: rng.Float64() < successRate,
	}, true
}
