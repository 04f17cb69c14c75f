package game

import "math/rand"

// DrawQuestion picks a question of the requested difficulty for the
// player, falling back gracefully when the pool runs thin:
// an unseen question of the requested difficulty, then any question of
// the requested difficulty, then any question at all.
func (g *GameState) DrawQuestion(playerID string, difficulty int, rng *rand.Rand) (Question, error) {
	if len(g.Questions) == 0 {
		return Question{}, ErrNoQuestion
	}

	var unseen, sameDifficulty []Question
	for _, q := range g.Questions {
		if q.Difficulty == difficulty {
			sameDifficulty = append(sameDifficulty, q)
			if !g.HasSeen(playerID, q.ID) {
				unseen = append(unseen, q)
			}
		}
	}

	pool := unseen
	if len(pool) == 0 {
		pool = sameDifficulty
	}
	if len(pool) == 0 {
		pool = g.Questions
	}

	q := pool[rng.Intn(len(pool))]
	g.MarkSeen(playerID, q.ID)
	return q, nil
}
