package game

// CardID identifies a power-up card in the catalog.
type CardID string

const (
	CardAsteroid     CardID = "asteroid"
	CardForceField   CardID = "force_field"
	CardWormhole     CardID = "wormhole"
	CardSupernova    CardID = "supernova"
	CardNavProbe     CardID = "nav_probe"
	CardTimeDilation CardID = "time_dilation"
	CardHyperspace   CardID = "hyperspace"
)

// CardCategory groups cards by how they are used.
type CardCategory string

const (
	CategoryOffensive CardCategory = "offensive"
	CategoryDefensive CardCategory = "defensive"
	CategoryTactical  CardCategory = "tactical"
)

// TargetRule describes what a card may be played on.
type TargetRule string

const (
	TargetNone  TargetRule = "none"  // no target hex
	TargetOwn   TargetRule = "own"   // a tile the acting team owns
	TargetEnemy TargetRule = "enemy" // a tile another team owns
)

// Card is an immutable catalog entry.
type Card struct {
	ID          CardID       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    CardCategory `json:"category"`
	Target      TargetRule   `json:"target"`
	// Deferred cards are stored as the active card effect on use and
	// consumed by the team's next attack instead of acting immediately.
	Deferred bool `json:"deferred"`
	// NeedsQuestion restricts the card to while a question is on screen.
	NeedsQuestion bool `json:"needsQuestion"`
}

// catalog is the process-wide card lookup table. It is initialized once
// and never mutated.
var catalog = map[CardID]Card{
	CardAsteroid: {
		ID:          CardAsteroid,
		Name:        "Asteroid Strike",
		Description: "Wipes an enemy tile's shield and returns it to neutral",
		Category:    CategoryOffensive,
		Target:      TargetEnemy,
	},
	CardForceField: {
		ID:          CardForceField,
		Name:        "Force Field",
		Description: "Raises a tile's shield cap until the next enemy attack on it",
		Category:    CategoryDefensive,
		Target:      TargetOwn,
	},
	CardWormhole: {
		ID:          CardWormhole,
		Name:        "Wormhole",
		Description: "Next attack may target any tile on the map",
		Category:    CategoryOffensive,
		Target:      TargetNone,
		Deferred:    true,
	},
	CardSupernova: {
		ID:          CardSupernova,
		Name:        "Supernova",
		Description: "Next attack may target any tile and captures it outright",
		Category:    CategoryOffensive,
		Target:      TargetNone,
		Deferred:    true,
	},
	CardNavProbe: {
		ID:          CardNavProbe,
		Name:        "Navigation Probe",
		Description: "Reveals a hint for the current question",
		Category:    CategoryTactical,
		Target:      TargetNone,
	},
	CardTimeDilation: {
		ID:          CardTimeDilation,
		Name:        "Time Dilation",
		Description: "Grants extra time on the current question",
		Category:    CategoryTactical,
		Target:      TargetNone,
	},
	CardHyperspace: {
		ID:            CardHyperspace,
		Name:          "Hyperspace Jump",
		Description:   "Swaps the current question for a new one of the same difficulty",
		Category:      CategoryTactical,
		Target:        TargetNone,
		NeedsQuestion: true,
	},
}

// LookupCard returns the catalog entry for a card ID.
func LookupCard(id CardID) (Card, bool) {
	c, ok := catalog[id]
	return c, ok
}

// AllCards returns every card in the catalog.
func AllCards() []Card {
	cards := make([]Card, 0, len(catalog))
	for _, c := range catalog {
		cards = append(cards, c)
	}
	return cards
}

// HasCard reports whether the team holds at least one instance of the card.
func (t *Team) HasCard(id CardID) bool {
	for _, c := range t.Hand {
		if c == id {
			return true
		}
	}
	return false
}

// RemoveCard removes one instance of the card from the team's hand.
// Returns false if the card is not in the hand.
func (t *Team) RemoveCard(id CardID) bool {
	for i, c := range t.Hand {
		if c == id {
			t.Hand = append(t.Hand[:i], t.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// GrantCard adds a card to the team's hand, respecting the hand limit.
// Returns false when the hand is full or the card is unknown.
func (g *GameState) GrantCard(team string, id CardID) bool {
	t := g.Teams[team]
	if t == nil {
		return false
	}
	if _, ok := catalog[id]; !ok {
		return false
	}
	if len(t.Hand) >= g.Rules.MaxHandSize {
		return false
	}
	t.Hand = append(t.Hand, id)
	return true
}
