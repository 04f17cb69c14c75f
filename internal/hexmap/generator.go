package hexmap

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TileType marks a tile's cosmetic/bonus modifier.
type TileType string

const (
	TileNormal   TileType = "normal"
	TileEnergy   TileType = "energy"
	TileRelay    TileType = "relay"
	TileResearch TileType = "research"
	TileUnstable TileType = "unstable"
)

// specialTypes are the non-normal types eligible for sparse assignment.
var specialTypes = []TileType{TileEnergy, TileRelay, TileResearch, TileUnstable}

// TileData describes one generated tile before the game claims it.
type TileData struct {
	Hex               Hex
	Type              TileType
	Difficulty        int
	DifficultyVisible bool
	Owner             string // team name for starting tiles, empty otherwise
	Shield            int
}

// GenConfig holds map generation parameters.
type GenConfig struct {
	Radius         int   // ring count; the region has 3N²+3N+1 tiles
	StartTiles     int   // starting tiles per team
	Seed           int64 // 0 = random
	HideDifficulty bool  // generate tiles with hidden difficulty labels
}

// DefaultGenConfig returns the standard match layout.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:     3,
		StartTiles: 1,
	}
}

// Generate builds the map for the given teams: a centered hexagonal
// region with starting tiles assigned per team, sparse special types,
// and a difficulty label per tile weighted toward 2.
// It fails only when the teams cannot all receive starting tiles.
func Generate(cfg GenConfig, teams []string) (map[string]*TileData, error) {
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("negative radius %d", cfg.Radius)
	}
	startTiles := cfg.StartTiles
	if startTiles <= 0 {
		startTiles = 1
	}

	hexes := Region(cfg.Radius)
	if len(teams)*startTiles > len(hexes) {
		return nil, fmt.Errorf("%d teams need %d starting tiles but the map only has %d",
			len(teams), len(teams)*startTiles, len(hexes))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// Two independent noise layers: one clusters special tile types,
	// one skews the difficulty distribution across the map.
	typeNoise := opensimplex.NewNormalized(seed)
	diffNoise := opensimplex.NewNormalized(seed + 1)

	tiles := make(map[string]*TileData, len(hexes))
	for _, h := range hexes {
		x, y := h.ToPixel(1)
		tiles[h.Key()] = &TileData{
			Hex:               h,
			Type:              rollType(typeNoise.Eval2(x*0.6, y*0.6), rng),
			Difficulty:        rollDifficulty(diffNoise.Eval2(x*0.4, y*0.4), rng),
			DifficultyVisible: !cfg.HideDifficulty,
		}
	}

	assignStartTiles(tiles, hexes, teams, startTiles, rng)

	return tiles, nil
}

// rollType assigns a special type to a sparse subset of tiles.
// High-noise areas form loose clusters of special tiles.
func rollType(noise float64, rng *rand.Rand) TileType {
	if noise < 0.78 {
		return TileNormal
	}
	return specialTypes[rng.Intn(len(specialTypes))]
}

// rollDifficulty draws a difficulty in 1..3 weighted toward 2,
// with the noise layer nudging tiles harder or easier regionally.
func rollDifficulty(noise float64, rng *rand.Rand) int {
	roll := rng.Float64()

	// Baseline 25/50/25, shifted by up to ±10% from the noise layer.
	easyCut := 0.25 + (0.5-noise)*0.2
	hardCut := 0.75 + (0.5-noise)*0.2

	switch {
	case roll < easyCut:
		return 1
	case roll < hardCut:
		return 2
	default:
		return 3
	}
}

// assignStartTiles gives each team its starting tiles, preferring
// placements not adjacent to any other starting tile and falling back
// to any free tile when the map is too small to keep teams apart.
func assignStartTiles(tiles map[string]*TileData, hexes []Hex, teams []string, perTeam int, rng *rand.Rand) {
	order := make([]Hex, len(hexes))
	copy(order, hexes)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	taken := make(map[string]bool)

	pick := func(requireSpacing bool) *TileData {
		for _, h := range order {
			key := h.Key()
			if taken[key] {
				continue
			}
			if requireSpacing && adjacentToTaken(h, taken) {
				continue
			}
			taken[key] = true
			return tiles[key]
		}
		return nil
	}

	for _, team := range teams {
		for i := 0; i < perTeam; i++ {
			tile := pick(true)
			if tile == nil {
				tile = pick(false)
			}
			// Generate guarantees enough free tiles exist.
			tile.Owner = team
			tile.Shield = 1
		}
	}
}

func adjacentToTaken(h Hex, taken map[string]bool) bool {
	for _, n := range h.Neighbors() {
		if taken[n.Key()] {
			return true
		}
	}
	return false
}
