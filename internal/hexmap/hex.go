// Package hexmap provides the hexagonal map model: cube coordinates,
// neighbor enumeration, distance, pixel projection, and map generation.
package hexmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hex is a position on the grid in cube coordinates.
// Valid coordinates satisfy Q + R + S == 0.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// NewHex creates a hex from axial coordinates, deriving S.
func NewHex(q, r int) Hex {
	return Hex{Q: q, R: r, S: -q - r}
}

// directions lists the six neighbor offsets in a fixed order,
// starting east of the tile and going counterclockwise.
var directions = [6]Hex{
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
	{Q: 0, R: 1, S: -1},
}

// Neighbors returns the six adjacent hexes in direction order.
func (h Hex) Neighbors() [6]Hex {
	var result [6]Hex
	for i, d := range directions {
		result[i] = Hex{Q: h.Q + d.Q, R: h.R + d.R, S: h.S + d.S}
	}
	return result
}

// Distance returns the hex distance between two coordinates:
// half the sum of the absolute cube deltas.
func Distance(a, b Hex) int {
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.S-b.S)) / 2
}

// ToPixel projects the hex to screen coordinates for a flat-topped
// layout with the given tile size.
func (h Hex) ToPixel(size float64) (x, y float64) {
	x = size * 1.5 * float64(h.Q)
	y = size * math.Sqrt(3) * (float64(h.R) + float64(h.Q)/2)
	return x, y
}

// Key returns the canonical "q,r,s" string identifier for the hex.
func (h Hex) Key() string {
	return fmt.Sprintf("%d,%d,%d", h.Q, h.R, h.S)
}

// ParseKey converts a "q,r,s" key back into a Hex.
func ParseKey(key string) (Hex, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 3 {
		return Hex{}, fmt.Errorf("invalid hex key %q", key)
	}
	var c [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Hex{}, fmt.Errorf("invalid hex key %q: %w", key, err)
		}
		c[i] = n
	}
	h := Hex{Q: c[0], R: c[1], S: c[2]}
	if h.Q+h.R+h.S != 0 {
		return Hex{}, fmt.Errorf("invalid hex key %q: coordinates do not sum to zero", key)
	}
	return h, nil
}

// Region returns every hex within the given radius of the origin,
// 3N²+3N+1 tiles for radius N.
func Region(radius int) []Hex {
	var hexes []Hex
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			s := -q - r
			if max3(abs(q), abs(r), abs(s)) <= radius {
				hexes = append(hexes, Hex{Q: q, R: r, S: s})
			}
		}
	}
	return hexes
}

// Ring returns the hexes exactly radius steps from the origin.
func Ring(radius int) []Hex {
	if radius == 0 {
		return []Hex{{}}
	}
	var hexes []Hex
	h := Hex{Q: -radius, R: radius, S: 0} // start southwest, direction order dependent
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			hexes = append(hexes, h)
			d := directions[side]
			h = Hex{Q: h.Q + d.Q, R: h.R + d.R, S: h.S + d.S}
		}
	}
	return hexes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
