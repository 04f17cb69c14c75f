package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bankFile is the on-disk yaml format for custom question banks.
type bankFile struct {
	Questions []Entry `yaml:"questions"`
}

// LoadYAML reads a yaml question bank.
func LoadYAML(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	var bank bankFile
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}
	for i, e := range bank.Questions {
		if e.ID == "" {
			return nil, fmt.Errorf("question %d has no id", i)
		}
		if e.Difficulty < 1 || e.Difficulty > 3 {
			return nil, fmt.Errorf("question %s has difficulty %d, want 1-3", e.ID, e.Difficulty)
		}
	}
	return bank.Questions, nil
}

// seedEntries is the starter bank written into a fresh sqlite store so
// the server runs out of the box.
var seedEntries = []Entry{
	{ID: "q-orbit-1", Difficulty: 1, Prompt: "Which planet is closest to the Sun?", Answer: "Mercury"},
	{ID: "q-orbit-2", Difficulty: 1, Prompt: "How many moons does Earth have?", Answer: "1"},
	{ID: "q-orbit-3", Difficulty: 1, Prompt: "What color is Mars' surface?", Answer: "Red"},
	{ID: "q-orbit-4", Difficulty: 1, Prompt: "Which star does Earth orbit?", Answer: "The Sun"},
	{ID: "q-field-1", Difficulty: 2, Prompt: "What force keeps planets in orbit?", Answer: "Gravity"},
	{ID: "q-field-2", Difficulty: 2, Prompt: "Which planet has the most prominent rings?", Answer: "Saturn"},
	{ID: "q-field-3", Difficulty: 2, Prompt: "What is the Great Red Spot?", Answer: "A storm on Jupiter"},
	{ID: "q-field-4", Difficulty: 2, Prompt: "What unit measures the Earth-Sun distance?", Answer: "Astronomical unit"},
	{ID: "q-field-5", Difficulty: 2, Prompt: "Which galaxy contains our solar system?", Answer: "The Milky Way"},
	{ID: "q-field-6", Difficulty: 2, Prompt: "What is a light-year a measure of?", Answer: "Distance"},
	{ID: "q-deep-1", Difficulty: 3, Prompt: "What remains after a massive star collapses past the neutron stage?", Answer: "A black hole"},
	{ID: "q-deep-2", Difficulty: 3, Prompt: "What is the boundary around a black hole called?", Answer: "Event horizon"},
	{ID: "q-deep-3", Difficulty: 3, Prompt: "What phenomenon stretches light from receding galaxies?", Answer: "Redshift"},
	{ID: "q-deep-4", Difficulty: 3, Prompt: "What are the densest known stars made mostly of?", Answer: "Neutrons"},
}
