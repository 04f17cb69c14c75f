// Package config loads server configuration from the environment and
// game tuning from an optional yaml file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"hexfront/internal/game"
)

// Config holds process-level server configuration.
type Config struct {
	HTTPAddr    string     `env:"HTTP_ADDR" envDefault:":30500"`
	QuestionsDB string     `env:"QUESTIONS_DB" envDefault:"data/questions.db"`
	BankFile    string     `env:"BANK_FILE" envDefault:""` // yaml question bank, overrides the sqlite store
	TuningFile  string     `env:"TUNING_FILE" envDefault:""`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Tuning holds the adjustable match parameters.
type Tuning struct {
	Rules game.Rules `yaml:"rules"`

	Map struct {
		Radius         int  `yaml:"radius"`
		StartTiles     int  `yaml:"start_tiles"`
		HideDifficulty bool `yaml:"hide_difficulty"`
	} `yaml:"map"`

	Room struct {
		MaxPlayers     int `yaml:"max_players"`
		JoinTimeoutMS  int `yaml:"join_timeout_ms"`
		RewardPercent  int `yaml:"reward_percent"` // chance of a card drop on capture
		NotificationMS int `yaml:"notification_ms"`
	} `yaml:"room"`

	Bot struct {
		DelayMS     int     `yaml:"delay_ms"`
		SuccessRate float64 `yaml:"success_rate"`
	} `yaml:"bot"`
}

// DefaultTuning returns the standard tuning values.
func DefaultTuning() Tuning {
	var t Tuning
	t.Rules = game.DefaultRules()
	t.Map.Radius = 3
	t.Map.StartTiles = 1
	t.Room.MaxPlayers = 8
	t.Room.JoinTimeoutMS = 5000
	t.Room.RewardPercent = 35
	t.Room.NotificationMS = 4000
	t.Bot.DelayMS = 1500
	t.Bot.SuccessRate = game.BotSuccessRate
	return t
}

// LoadTuning reads a tuning file, falling back to defaults for any
// value the file leaves unset. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing tuning file: %w", err)
	}
	t.normalize()
	return t, nil
}

// normalize clamps nonsensical values back to their defaults.
func (t *Tuning) normalize() {
	d := DefaultTuning()
	if t.Rules.MaxShield <= 0 {
		t.Rules.MaxShield = d.Rules.MaxShield
	}
	if t.Rules.MaxHandSize <= 0 {
		t.Rules.MaxHandSize = d.Rules.MaxHandSize
	}
	if t.Rules.ShieldCapBonus < 0 {
		t.Rules.ShieldCapBonus = d.Rules.ShieldCapBonus
	}
	if t.Map.Radius <= 0 {
		t.Map.Radius = d.Map.Radius
	}
	if t.Map.StartTiles <= 0 {
		t.Map.StartTiles = d.Map.StartTiles
	}
	if t.Room.MaxPlayers <= 1 {
		t.Room.MaxPlayers = d.Room.MaxPlayers
	}
	if t.Room.JoinTimeoutMS <= 0 {
		t.Room.JoinTimeoutMS = d.Room.JoinTimeoutMS
	}
	if t.Room.RewardPercent < 0 || t.Room.RewardPercent > 100 {
		t.Room.RewardPercent = d.Room.RewardPercent
	}
	if t.Bot.DelayMS <= 0 {
		t.Bot.DelayMS = d.Bot.DelayMS
	}
	if t.Bot.SuccessRate <= 0 || t.Bot.SuccessRate > 1 {
		t.Bot.SuccessRate = d.Bot.SuccessRate
	}
}

// BotDelay returns the bot's artificial think time.
func (t Tuning) BotDelay() time.Duration {
	return time.Duration(t.Bot.DelayMS) * time.Millisecond
}

// JoinTimeout returns the handshake timeout.
func (t Tuning) JoinTimeout() time.Duration {
	return time.Duration(t.Room.JoinTimeoutMS) * time.Millisecond
}
