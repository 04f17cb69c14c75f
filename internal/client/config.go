package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

var configProfile string

// SetProfile namespaces the config file so multiple client instances
// on one machine can hold different sessions.
func SetProfile(profile string) {
	configProfile = profile
}

// Config is the client's session-scoped persisted state: just enough
// to replay the join handshake after a reload. The host never writes
// any of this.
type Config struct {
	LastServer string `json:"last_server"`
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

// LoadConfig loads the config from the user's config directory.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return &Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return &Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &Config{}, err
	}
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clear forgets the stored session.
func (c *Config) Clear() error {
	c.RoomCode = ""
	c.PlayerName = ""
	return c.Save()
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	filename := "session.json"
	if configProfile != "" {
		filename = "session-" + configProfile + ".json"
	}
	return filepath.Join(configDir, "hexfront", filename), nil
}
