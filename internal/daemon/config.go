// Package daemon manages the progression service lifecycle and
// configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all service configuration.
type Config struct {
	Service   ServiceConfig   `toml:"service"`
	API       APIConfig       `toml:"api"`
	Game      GameConfig      `toml:"game"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServiceConfig controls storage and identity.
type ServiceConfig struct {
	DataDir string `toml:"data_dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GameConfig tunes the progression economy.
type GameConfig struct {
	RollCooldown      string `toml:"roll_cooldown"`
	BoardRewardPoints int64  `toml:"board_reward_points"`
	DieSides          int    `toml:"die_sides"`
	WorkoutPoints     int64  `toml:"workout_points"`
	CASRetries        int    `toml:"cas_retries"`
	LeaderboardLimit  int    `toml:"leaderboard_limit"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			DataDir: progressionHome(),
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8480,
		},
		Game: GameConfig{
			RollCooldown:      "4h",
			BoardRewardPoints: 50,
			DieSides:          6,
			WorkoutPoints:     10,
			CASRetries:        5,
			LeaderboardLimit:  10,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from <home>/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(progressionHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet; use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RollCooldownDuration parses the configured cooldown, falling back to 4h.
func (g GameConfig) RollCooldownDuration() time.Duration {
	d, err := time.ParseDuration(g.RollCooldown)
	if err != nil || d <= 0 {
		return 4 * time.Hour
	}
	return d
}

// progressionHome returns the service data directory.
func progressionHome() string {
	if env := os.Getenv("PROGRESSION_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".progression")
}

// Home is exported for use by other packages.
func Home() string {
	return progressionHome()
}
