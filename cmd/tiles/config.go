package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"placevalue/internal/config"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	modeSSH   = "ssh"
	modeLocal = "local"
)

// Config controls how the terminal client is served.
type Config struct {
	Mode        string         `env:"TILES_MODE"          envDefault:"ssh"`
	Host        string         `env:"TILES_HOST"          envDefault:"localhost"`
	Port        string         `env:"TILES_PORT"          envDefault:"23234"`
	HostKeyPath string         `env:"TILES_HOST_KEY_PATH" envDefault:".ssh/id_ed25519"`
	GameConfig  string         `env:"TILES_GAME_CONFIG"   envDefault:"data/game_config.yaml"`
	ResultDelay *time.Duration `env:"TILES_RESULT_DELAY"` // Overrides result_delay from the game config when set
	LogLevel    string         `env:"TILES_LOG_LEVEL"     envDefault:"info"`
}

// loadConfig reads an optional .env file, then the environment.
func loadConfig(dotenv string) (Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Mode != modeSSH && cfg.Mode != modeLocal {
		return Config{}, fmt.Errorf("unknown TILES_MODE %q", cfg.Mode)
	}
	return cfg, nil
}

// handoffDelay is the pause before the next screen, taken from game unless
// TILES_RESULT_DELAY is set.
func (c Config) handoffDelay(game config.GameConfig) time.Duration {
	delay := game.ResultDelay
	if c.ResultDelay != nil {
		delay = *c.ResultDelay
	}
	return max(delay, 0)
}
