package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRandomMin          = 1
	DefaultRandomMax          = 9999
	DefaultTickRate           = 5
	DefaultResultDelay        = time.Second
	DefaultIdleTimeoutSeconds = 300
	DefaultExerciseTokenTTL   = 24 * time.Hour
	DefaultExerciseIssuer     = "placevalue"
)

// GameConfig tunes number generation and pacing for every match.
type GameConfig struct {
	// RandomMin and RandomMax bound the operands drawn in random mode (inclusive).
	RandomMin int `yaml:"random_min"`
	RandomMax int `yaml:"random_max"`
	// TickRate is the match loop frequency in ticks per second (1..60).
	TickRate int `yaml:"tick_rate"`
	// ResultDelay is the pause between finishing a stage and showing the next screen.
	ResultDelay time.Duration `yaml:"result_delay"`
	// IdleTimeoutSeconds terminates matches nobody is connected to.
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`
	// ExerciseTokenTTL bounds how long an issued exercise link stays valid.
	ExerciseTokenTTL time.Duration `yaml:"exercise_token_ttl"`
	ExerciseIssuer   string        `yaml:"exercise_issuer"`
}

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		RandomMin:          DefaultRandomMin,
		RandomMax:          DefaultRandomMax,
		TickRate:           DefaultTickRate,
		ResultDelay:        DefaultResultDelay,
		IdleTimeoutSeconds: DefaultIdleTimeoutSeconds,
		ExerciseTokenTTL:   DefaultExerciseTokenTTL,
		ExerciseIssuer:     DefaultExerciseIssuer,
	}
}

// Normalize replaces missing or out-of-range values with defaults.
func (c GameConfig) Normalize() GameConfig {
	d := Default()
	if c.RandomMin < 0 {
		c.RandomMin = 0
	}
	if c.RandomMin == 0 && c.RandomMax == 0 {
		c.RandomMin, c.RandomMax = d.RandomMin, d.RandomMax
	}
	if c.RandomMax < c.RandomMin {
		c.RandomMax = c.RandomMin
	}
	if c.TickRate < 1 || c.TickRate > 60 {
		c.TickRate = d.TickRate
	}
	if c.ResultDelay < 0 {
		c.ResultDelay = 0
	}
	if c.IdleTimeoutSeconds <= 0 {
		c.IdleTimeoutSeconds = d.IdleTimeoutSeconds
	}
	if c.ExerciseTokenTTL <= 0 {
		c.ExerciseTokenTTL = d.ExerciseTokenTTL
	}
	if c.ExerciseIssuer == "" {
		c.ExerciseIssuer = d.ExerciseIssuer
	}
	return c
}

// DelayTicks converts ResultDelay into whole match ticks, rounding up.
func (c GameConfig) DelayTicks() int64 {
	if c.ResultDelay <= 0 {
		return 0
	}
	perTick := time.Second / time.Duration(c.TickRate)
	return int64((c.ResultDelay + perTick - 1) / perTick)
}

// IdleTicks converts IdleTimeoutSeconds into match ticks.
func (c GameConfig) IdleTicks() int64 {
	return int64(c.IdleTimeoutSeconds) * int64(c.TickRate)
}

// ParseGameConfig decodes YAML on top of the defaults.
func ParseGameConfig(data []byte) (GameConfig, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c.Normalize(), nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults if none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}
