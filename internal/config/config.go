// Package config loads world-service configuration from a YAML file
// with environment-variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server Server `yaml:"server"`
	World  World  `yaml:"world"`
	Cache  Cache  `yaml:"cache"`
	Store  Store  `yaml:"store"`
	Infra  Infra  `yaml:"infra"`
}

// Server holds HTTP settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// World holds generation settings.
type World struct {
	Seed   uint64 `yaml:"seed"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// AutoTick enables background history ticks on the cron schedule.
	AutoTick bool `yaml:"auto_tick"`
	// TickSchedule is a cron expression for background ticks.
	TickSchedule string `yaml:"tick_schedule"`
}

// Cache holds chunk cache settings.
type Cache struct {
	Capacity   int `yaml:"capacity"`
	MaxRetries int `yaml:"max_retries"`
}

// Store selects the chunk persistence backend.
type Store struct {
	// Backend is "none", "file", or "redis".
	Backend   string `yaml:"backend"`
	Dir       string `yaml:"dir"`
	RedisAddr string `yaml:"redis_addr"`
}

// Infra holds optional external services.
type Infra struct {
	// DatabaseURL enables the Postgres chronicle mirror when set.
	DatabaseURL string `yaml:"database_url"`
	// NATSURL enables chronicle event publication when set.
	NATSURL string `yaml:"nats_url"`
}

// Default returns a zero-config in-memory setup.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		World: World{
			Seed:         42,
			Width:        128,
			Height:       64,
			TickSchedule: "@every 30s",
		},
		Cache: Cache{Capacity: 25, MaxRetries: 2},
		Store: Store{Backend: "none", Dir: "./data/chunks"},
	}
}

// Load reads the config file (if present) and applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WORLD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WORLD_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.World.Seed = seed
		}
	}
	if v := os.Getenv("WORLD_DATABASE_URL"); v != "" {
		cfg.Infra.DatabaseURL = v
	}
	if v := os.Getenv("WORLD_NATS_URL"); v != "" {
		cfg.Infra.NATSURL = v
	}
	if v := os.Getenv("WORLD_CHUNK_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("WORLD_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions %dx%d are invalid", c.World.Width, c.World.Height)
	}
	switch c.Store.Backend {
	case "", "none", "file", "redis":
	default:
		return fmt.Errorf("unknown chunk store backend %q", c.Store.Backend)
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 25
	}
	return nil
}
