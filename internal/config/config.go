// Package config loads kartboard settings from a YAML file, an optional .env
// file and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config struct to hold the configuration settings
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	HTTP    HTTPConfig    `yaml:"http"`
	Discord DiscordConfig `yaml:"discord"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects and configures the roster and result log stores
type StorageConfig struct {
	Backend  string         `yaml:"backend"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// GameConfig holds race rules
type GameConfig struct {
	MaxRaces             int  `yaml:"max_races"`
	DefaultRaces         int  `yaml:"default_races"`
	RequireCompleteRaces bool `yaml:"require_complete_races"`
}

// HTTPConfig holds the API server settings
type HTTPConfig struct {
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token         string `yaml:"token"`
	ApplicationID string `yaml:"application_id"`
	GuildID       string `yaml:"guild_id"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Game: GameConfig{
			MaxRaces:     10,
			DefaultRaces: 3,
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			MetricsPath: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. A missing file is not an error; the
// defaults and environment are used instead.
func Load(filename string) (*Config, error) {
	// A .env file next to the binary is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func applyEnv(cfg *Config) error {
	if v := os.Getenv("KARTBOARD_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("KARTBOARD_MAX_RACES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KARTBOARD_MAX_RACES value: %w", err)
		}
		cfg.Game.MaxRaces = n
	}
	if v := os.Getenv("KARTBOARD_REQUIRE_COMPLETE_RACES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid KARTBOARD_REQUIRE_COMPLETE_RACES value: %w", err)
		}
		cfg.Game.RequireCompleteRaces = b
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("APPLICATION_ID"); v != "" {
		cfg.Discord.ApplicationID = v
	}
	if v := os.Getenv("GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("redis storage needs storage.redis.addr")
		}
	case BackendPostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("postgres storage needs storage.postgres.dsn or DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Game.MaxRaces < 1 {
		return fmt.Errorf("game.max_races must be positive, got %d", c.Game.MaxRaces)
	}
	if c.Game.DefaultRaces < 1 || c.Game.DefaultRaces > c.Game.MaxRaces {
		return fmt.Errorf("game.default_races must be between 1 and %d, got %d", c.Game.MaxRaces, c.Game.DefaultRaces)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
