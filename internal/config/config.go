package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
)

const envPrefix = "ROSTER"

type Config struct {
	Addr       string    `envconfig:"ADDR" default:":8080"`
	LogLevel   string    `envconfig:"LOG_LEVEL" default:"info"`
	LogDev     bool      `envconfig:"LOG_DEV" default:"false"`
	SeedFile   string    `envconfig:"SEED_FILE"`
	SearchMode string    `envconfig:"SEARCH_MODE" default:"substring"`
	Session    Session   `envconfig:"SESSION"`
	WebSocket  WebSocket `envconfig:"WS"`
}

type Session struct {
	IdleTTL      time.Duration `envconfig:"IDLE_TTL" default:"30m"`
	ReapInterval time.Duration `envconfig:"REAP_INTERVAL" default:"1m"`
	OutboxSize   int           `envconfig:"OUTBOX_SIZE" default:"8"`
}

type WebSocket struct {
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5m"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Load reads the optional env files (".env" when none are given) and then
// the ROSTER_* environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("processing env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("ROSTER_ADDR must not be empty")
	}
	if _, ok := engine.ParseSearchMode(c.SearchMode); !ok {
		return fmt.Errorf("ROSTER_SEARCH_MODE %q: want substring or fuzzy", c.SearchMode)
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("ROSTER_SESSION_IDLE_TTL must be positive")
	}
	if c.Session.ReapInterval <= 0 {
		return errors.New("ROSTER_SESSION_REAP_INTERVAL must be positive")
	}
	if c.Session.OutboxSize < 1 {
		return errors.New("ROSTER_SESSION_OUTBOX_SIZE must be at least 1")
	}
	if c.WebSocket.ReadTimeout <= 0 || c.WebSocket.WriteTimeout <= 0 {
		return errors.New("websocket timeouts must be positive")
	}
	return nil
}

// Mode returns the parsed search mode; Validate has already vetted it.
func (c *Config) Mode() engine.SearchMode {
	mode, _ := engine.ParseSearchMode(c.SearchMode)
	return mode
}
