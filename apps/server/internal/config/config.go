package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration, loaded from environment
// variables with an optional .env file for local development.
type Config struct {
	Addr          string `env:"MANDAT_ADDR" envDefault:":8080"`
	PublicBaseURL string `env:"MANDAT_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	AuthMode       string        `env:"MANDAT_AUTH_MODE" envDefault:"memory"`
	AuthSQLitePath string        `env:"MANDAT_AUTH_SQLITE_PATH" envDefault:"mandat_auth.db"`
	PostgresDSN    string        `env:"MANDAT_POSTGRES_DSN"`
	TokenSecret    string        `env:"MANDAT_TOKEN_SECRET"`
	TokenTTL       time.Duration `env:"MANDAT_TOKEN_TTL" envDefault:"720h"`

	ArchiveMode       string `env:"MANDAT_ARCHIVE_MODE" envDefault:"sqlite"`
	ArchiveSQLitePath string `env:"MANDAT_ARCHIVE_SQLITE_PATH" envDefault:"mandat_archive.db"`

	DeckSQLitePath string `env:"MANDAT_DECK_SQLITE_PATH" envDefault:"mandat_decks.db"`

	// Session seed of 0 means time-based seeding per session.
	SessionSeed int64 `env:"MANDAT_SESSION_SEED"`

	MaxRounds        int  `env:"MANDAT_MAX_ROUNDS"`
	MandateThreshold int  `env:"MANDAT_MANDATE_THRESHOLD"`
	BlockCoalitions  bool `env:"MANDAT_BLOCK_COALITIONS"`
}

const (
	AuthModeMemory = "memory"
	AuthModeSQLite = "sqlite"
	AuthModeDB     = "db"

	ArchiveModeMemory = "memory"
	ArchiveModeSQLite = "sqlite"
	ArchiveModeDB     = "db"
)

// Load reads the .env file if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.AuthMode = normalizeMode(c.AuthMode)
	c.ArchiveMode = normalizeMode(c.ArchiveMode)

	switch c.AuthMode {
	case AuthModeMemory, AuthModeSQLite:
	case AuthModeDB:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("MANDAT_POSTGRES_DSN is required when MANDAT_AUTH_MODE=db")
		}
	default:
		return fmt.Errorf("invalid MANDAT_AUTH_MODE %q (supported: memory, sqlite, db)", c.AuthMode)
	}

	switch c.ArchiveMode {
	case ArchiveModeMemory, ArchiveModeSQLite:
	case ArchiveModeDB:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("MANDAT_POSTGRES_DSN is required when MANDAT_ARCHIVE_MODE=db")
		}
	default:
		return fmt.Errorf("invalid MANDAT_ARCHIVE_MODE %q (supported: memory, sqlite, db)", c.ArchiveMode)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("MANDAT_TOKEN_TTL must be positive")
	}
	return nil
}

func normalizeMode(raw string) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "postgres", "postgresql":
		return AuthModeDB
	case "mem":
		return AuthModeMemory
	}
	return mode
}
