package auth

import (
	"fmt"

	"mandat-lite/apps/server/internal/config"
)

// NewService builds the auth service for the configured backend and
// returns the effective mode for startup logging.
func NewService(cfg config.Config) (Service, string, error) {
	tokens := NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)

	switch cfg.AuthMode {
	case config.AuthModeMemory:
		return NewManager(newMemoryStore(), tokens), cfg.AuthMode, nil
	case config.AuthModeSQLite:
		store, err := newSQLiteStore(cfg.AuthSQLitePath)
		if err != nil {
			return nil, cfg.AuthMode, err
		}
		return NewManager(store, tokens), cfg.AuthMode, nil
	case config.AuthModeDB:
		store, err := newPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, cfg.AuthMode, err
		}
		return NewManager(store, tokens), cfg.AuthMode, nil
	default:
		return nil, cfg.AuthMode, fmt.Errorf("invalid auth mode %q (supported: %s, %s, %s)",
			cfg.AuthMode, config.AuthModeMemory, config.AuthModeSQLite, config.AuthModeDB)
	}
}
