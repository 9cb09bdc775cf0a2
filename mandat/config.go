package mandat

import (
	"fmt"
	"time"
)

type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Game length / victory
	MaxRounds                   int
	MandateThreshold            int
	AlternateInfluenceThreshold int

	// Dealing
	InitialHandSize int

	// Coalitions globally disabled for the session.
	CoalitionsBlocked bool

	// RNG seed (0 => time-based)
	Seed int64

	// Clock override for deterministic log timestamps (nil => time.Now).
	Clock func() time.Time
}

func (c Config) validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MaxPlayers must be > 0")
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MinPlayers must be >= 2")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("MaxRounds must be > 0")
	}
	if c.MandateThreshold <= 0 {
		return fmt.Errorf("MandateThreshold must be > 0")
	}
	if c.AlternateInfluenceThreshold <= 0 {
		return fmt.Errorf("AlternateInfluenceThreshold must be > 0")
	}
	if c.InitialHandSize <= 0 || c.InitialHandSize > DeckSize {
		return fmt.Errorf("InitialHandSize must be in 1..%d", DeckSize)
	}
	return nil
}

// DefaultConfig is the standard table setup.
func DefaultConfig() Config {
	return Config{
		MaxPlayers:                  6,
		MinPlayers:                  2,
		MaxRounds:                   10,
		MandateThreshold:            12,
		AlternateInfluenceThreshold: 25,
		InitialHandSize:             8,
	}
}
