package blackjack

import (
	"fmt"

	"blackjack-lite/card"
)

type Config struct {
	// Bankroll / bet, fixed at construction
	StartingBankroll float64
	BetAmount        float64

	// RNG seed (0 => time-based)
	Seed int64

	// Optional full shoe override for deterministic rounds (tests, replays).
	// Must contain exactly ShoeSize cards; dealt from the end.
	DeckOverride []card.Card
}

// DefaultConfig matches the fixed session constants of the simulator:
// $1000 bankroll, $10 flat bet, six-pack shoe.
func DefaultConfig() Config {
	return Config{
		StartingBankroll: 1000.0,
		BetAmount:        10.0,
	}
}

func (c Config) validate() error {
	if c.StartingBankroll <= 0 {
		return fmt.Errorf("StartingBankroll must be > 0")
	}
	if c.BetAmount <= 0 {
		return fmt.Errorf("BetAmount must be > 0")
	}
	if len(c.DeckOverride) > 0 && len(c.DeckOverride) != ShoeSize {
		return fmt.Errorf("deck override must contain %d cards, got %d", ShoeSize, len(c.DeckOverride))
	}
	return nil
}
