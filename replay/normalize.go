package replay

import (
	"fmt"
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/blackjack/strategy"
	"blackjack-lite/card"
)

const maxRounds = 100000

type normalizedSpec struct {
	brain  blackjack.Decider
	cfg    blackjack.Config
	rounds int
}

func normalizeSpec(spec SessionSpec) (normalizedSpec, error) {
	var out normalizedSpec

	brain, err := strategy.New(strings.TrimSpace(spec.Strategy))
	if err != nil {
		return out, &ReplayError{RoundIndex: -1, Reason: "invalid_strategy", Message: err.Error()}
	}
	out.brain = brain

	cfg := blackjack.DefaultConfig()
	if spec.Bankroll != 0 {
		cfg.StartingBankroll = spec.Bankroll
	}
	if spec.Bet != 0 {
		cfg.BetAmount = spec.Bet
	}
	if cfg.StartingBankroll <= 0 {
		return out, &ReplayError{RoundIndex: -1, Reason: "invalid_bankroll", Message: "bankroll must be > 0"}
	}
	if cfg.BetAmount <= 0 {
		return out, &ReplayError{RoundIndex: -1, Reason: "invalid_bet", Message: "bet must be > 0"}
	}

	if spec.Rounds <= 0 || spec.Rounds > maxRounds {
		return out, &ReplayError{
			RoundIndex: -1,
			Reason:     "invalid_rounds",
			Message:    fmt.Sprintf("rounds must be between 1 and %d", maxRounds),
		}
	}
	out.rounds = spec.Rounds

	deck, err := parseDeck(spec.Deck)
	if err != nil {
		return out, err
	}
	cfg.DeckOverride = deck
	cfg.Seed = seedFromSpec(spec.RNG)

	// Without a pinned deck the seed is the only source of determinism.
	if len(deck) == 0 && cfg.Seed == 0 {
		return out, &ReplayError{
			RoundIndex: -1,
			Reason:     "invalid_rng",
			Message:    "a full deck or a non-zero rng seed is required",
		}
	}

	out.cfg = cfg
	return out, nil
}

// parseDeck validates a full six-pack shoe given in deal order and
// flips it into shoe order (the shoe deals from the end).
func parseDeck(deck []string) ([]card.Card, error) {
	if len(deck) == 0 {
		return nil, nil
	}
	if len(deck) != blackjack.ShoeSize {
		return nil, &ReplayError{
			RoundIndex: -1,
			Reason:     "invalid_deck",
			Message:    fmt.Sprintf("deck must contain %d cards", blackjack.ShoeSize),
		}
	}

	out := make([]card.Card, len(deck))
	counts := make(map[card.Card]int, 52)
	for i, s := range deck {
		c, err := card.StrToCard(strings.TrimSpace(s))
		if err != nil {
			return nil, &ReplayError{
				RoundIndex: -1,
				Reason:     "invalid_deck_card",
				Message:    fmt.Sprintf("deck[%d]: %v", i, err),
			}
		}
		counts[c]++
		if counts[c] > blackjack.NumPacks {
			return nil, &ReplayError{
				RoundIndex: -1,
				Reason:     "invalid_deck",
				Message:    fmt.Sprintf("card %s appears more than %d times", c, blackjack.NumPacks),
			}
		}
		out[i] = c
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil {
		return 0
	}
	return rng.Seed
}
