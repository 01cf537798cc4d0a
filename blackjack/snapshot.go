package blackjack

import "blackjack-lite/card"

type RoundSnapshot struct {
	Round       int
	PlayerCards []card.Card
	DealerCards []card.Card
	PlayerTotal int
	DealerTotal int
	Doubled     bool
	Result      GameResult
	Delta       float64
	Bankroll    float64
	Lines       []string
}

type Snapshot struct {
	Phase    Phase
	Strategy string

	GamesPlayed int
	Wins        int
	Losses      int
	Pushes      int
	Bankroll    float64
	BetAmount   float64
	LastResult  GameResult

	ShoeRemaining int

	LastRound *RoundSnapshot
}

// Snapshot returns a deep-copied projection of the session. Mutating
// the snapshot never touches live state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:         s.phase,
		Strategy:      s.brain.Name(),
		GamesPlayed:   s.gamesPlayed,
		Wins:          s.wins,
		Losses:        s.losses,
		Pushes:        s.pushes,
		Bankroll:      s.bankroll,
		BetAmount:     s.betAmount,
		LastResult:    s.lastResult,
		ShoeRemaining: s.shoe.Remaining(),
	}
	if rec := s.lastRound; rec != nil {
		snap.LastRound = &RoundSnapshot{
			Round:       rec.Round,
			PlayerCards: append([]card.Card{}, rec.PlayerCards...),
			DealerCards: append([]card.Card{}, rec.DealerCards...),
			PlayerTotal: rec.PlayerTotal,
			DealerTotal: rec.DealerTotal,
			Doubled:     rec.Doubled,
			Result:      rec.Result,
			Delta:       rec.Delta,
			Bankroll:    rec.Bankroll,
			Lines:       append([]string{}, rec.Lines...),
		}
	}
	return snap
}
