package blackjack

import "blackjack-lite/card"

// RoundRecord is the full trace of one completed round: the dealt hands,
// the outcome, the bankroll movement, and the human-readable log block
// (one entry per line, no trailing newline).
type RoundRecord struct {
	Round int

	PlayerCards []card.Card
	DealerCards []card.Card
	PlayerTotal int
	DealerTotal int
	Doubled     bool

	Result   GameResult
	Delta    float64
	Bankroll float64

	Lines []string
}

// RoundSink consumes one appended block per completed round.
// AppendRound failures are surfaced by PlayRound after the round's stats
// and bankroll have already been applied.
type RoundSink interface {
	AppendRound(rec *RoundRecord) error
}

type nopRoundSink struct{}

func (nopRoundSink) AppendRound(_ *RoundRecord) error { return nil }
