package blackjack

import (
	"math/rand"
	"time"
)

// Session is a single-player blackjack run: one shoe, one strategy, one
// bankroll. It is not safe for concurrent use; callers that share a
// Session across goroutines must serialize access themselves.
type Session struct {
	cfg   Config
	rng   *rand.Rand
	brain Decider
	sink  RoundSink

	shoe  *Shoe
	phase Phase

	gamesPlayed int
	wins        int
	losses      int
	pushes      int
	bankroll    float64
	betAmount   float64
	lastResult  GameResult
	lastRound   *RoundRecord
}

// NewSession validates cfg and builds a ready-to-play session.
// A nil sink discards round logs. The shoe starts shuffled unless
// cfg.DeckOverride pins an exact card order.
func NewSession(cfg Config, brain Decider, sink RoundSink) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if brain == nil {
		return nil, ErrInvalidState("nil strategy")
	}
	if sink == nil {
		sink = nopRoundSink{}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		brain:      brain,
		sink:       sink,
		phase:      PhaseTypeDealing,
		bankroll:   cfg.StartingBankroll,
		betAmount:  cfg.BetAmount,
		lastResult: GameResultNone,
	}

	if len(cfg.DeckOverride) > 0 {
		s.shoe = NewShoeFromCards(cfg.DeckOverride)
	} else {
		s.shoe = NewShoe()
		s.shoe.Shuffle(s.rng)
	}
	return s, nil
}

// PlayRounds plays up to n rounds, stopping early once the bankroll can
// no longer cover the bet. It returns how many rounds actually ran.
func (s *Session) PlayRounds(n int) (int, error) {
	played := 0
	for i := 0; i < n; i++ {
		if s.bankroll < s.betAmount {
			return played, ErrInsufficientBankroll
		}
		rec, err := s.PlayRound()
		if rec != nil {
			played++
		}
		if err != nil {
			return played, err
		}
	}
	return played, nil
}

// Reset restores the starting bankroll and zeroes every counter.
// The shoe keeps its current contents; reshuffling stays the round
// loop's job.
func (s *Session) Reset() {
	s.bankroll = s.cfg.StartingBankroll
	s.gamesPlayed = 0
	s.wins = 0
	s.losses = 0
	s.pushes = 0
	s.lastResult = GameResultNone
	s.lastRound = nil
	s.phase = PhaseTypeDealing
}

// rebuildShoe swaps in a freshly shuffled six-pack shoe.
func (s *Session) rebuildShoe() {
	s.shoe = NewShoe()
	s.shoe.Shuffle(s.rng)
}

func (s *Session) GamesPlayed() int        { return s.gamesPlayed }
func (s *Session) Wins() int               { return s.wins }
func (s *Session) Losses() int             { return s.losses }
func (s *Session) Pushes() int             { return s.pushes }
func (s *Session) Bankroll() float64       { return s.bankroll }
func (s *Session) BetAmount() float64      { return s.betAmount }
func (s *Session) LastResult() GameResult  { return s.lastResult }
func (s *Session) LastRound() *RoundRecord { return s.lastRound }
func (s *Session) ShoeRemaining() int      { return s.shoe.Remaining() }
func (s *Session) StrategyName() string    { return s.brain.Name() }
