package replay

// SessionSpec describes a reproducible simulator run: which strategy
// plays, the money parameters, how many rounds, and either an explicit
// deck or an RNG seed. Deck cards are listed in deal order, deck[0]
// being the first card dealt.
type SessionSpec struct {
	Strategy string   `json:"strategy,omitempty"`
	Bankroll float64  `json:"bankroll,omitempty"`
	Bet      float64  `json:"bet,omitempty"`
	Rounds   int      `json:"rounds"`
	Deck     []string `json:"deck,omitempty"`
	RNG      *RNGSpec `json:"rng,omitempty"`
}

type RNGSpec struct {
	Seed int64 `json:"seed"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	SessionID   string        `json:"session_id"`
	Strategy    string        `json:"strategy"`
	Events      []ReplayEvent `json:"events"`
}

const (
	EventTypeSessionStart = "sessionStart"
	EventTypeRound        = "round"
	EventTypeSessionEnd   = "sessionEnd"
)

type ReplayEvent struct {
	Type  string        `json:"type"`
	Seq   uint64        `json:"seq"`
	Start *SessionStart `json:"start,omitempty"`
	Round *RoundEvent   `json:"round,omitempty"`
	End   *SessionEnd   `json:"end,omitempty"`
}

type SessionStart struct {
	Strategy string  `json:"strategy"`
	Bankroll float64 `json:"bankroll"`
	Bet      float64 `json:"bet"`
	Rounds   int     `json:"rounds"`
}

type RoundEvent struct {
	Round       int      `json:"round"`
	PlayerCards []string `json:"player_cards"`
	DealerCards []string `json:"dealer_cards"`
	PlayerTotal int      `json:"player_total"`
	DealerTotal int      `json:"dealer_total"`
	Doubled     bool     `json:"doubled,omitempty"`
	Result      string   `json:"result"`
	Delta       float64  `json:"delta"`
	Bankroll    float64  `json:"bankroll"`
	Lines       []string `json:"lines"`
}

// SessionEnd.Stopped is "completed" when every requested round ran, or
// "bankroll_exhausted" when the bankroll could no longer cover the bet.
type SessionEnd struct {
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	Bankroll    float64 `json:"bankroll"`
	Stopped     string  `json:"stopped"`
}
