package replay

import (
	"errors"

	"blackjack-lite/blackjack"
)

const defaultSessionID = "replay_local"

// GenerateReplayTape runs the session spec through a fresh session and
// records every round as a tape event. Running out of bankroll before
// the requested round count is a normal ending, not an error.
func GenerateReplayTape(spec SessionSpec) (*ReplayTape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	sess, err := blackjack.NewSession(ns.cfg, ns.brain, nil)
	if err != nil {
		return nil, &ReplayError{RoundIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	builder := newTapeBuilder(defaultSessionID)
	builder.addSessionStart(&SessionStart{
		Strategy: ns.brain.Name(),
		Bankroll: ns.cfg.StartingBankroll,
		Bet:      ns.cfg.BetAmount,
		Rounds:   ns.rounds,
	})

	stopped := "completed"
	for i := 0; i < ns.rounds; i++ {
		rec, err := sess.PlayRound()
		if errors.Is(err, blackjack.ErrInsufficientBankroll) {
			stopped = "bankroll_exhausted"
			break
		}
		if err != nil {
			return nil, &ReplayError{RoundIndex: int32(i), Reason: "round_failed", Message: err.Error()}
		}
		builder.addRound(roundToEvent(rec))
	}

	builder.addSessionEnd(&SessionEnd{
		GamesPlayed: sess.GamesPlayed(),
		Wins:        sess.Wins(),
		Losses:      sess.Losses(),
		Pushes:      sess.Pushes(),
		Bankroll:    sess.Bankroll(),
		Stopped:     stopped,
	})

	return &ReplayTape{
		TapeVersion: 1,
		SessionID:   builder.sessionID,
		Strategy:    ns.brain.Name(),
		Events:      builder.events,
	}, nil
}

type tapeBuilder struct {
	sessionID string
	seq       uint64
	events    []ReplayEvent
}

func newTapeBuilder(sessionID string) *tapeBuilder {
	return &tapeBuilder{
		sessionID: sessionID,
		events:    make([]ReplayEvent, 0, 64),
	}
}

func (b *tapeBuilder) push(e ReplayEvent) {
	e.Seq = b.seq
	b.seq++
	b.events = append(b.events, e)
}

func (b *tapeBuilder) addSessionStart(s *SessionStart) {
	b.push(ReplayEvent{Type: EventTypeSessionStart, Start: s})
}

func (b *tapeBuilder) addRound(r *RoundEvent) {
	b.push(ReplayEvent{Type: EventTypeRound, Round: r})
}

func (b *tapeBuilder) addSessionEnd(e *SessionEnd) {
	b.push(ReplayEvent{Type: EventTypeSessionEnd, End: e})
}
