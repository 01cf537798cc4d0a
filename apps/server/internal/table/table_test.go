package table

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/blackjack"
	"blackjack-lite/blackjack/strategy"
	"blackjack-lite/card"
)

// shoeWithSequence builds a full override deck whose first dealt cards
// are exactly seq. Deal order per round: player, dealer, player, dealer.
func shoeWithSequence(seq ...card.Card) []card.Card {
	need := make(map[card.Card]int, len(seq))
	for _, c := range seq {
		need[c]++
	}
	out := make([]card.Card, 0, blackjack.ShoeSize)
	for p := 0; p < blackjack.NumPacks; p++ {
		for _, c := range blackjack.PackCards {
			if need[c] > 0 {
				need[c]--
				continue
			}
			out = append(out, c)
		}
	}
	for i := len(seq) - 1; i >= 0; i-- {
		out = append(out, seq[i])
	}
	return out
}

type captureBroadcast struct {
	mu   sync.Mutex
	data [][]byte
}

func (c *captureBroadcast) fn(_ uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.data = append(c.data, buf)
}

func (c *captureBroadcast) envelopes(t *testing.T) []*codec.ServerEnvelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*codec.ServerEnvelope, 0, len(c.data))
	for _, raw := range c.data {
		var env codec.ServerEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		out = append(out, &env)
	}
	return out
}

func newScriptedTable(t *testing.T, id string, capture *captureBroadcast, seq ...card.Card) *Table {
	t.Helper()
	cfg := blackjack.DefaultConfig()
	cfg.Seed = 1
	if len(seq) > 0 {
		cfg.DeckOverride = shoeWithSequence(seq...)
	}
	tbl, err := New(id, 42, cfg, strategy.Basic{}, capture.fn, nil)
	if err != nil {
		t.Fatalf("New table: %v", err)
	}
	t.Cleanup(tbl.Stop)
	return tbl
}

func TestPlayCommandBroadcastsRoundThenSnapshot(t *testing.T) {
	capture := &captureBroadcast{}
	// Player As+Kh is a natural; dealer holds 9d+7c.
	tbl := newScriptedTable(t, "table_t1", capture,
		card.CardSpadeA, card.CardDiamond9, card.CardHeartK, card.CardClub7)

	if err := tbl.SubmitEvent(Event{Type: EventPlay, Rounds: 1}); err != nil {
		t.Fatalf("play: %v", err)
	}

	envs := capture.envelopes(t)
	if len(envs) != 2 {
		t.Fatalf("expected round + snapshot, got %d envelopes", len(envs))
	}

	round := envs[0]
	if round.Type != codec.ServerTypeRound || round.Round == nil {
		t.Fatalf("first envelope = %+v, want round event", round)
	}
	if round.TableID != "table_t1" || round.ServerSeq != 1 {
		t.Errorf("round header = (%q, %d), want (table_t1, 1)", round.TableID, round.ServerSeq)
	}
	if round.Round.Result != "PLAYER_BLACKJACK" {
		t.Errorf("result = %q, want PLAYER_BLACKJACK", round.Round.Result)
	}
	if round.Round.Delta != 15 || round.Round.Bankroll != 1015 {
		t.Errorf("payout = %v/%v, want 15/1015", round.Round.Delta, round.Round.Bankroll)
	}
	if len(round.Round.PlayerCards) != 2 || round.Round.PlayerCards[0] != "As" || round.Round.PlayerCards[1] != "Kh" {
		t.Errorf("player cards = %v", round.Round.PlayerCards)
	}

	snap := envs[1]
	if snap.Type != codec.ServerTypeSnapshot || snap.Snapshot == nil {
		t.Fatalf("second envelope = %+v, want snapshot", snap)
	}
	if snap.ServerSeq != 2 {
		t.Errorf("snapshot seq = %d, want 2", snap.ServerSeq)
	}
	if snap.Snapshot.GamesPlayed != 1 || snap.Snapshot.Wins != 1 {
		t.Errorf("counters = %d played / %d wins", snap.Snapshot.GamesPlayed, snap.Snapshot.Wins)
	}
	if snap.Snapshot.Bankroll != 1015 {
		t.Errorf("bankroll = %v, want 1015", snap.Snapshot.Bankroll)
	}
	if snap.Snapshot.LastResult != "PLAYER_BLACKJACK" {
		t.Errorf("last result = %q", snap.Snapshot.LastResult)
	}
}

func TestResetRestoresBankrollAndCounters(t *testing.T) {
	capture := &captureBroadcast{}
	// Round 1: Ts+6h vs Td upcard, basic strategy surrenders (-5).
	// Round 2 after reset: As+Kh natural (+15).
	tbl := newScriptedTable(t, "table_t2", capture,
		card.CardSpadeT, card.CardDiamondT, card.CardHeart6, card.CardClub5,
		card.CardSpadeA, card.CardDiamond9, card.CardHeartK, card.CardClub7)

	if err := tbl.SubmitEvent(Event{Type: EventPlay, Rounds: 1}); err != nil {
		t.Fatalf("play 1: %v", err)
	}
	if err := tbl.SubmitEvent(Event{Type: EventReset}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := tbl.SubmitEvent(Event{Type: EventPlay, Rounds: 1}); err != nil {
		t.Fatalf("play 2: %v", err)
	}

	envs := capture.envelopes(t)
	if len(envs) != 5 {
		t.Fatalf("expected 5 envelopes (round, snap, snap, round, snap), got %d", len(envs))
	}

	if envs[0].Round == nil || envs[0].Round.Result != "SURRENDER" {
		t.Fatalf("round 1 = %+v, want SURRENDER", envs[0].Round)
	}
	if envs[1].Snapshot == nil || envs[1].Snapshot.Bankroll != 995 {
		t.Fatalf("post-surrender snapshot = %+v, want bankroll 995", envs[1].Snapshot)
	}

	resetSnap := envs[2].Snapshot
	if resetSnap == nil {
		t.Fatal("reset snapshot missing")
	}
	if resetSnap.Bankroll != 1000 || resetSnap.GamesPlayed != 0 {
		t.Errorf("reset snapshot = bankroll %v games %d, want 1000/0", resetSnap.Bankroll, resetSnap.GamesPlayed)
	}
	if resetSnap.LastResult != "NONE" || resetSnap.LastRound != nil {
		t.Errorf("reset should clear last round: result=%q round=%v", resetSnap.LastResult, resetSnap.LastRound)
	}

	// Session round numbering restarts after reset; the shoe keeps dealing.
	if envs[3].Round == nil || envs[3].Round.Round != 1 {
		t.Fatalf("post-reset round = %+v, want round number 1", envs[3].Round)
	}
	if envs[3].Round.Result != "PLAYER_BLACKJACK" {
		t.Errorf("post-reset result = %q, want PLAYER_BLACKJACK", envs[3].Round.Result)
	}
	if envs[4].Snapshot == nil || envs[4].Snapshot.Bankroll != 1015 {
		t.Errorf("final snapshot = %+v, want bankroll 1015", envs[4].Snapshot)
	}

	// Ledger round ids keep counting across resets.
	tbl.mu.RLock()
	rounds := tbl.rounds
	tbl.mu.RUnlock()
	if rounds != 2 {
		t.Errorf("lifetime round counter = %d, want 2", rounds)
	}

	// Server sequence is continuous over the whole command stream.
	for i, env := range envs {
		if env.ServerSeq != uint64(i+1) {
			t.Errorf("envelope %d seq = %d, want %d", i, env.ServerSeq, i+1)
		}
	}
}

func TestAttachSendsSnapshot(t *testing.T) {
	capture := &captureBroadcast{}
	tbl := newScriptedTable(t, "table_t3", capture)

	if err := tbl.SubmitEvent(Event{Type: EventAttach}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	envs := capture.envelopes(t)
	if len(envs) != 1 || envs[0].Type != codec.ServerTypeSnapshot {
		t.Fatalf("expected single snapshot, got %+v", envs)
	}
	snap := envs[0].Snapshot
	if snap.Phase != "dealing" || snap.Strategy != "basic" {
		t.Errorf("fresh snapshot = phase %q strategy %q", snap.Phase, snap.Strategy)
	}
	if snap.Bankroll != 1000 || snap.GamesPlayed != 0 {
		t.Errorf("fresh snapshot = bankroll %v games %d", snap.Bankroll, snap.GamesPlayed)
	}
}

func TestSubmitEventAfterStop(t *testing.T) {
	capture := &captureBroadcast{}
	tbl := newScriptedTable(t, "table_t4", capture)

	tbl.Stop()
	if !tbl.IsClosed() {
		t.Fatal("table should report closed after Stop")
	}
	if !tbl.IsIdleFor(time.Hour) {
		t.Error("closed table should count as idle")
	}
	if err := tbl.SubmitEvent(Event{Type: EventPlay, Rounds: 1}); !errors.Is(err, ErrTableClosed) {
		t.Fatalf("err = %v, want ErrTableClosed", err)
	}
	// Stop twice is safe.
	tbl.Stop()
}

func TestPlayRejectsWhenBroke(t *testing.T) {
	capture := &captureBroadcast{}
	cfg := blackjack.Config{StartingBankroll: 5, BetAmount: 10, Seed: 1}
	tbl, err := New("table_t5", 42, cfg, strategy.Basic{}, capture.fn, nil)
	if err != nil {
		t.Fatalf("New table: %v", err)
	}
	t.Cleanup(tbl.Stop)

	err = tbl.SubmitEvent(Event{Type: EventPlay, Rounds: 3})
	if !errors.Is(err, blackjack.ErrInsufficientBankroll) {
		t.Fatalf("err = %v, want ErrInsufficientBankroll", err)
	}

	// The error still comes with a snapshot so the client sees the state.
	envs := capture.envelopes(t)
	if len(envs) != 1 || envs[0].Type != codec.ServerTypeSnapshot {
		t.Fatalf("expected single snapshot, got %d envelopes", len(envs))
	}
	if envs[0].Snapshot.Bankroll != 5 || envs[0].Snapshot.GamesPlayed != 0 {
		t.Errorf("snapshot = %+v", envs[0].Snapshot)
	}
}

func TestIsIdleFor(t *testing.T) {
	capture := &captureBroadcast{}
	tbl := newScriptedTable(t, "table_t6", capture)

	if tbl.IsIdleFor(time.Hour) {
		t.Error("fresh table should not be idle for an hour")
	}
	if !tbl.IsIdleFor(0) {
		t.Error("zero ttl should always count as idle")
	}
	if err := tbl.SubmitEvent(Event{Type: EventAttach}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if tbl.IsIdleFor(time.Hour) {
		t.Error("table touched just now should not be idle")
	}
}
