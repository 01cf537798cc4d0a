package codec

import (
	"encoding/json"
	"testing"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

func TestWrapServerEnvelopeSetsTypeFromPayload(t *testing.T) {
	errEnv := WrapServerEnvelope("table_1", 7, &ErrorResponse{Code: 2, Message: "nope"})
	if errEnv.Type != ServerTypeError {
		t.Errorf("error envelope type = %q, want %q", errEnv.Type, ServerTypeError)
	}
	if errEnv.Error == nil || errEnv.Snapshot != nil || errEnv.Round != nil {
		t.Error("error envelope should carry only the error payload")
	}
	if errEnv.TableID != "table_1" || errEnv.ServerSeq != 7 {
		t.Errorf("envelope header = (%q, %d), want (table_1, 7)", errEnv.TableID, errEnv.ServerSeq)
	}
	if errEnv.ServerTsMs <= 0 {
		t.Errorf("server ts = %d, want positive", errEnv.ServerTsMs)
	}

	snapEnv := WrapServerEnvelope("table_1", 8, &SessionState{Phase: "roundend"})
	if snapEnv.Type != ServerTypeSnapshot || snapEnv.Snapshot == nil {
		t.Errorf("snapshot envelope type = %q with snapshot=%v", snapEnv.Type, snapEnv.Snapshot)
	}

	roundEnv := WrapServerEnvelope("table_1", 9, &RoundRecord{Round: 1})
	if roundEnv.Type != ServerTypeRound || roundEnv.Round == nil {
		t.Errorf("round envelope type = %q with round=%v", roundEnv.Type, roundEnv.Round)
	}
}

func TestEncodeServerEnvelopeRoundTrip(t *testing.T) {
	env := WrapServerEnvelope("table_9", 3, &RoundRecord{
		Round:       12,
		PlayerCards: []string{"As", "Kd"},
		DealerCards: []string{"Th", "7c"},
		PlayerTotal: 21,
		DealerTotal: 17,
		Result:      "PLAYER_BLACKJACK",
		Delta:       15,
		Bankroll:    1015,
		Lines:       []string{"Round 12"},
	})

	data, err := EncodeServerEnvelope(env)
	if err != nil {
		t.Fatalf("EncodeServerEnvelope: %v", err)
	}
	var decoded ServerEnvelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != ServerTypeRound {
		t.Errorf("type = %q, want %q", decoded.Type, ServerTypeRound)
	}
	if decoded.Round == nil {
		t.Fatal("round payload missing after round trip")
	}
	if decoded.Round.Result != "PLAYER_BLACKJACK" || decoded.Round.Delta != 15 {
		t.Errorf("round payload = %+v", decoded.Round)
	}
	if decoded.Snapshot != nil || decoded.Error != nil {
		t.Error("unexpected extra payloads after round trip")
	}
}

func TestDecodeClientEnvelope(t *testing.T) {
	env, err := DecodeClientEnvelope([]byte(`{"type":"play_n","rounds":25}`))
	if err != nil {
		t.Fatalf("decode play_n: %v", err)
	}
	if env.Type != ClientTypePlayN || env.Rounds != 25 {
		t.Errorf("play_n = %+v", env)
	}

	env, err = DecodeClientEnvelope([]byte(`{"type":"join","strategy":"dealer-mimic"}`))
	if err != nil {
		t.Fatalf("decode join: %v", err)
	}
	if env.Type != ClientTypeJoin || env.Strategy != "dealer-mimic" {
		t.Errorf("join = %+v", env)
	}

	if _, err := DecodeClientEnvelope([]byte(`{"rounds":3}`)); err == nil {
		t.Error("expected error for missing command type")
	}
	if _, err := DecodeClientEnvelope([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestSnapshotToWire(t *testing.T) {
	snap := blackjack.Snapshot{
		Phase:         blackjack.PhaseTypeRoundEnd,
		Strategy:      "basic",
		GamesPlayed:   3,
		Wins:          2,
		Losses:        1,
		Bankroll:      1015,
		BetAmount:     10,
		LastResult:    blackjack.GameResultPlayerBlackjack,
		ShoeRemaining: 300,
		LastRound: &blackjack.RoundSnapshot{
			Round:       3,
			PlayerCards: []card.Card{card.CardSpadeA, card.CardDiamondK},
			DealerCards: []card.Card{card.CardHeartT, card.CardClub7},
			PlayerTotal: 21,
			DealerTotal: 17,
			Result:      blackjack.GameResultPlayerBlackjack,
			Delta:       15,
			Bankroll:    1015,
			Lines:       []string{"Round 3"},
		},
	}

	state := SnapshotToWire(snap)
	if state.Phase != "roundend" {
		t.Errorf("phase = %q, want roundend", state.Phase)
	}
	if state.LastResult != "PLAYER_BLACKJACK" {
		t.Errorf("last result = %q, want PLAYER_BLACKJACK", state.LastResult)
	}
	if state.GamesPlayed != 3 || state.Wins != 2 || state.Losses != 1 {
		t.Errorf("counters = %d/%d/%d", state.GamesPlayed, state.Wins, state.Losses)
	}
	if state.LastRound == nil {
		t.Fatal("last round missing")
	}
	wantPlayer := []string{"As", "Kd"}
	for i, want := range wantPlayer {
		if state.LastRound.PlayerCards[i] != want {
			t.Errorf("player card %d = %q, want %q", i, state.LastRound.PlayerCards[i], want)
		}
	}
	wantDealer := []string{"Th", "7c"}
	for i, want := range wantDealer {
		if state.LastRound.DealerCards[i] != want {
			t.Errorf("dealer card %d = %q, want %q", i, state.LastRound.DealerCards[i], want)
		}
	}
}

func TestRoundToWireNil(t *testing.T) {
	if RoundToWire(nil) != nil {
		t.Error("nil record should map to nil wire round")
	}
}
