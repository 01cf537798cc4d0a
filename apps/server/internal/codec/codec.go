// Package codec defines the JSON wire protocol spoken over the websocket
// gateway and the conversions from engine state to wire shapes.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

// Client command types.
const (
	ClientTypeJoin     = "join"
	ClientTypePlay     = "play"
	ClientTypePlayN    = "play_n"
	ClientTypeReset    = "reset"
	ClientTypeSnapshot = "snapshot"
)

// Server event types.
const (
	ServerTypeSnapshot = "snapshot"
	ServerTypeRound    = "round"
	ServerTypeError    = "error"
)

// ClientEnvelope is a single command from a connected client.
type ClientEnvelope struct {
	Type string `json:"type"`

	// join: optional strategy name for a table created on this command.
	Strategy string `json:"strategy,omitempty"`

	// play_n: number of rounds to run.
	Rounds int `json:"rounds,omitempty"`
}

// ServerEnvelope is a single event pushed to a client. Exactly one payload
// pointer is set and it matches Type.
type ServerEnvelope struct {
	Type       string `json:"type"`
	TableID    string `json:"table_id,omitempty"`
	ServerSeq  uint64 `json:"server_seq"`
	ServerTsMs int64  `json:"server_ts_ms"`

	Snapshot *SessionState  `json:"snapshot,omitempty"`
	Round    *RoundRecord   `json:"round,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// SessionState is blackjack.Snapshot in wire form.
type SessionState struct {
	Phase         string       `json:"phase"`
	Strategy      string       `json:"strategy"`
	GamesPlayed   int          `json:"games_played"`
	Wins          int          `json:"wins"`
	Losses        int          `json:"losses"`
	Pushes        int          `json:"pushes"`
	Bankroll      float64      `json:"bankroll"`
	BetAmount     float64      `json:"bet_amount"`
	LastResult    string       `json:"last_result"`
	ShoeRemaining int          `json:"shoe_remaining"`
	LastRound     *RoundRecord `json:"last_round,omitempty"`
}

// RoundRecord is one settled round in wire form. Cards use the compact
// "As"/"Td" spelling, Lines carries the narration block verbatim.
type RoundRecord struct {
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

// SnapshotToWire converts an engine snapshot to its wire form.
func SnapshotToWire(snap blackjack.Snapshot) *SessionState {
	state := &SessionState{
		Phase:         blackjack.PhaseTypeDictionary[snap.Phase],
		Strategy:      snap.Strategy,
		GamesPlayed:   snap.GamesPlayed,
		Wins:          snap.Wins,
		Losses:        snap.Losses,
		Pushes:        snap.Pushes,
		Bankroll:      snap.Bankroll,
		BetAmount:     snap.BetAmount,
		LastResult:    snap.LastResult.String(),
		ShoeRemaining: snap.ShoeRemaining,
	}
	if rec := snap.LastRound; rec != nil {
		state.LastRound = &RoundRecord{
			Round:       rec.Round,
			PlayerCards: card.CardsToStrings(rec.PlayerCards),
			DealerCards: card.CardsToStrings(rec.DealerCards),
			PlayerTotal: rec.PlayerTotal,
			DealerTotal: rec.DealerTotal,
			Doubled:     rec.Doubled,
			Result:      rec.Result.String(),
			Delta:       rec.Delta,
			Bankroll:    rec.Bankroll,
			Lines:       append([]string{}, rec.Lines...),
		}
	}
	return state
}

// RoundToWire converts a settled engine round to its wire form.
func RoundToWire(rec *blackjack.RoundRecord) *RoundRecord {
	if rec == nil {
		return nil
	}
	return &RoundRecord{
		Round:       rec.Round,
		PlayerCards: card.CardsToStrings(rec.PlayerCards),
		DealerCards: card.CardsToStrings(rec.DealerCards),
		PlayerTotal: rec.PlayerTotal,
		DealerTotal: rec.DealerTotal,
		Doubled:     rec.Doubled,
		Result:      rec.Result.String(),
		Delta:       rec.Delta,
		Bankroll:    rec.Bankroll,
		Lines:       append([]string{}, rec.Lines...),
	}
}

// WrapServerEnvelope creates a ServerEnvelope with common fields filled in.
func WrapServerEnvelope(tableID string, serverSeq uint64, payload interface{}) *ServerEnvelope {
	env := &ServerEnvelope{
		TableID:    tableID,
		ServerSeq:  serverSeq,
		ServerTsMs: time.Now().UnixMilli(),
	}

	switch p := payload.(type) {
	case *ErrorResponse:
		env.Type = ServerTypeError
		env.Error = p
	case *SessionState:
		env.Type = ServerTypeSnapshot
		env.Snapshot = p
	case *RoundRecord:
		env.Type = ServerTypeRound
		env.Round = p
	}

	return env
}

// EncodeServerEnvelope marshals an envelope for the wire.
func EncodeServerEnvelope(env *ServerEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

// DecodeClientEnvelope parses a client command. The command type must be
// present; payload validation is the dispatcher's job.
func DecodeClientEnvelope(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Type == "" {
		return nil, fmt.Errorf("missing command type")
	}
	return &env, nil
}
