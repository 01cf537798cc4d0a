package table

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/ledger"
	"blackjack-lite/blackjack"
)

// Table runs one blackjack session behind an actor loop. All session
// access happens on the actor goroutine; callers talk to it through
// SubmitEvent.
type Table struct {
	ID        string
	AccountID uint64

	mu       sync.RWMutex
	session  *blackjack.Session
	rounds   uint64 // lifetime round counter, survives session resets
	closed   bool
	stopOnce sync.Once
	lastSeen time.Time

	// Event channel for actor pattern
	events chan Event
	done   chan struct{}

	// Server sequence for event ordering
	serverSeq uint64

	// Callback to push messages to the owning account's connection
	broadcast func(accountID uint64, data []byte)
	ledger    ledger.Service
}

// Event types for the actor message queue
type EventType int

const (
	EventAttach EventType = iota
	EventPlay
	EventReset
	EventClose
)

// Event represents a message to the table actor
type Event struct {
	Type      EventType
	AccountID uint64
	Rounds    int
	Timestamp time.Time
	Response  chan error
}

var ErrTableClosed = errors.New("table closed")

const maxRoundsPerCommand = 10000

// roundRecorder feeds settled rounds back into the owning table. It is
// invoked from PlayRound on the actor goroutine, with t.mu already held.
type roundRecorder struct {
	t *Table
}

func (r roundRecorder) AppendRound(rec *blackjack.RoundRecord) error {
	r.t.onRoundLocked(rec)
	return nil
}

// New creates a table and starts its actor goroutine.
func New(
	id string,
	accountID uint64,
	cfg blackjack.Config,
	brain blackjack.Decider,
	broadcastFn func(accountID uint64, data []byte),
	ledgerService ledger.Service,
) (*Table, error) {
	t := &Table{
		ID:        id,
		AccountID: accountID,
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
		broadcast: broadcastFn,
		ledger:    ledgerService,
		lastSeen:  time.Now(),
	}

	session, err := blackjack.NewSession(cfg, brain, roundRecorder{t})
	if err != nil {
		return nil, err
	}
	t.session = session

	// Start actor goroutine
	go t.run()

	log.Printf("[Table %s] Created (account=%d, strategy=%s)", id, accountID, session.StrategyName())
	return t, nil
}

// run is the main actor loop
func (t *Table) run() {
	for {
		select {
		case event := <-t.events:
			err := t.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-t.done:
			log.Printf("[Table %s] Actor stopped", t.ID)
			return
		}
	}
}

func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}
	t.lastSeen = e.Timestamp

	switch e.Type {
	case EventAttach:
		t.sendSnapshotLocked()
		return nil
	case EventPlay:
		return t.handlePlay(e.Rounds)
	case EventReset:
		return t.handleReset()
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

// handlePlay runs the requested rounds and pushes the post-play snapshot.
// A bankroll error still sends the snapshot; the caller decides how to
// surface it.
func (t *Table) handlePlay(rounds int) error {
	if rounds < 1 {
		rounds = 1
	}
	if rounds > maxRoundsPerCommand {
		rounds = maxRoundsPerCommand
	}

	played, err := t.session.PlayRounds(rounds)
	if played > 0 {
		log.Printf("[Table %s] Played %d round(s), bankroll %.2f", t.ID, played, t.session.Bankroll())
	}
	t.sendSnapshotLocked()
	return err
}

func (t *Table) handleReset() error {
	t.session.Reset()
	log.Printf("[Table %s] Session reset (bankroll %.2f)", t.ID, t.session.Bankroll())
	t.sendSnapshotLocked()
	return nil
}

// onRoundLocked broadcasts one settled round and records it in the audit
// ledger. The round id keeps counting across resets so ledger keys never
// collide.
func (t *Table) onRoundLocked(rec *blackjack.RoundRecord) {
	t.rounds++
	roundID := fmt.Sprintf("%s_r%d", t.ID, t.rounds)

	env := codec.WrapServerEnvelope(t.ID, t.nextSeq(), codec.RoundToWire(rec))
	data, err := codec.EncodeServerEnvelope(env)
	if err != nil {
		log.Printf("[Table %s] Failed to marshal round event: %v", t.ID, err)
		return
	}
	t.sendToAccount(data)
	t.appendLiveLedgerEvent(roundID, env, data)
	t.upsertRoundHistory(roundID, rec, env, data)
}

func (t *Table) sendSnapshotLocked() {
	env := codec.WrapServerEnvelope(t.ID, t.nextSeq(), codec.SnapshotToWire(t.session.Snapshot()))
	data, err := codec.EncodeServerEnvelope(env)
	if err != nil {
		log.Printf("[Table %s] Failed to marshal snapshot: %v", t.ID, err)
		return
	}
	t.sendToAccount(data)
}

func (t *Table) sendToAccount(data []byte) {
	if t.broadcast == nil {
		return
	}
	t.broadcast(t.AccountID, data)
}

func (t *Table) nextSeq() uint64 {
	t.serverSeq++
	return t.serverSeq
}

func (t *Table) appendLiveLedgerEvent(roundID string, env *codec.ServerEnvelope, data []byte) {
	if t.ledger == nil || roundID == "" {
		return
	}
	// Keep a stable copy so later reuse of data cannot race the write.
	encoded := make([]byte, len(data))
	copy(encoded, data)
	go t.ledger.AppendLiveEvent(roundID, env, encoded)
}

func (t *Table) upsertRoundHistory(roundID string, rec *blackjack.RoundRecord, env *codec.ServerEnvelope, data []byte) {
	if t.ledger == nil || t.AccountID == 0 {
		return
	}
	summary := map[string]any{
		"round":        rec.Round,
		"result":       rec.Result.String(),
		"delta":        rec.Delta,
		"bankroll":     rec.Bankroll,
		"player_total": rec.PlayerTotal,
		"dealer_total": rec.DealerTotal,
		"strategy":     t.session.StrategyName(),
	}
	if rec.Doubled {
		summary["doubled"] = true
	}
	serverTs := env.ServerTsMs
	tape := []ledger.EventItem{{
		Seq:         env.ServerSeq,
		EventType:   env.Type,
		EnvelopeB64: base64.StdEncoding.EncodeToString(data),
		ServerTsMs:  &serverTs,
	}}
	go t.ledger.UpsertLiveHistoryWithEvents(t.AccountID, roundID, time.Now().UTC(), summary, tape)
}

// SubmitEvent queues an event and waits for the actor to process it.
func (t *Table) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// Stop shuts down the table actor
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	t.closed = true
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

// IsIdleFor reports whether no command has touched the table for ttl.
func (t *Table) IsIdleFor(ttl time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return true
	}
	return time.Since(t.lastSeen) >= ttl
}

func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Snapshot returns current session state (thread-safe)
func (t *Table) Snapshot() blackjack.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session.Snapshot()
}
