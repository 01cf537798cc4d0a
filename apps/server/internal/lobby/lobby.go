package lobby

import (
	"fmt"
	"log"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/ledger"
	"blackjack-lite/apps/server/internal/table"
	"blackjack-lite/blackjack"
	"blackjack-lite/blackjack/strategy"

	"github.com/google/uuid"
)

// Abandoned tables are reaped so idle simulations do not pile up.
const (
	idleTableTTL  = 30 * time.Minute
	sweepInterval = time.Minute
)

// Lobby manages all tables and account assignments. Each account owns at
// most one live table.
type Lobby struct {
	mu        sync.RWMutex
	tables    map[string]*table.Table
	byAccount map[uint64]string // accountID -> tableID

	// Default session config for new tables
	defaultConfig blackjack.Config

	ledger   ledger.Service
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a new lobby and starts the idle-table sweeper.
func New(ledgerService ledger.Service) *Lobby {
	l := &Lobby{
		tables:        make(map[string]*table.Table),
		byAccount:     make(map[uint64]string),
		defaultConfig: blackjack.DefaultConfig(),
		ledger:        ledgerService,
		done:          make(chan struct{}),
	}
	go l.sweepIdleTables()
	return l
}

// QuickStart returns the account's live table, or creates one running the
// named strategy (empty means "basic").
func (l *Lobby) QuickStart(
	accountID uint64,
	strategyName string,
	broadcastFn func(accountID uint64, data []byte),
) (*table.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.byAccount[accountID]; ok {
		if t := l.tables[id]; t != nil && !t.IsClosed() {
			log.Printf("[Lobby] QuickStart: account %d rejoining table %s", accountID, id)
			return t, nil
		}
		delete(l.byAccount, accountID)
	}

	brain, err := strategy.New(strategyName)
	if err != nil {
		return nil, err
	}

	tableID := fmt.Sprintf("table_%s", uuid.NewString())
	t, err := table.New(tableID, accountID, l.defaultConfig, brain, broadcastFn, l.ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	l.tables[tableID] = t
	l.byAccount[accountID] = tableID

	log.Printf("[Lobby] QuickStart: account %d created table %s (strategy=%s)", accountID, tableID, brain.Name())
	return t, nil
}

// GetTable returns a table by ID
func (l *Lobby) GetTable(tableID string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[tableID]
}

// ListTables returns all table IDs
func (l *Lobby) ListTables() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.tables))
	for id := range l.tables {
		ids = append(ids, id)
	}
	return ids
}

// Close stops the sweeper and every table.
func (l *Lobby) Close() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.tables {
		t.Stop()
	}
	l.tables = make(map[string]*table.Table)
	l.byAccount = make(map[uint64]string)
}

func (l *Lobby) sweepIdleTables() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reapIdle(idleTableTTL)
		case <-l.done:
			return
		}
	}
}

// reapIdle stops and drops every table idle for at least ttl.
func (l *Lobby) reapIdle(ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, t := range l.tables {
		if !t.IsIdleFor(ttl) {
			continue
		}
		t.Stop()
		delete(l.tables, id)
		if l.byAccount[t.AccountID] == id {
			delete(l.byAccount, t.AccountID)
		}
		log.Printf("[Lobby] Reaped idle table %s (account %d)", id, t.AccountID)
	}
}
