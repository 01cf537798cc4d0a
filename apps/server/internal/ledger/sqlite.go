package ledger

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blackjack-lite/apps/server/internal/codec"

	_ "modernc.org/sqlite"
)

const defaultLedgerDBName = "blackjack_local.db"

// SQLiteService stores the audit ledger in a single local database file.
// It shares the file with the local auth store, so the server runs with
// no external database at all in local mode.
type SQLiteService struct {
	db          *sql.DB
	recentLimit int
	savedLimit  int
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	return NewSQLiteService(ledgerLocalDatabasePathFromEnv())
}

func NewSQLiteService(path string) (*SQLiteService, error) {
	dsn := path
	if path != ":memory:" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, err
		}
		dsn = abs
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:          db,
		recentLimit: envIntOrDefault("AUDIT_RECENT_LIMIT_X", defaultRecentLimit),
		savedLimit:  envIntOrDefault("AUDIT_SAVED_LIMIT_Y", defaultSavedLimit),
	}, nil
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ledger_event_stream (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    scenario_id TEXT NOT NULL DEFAULT '',
    round_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    envelope_b64 TEXT NOT NULL,
    server_ts_ms INTEGER,
    created_at_ms INTEGER NOT NULL,
    UNIQUE (source, scenario_id, round_id, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_event_stream_round
    ON ledger_event_stream (source, round_id, seq)`,
		`CREATE TABLE IF NOT EXISTS audit_round_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    source TEXT NOT NULL,
    round_id TEXT NOT NULL,
    played_at_ms INTEGER NOT NULL,
    summary_json TEXT NOT NULL DEFAULT '{}',
    tape_blob BLOB,
    is_saved INTEGER NOT NULL DEFAULT 0,
    saved_at_ms INTEGER,
    updated_at_ms INTEGER NOT NULL,
    UNIQUE (account_id, source, round_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_round_history_recent
    ON audit_round_history (account_id, source, is_saved, played_at_ms DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) AppendLiveEvent(roundID string, env *codec.ServerEnvelope, encoded []byte) {
	if strings.TrimSpace(roundID) == "" || env == nil {
		return
	}
	if encoded == nil {
		raw, err := envMarshal(env)
		if err != nil {
			log.Printf("[Ledger] marshal live event failed: round=%s err=%v", roundID, err)
			return
		}
		encoded = raw
	}
	payloadB64 := base64.StdEncoding.EncodeToString(encoded)
	eventType := envelopeEventType(env)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ledger_event_stream (
    source, scenario_id, round_id, seq, event_type, envelope_b64, server_ts_ms, created_at_ms
)
VALUES ('live', '', ?, ?, ?, ?, ?, ?)
ON CONFLICT (source, scenario_id, round_id, seq) DO NOTHING
`, roundID, env.ServerSeq, eventType, payloadB64, nullableInt64(env.ServerTsMs), time.Now().UnixMilli())
	if err != nil {
		log.Printf("[Ledger] append live event failed: round=%s seq=%d err=%v", roundID, env.ServerSeq, err)
	}
}

func (s *SQLiteService) UpsertLiveHistory(accountID uint64, roundID string, playedAt time.Time, summary map[string]any) {
	s.upsertLiveHistoryInternal(accountID, roundID, playedAt, summary, nil)
}

func (s *SQLiteService) UpsertLiveHistoryWithEvents(
	accountID uint64,
	roundID string,
	playedAt time.Time,
	summary map[string]any,
	events []EventItem,
) {
	var tapeBlob []byte
	if len(events) > 0 {
		raw, err := json.Marshal(events)
		if err != nil {
			log.Printf("[Ledger] marshal live tape events failed: account=%d round=%s err=%v", accountID, roundID, err)
		} else {
			tapeBlob = raw
		}
	}
	s.upsertLiveHistoryInternal(accountID, roundID, playedAt, summary, tapeBlob)
}

func (s *SQLiteService) upsertLiveHistoryInternal(
	accountID uint64,
	roundID string,
	playedAt time.Time,
	summary map[string]any,
	tapeBlob []byte,
) {
	if accountID == 0 || strings.TrimSpace(roundID) == "" {
		return
	}
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}
	if summary == nil {
		summary = map[string]any{}
	}
	summaryRaw, err := json.Marshal(summary)
	if err != nil {
		log.Printf("[Ledger] marshal round summary failed: account=%d round=%s err=%v", accountID, roundID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	nowMs := time.Now().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("[Ledger] begin upsert live history tx failed: account=%d round=%s err=%v", accountID, roundID, err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO audit_round_history (
    account_id, source, round_id, played_at_ms, summary_json, tape_blob, updated_at_ms
)
VALUES (?, 'live', ?, ?, ?, ?, ?)
ON CONFLICT (account_id, source, round_id) DO UPDATE
SET
    played_at_ms = excluded.played_at_ms,
    summary_json = excluded.summary_json,
    tape_blob = COALESCE(excluded.tape_blob, audit_round_history.tape_blob),
    updated_at_ms = excluded.updated_at_ms
`, accountID, roundID, playedAt.UnixMilli(), string(summaryRaw), nullableBytes(tapeBlob), nowMs); err != nil {
		log.Printf("[Ledger] upsert live history failed: account=%d round=%s err=%v", accountID, roundID, err)
		return
	}

	if err := trimSQLiteHistory(ctx, tx, accountID, SourceLive, s.recentLimit); err != nil {
		log.Printf("[Ledger] trim live history failed: account=%d err=%v", accountID, err)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[Ledger] commit live history failed: account=%d round=%s err=%v", accountID, roundID, err)
	}
}

func trimSQLiteHistory(ctx context.Context, tx *sql.Tx, accountID uint64, source Source, limit int) error {
	if limit <= 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
DELETE FROM audit_round_history
WHERE id IN (
    SELECT id
    FROM audit_round_history
    WHERE account_id = ?
      AND source = ?
      AND is_saved = 0
    ORDER BY played_at_ms DESC, id DESC
    LIMIT -1 OFFSET ?
)
`, accountID, string(source), limit)
	return err
}

func (s *SQLiteService) UpsertReplayRound(
	ctx context.Context,
	accountID uint64,
	roundID string,
	events []EventItem,
	summary map[string]any,
) error {
	if accountID == 0 || strings.TrimSpace(roundID) == "" {
		return ErrNotFound
	}
	if len(events) == 0 {
		return fmt.Errorf("events is required")
	}
	if summary == nil {
		summary = map[string]any{}
	}
	if _, ok := summary["event_count"]; !ok {
		summary["event_count"] = len(events)
	}
	summaryRaw, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	nowMs := time.Now().UnixMilli()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if e.EventType == "" {
			e.EventType = "unknown"
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO ledger_event_stream (
    source, scenario_id, round_id, seq, event_type, envelope_b64, server_ts_ms, created_at_ms
)
VALUES ('replay', '', ?, ?, ?, ?, ?, ?)
ON CONFLICT (source, scenario_id, round_id, seq) DO UPDATE
SET
    event_type = excluded.event_type,
    envelope_b64 = excluded.envelope_b64,
    server_ts_ms = excluded.server_ts_ms
`, roundID, e.Seq, e.EventType, e.EnvelopeB64, e.ServerTsMs, nowMs)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO audit_round_history (
    account_id, source, round_id, played_at_ms, summary_json, updated_at_ms
)
VALUES (?, 'replay', ?, ?, ?, ?)
ON CONFLICT (account_id, source, round_id) DO UPDATE
SET
    played_at_ms = excluded.played_at_ms,
    summary_json = excluded.summary_json,
    updated_at_ms = excluded.updated_at_ms
`, accountID, roundID, nowMs, string(summaryRaw), nowMs)
	if err != nil {
		return err
	}

	if err := trimSQLiteHistory(ctx, tx, accountID, SourceReplay, s.recentLimit); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, accountID uint64, source Source, limit int) ([]HistoryItem, error) {
	if accountID == 0 {
		return []HistoryItem{}, nil
	}
	if !isAuditSource(source) {
		return nil, fmt.Errorf("invalid source %q", source)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT round_id, source, played_at_ms, summary_json, is_saved, saved_at_ms, updated_at_ms
FROM audit_round_history
WHERE account_id = ?
  AND source = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, accountID, string(source), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HistoryItem, 0, limit)
	for rows.Next() {
		var item HistoryItem
		var sourceRaw string
		var summaryRaw []byte
		var playedAtMs, updatedAtMs int64
		var isSaved int
		var savedAtMs sql.NullInt64
		if err := rows.Scan(&item.RoundID, &sourceRaw, &playedAtMs, &summaryRaw, &isSaved, &savedAtMs, &updatedAtMs); err != nil {
			return nil, err
		}
		item.Source = Source(sourceRaw)
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		item.UpdatedAt = time.UnixMilli(updatedAtMs).UTC()
		item.IsSaved = isSaved != 0
		if savedAtMs.Valid {
			t := time.UnixMilli(savedAtMs.Int64).UTC()
			item.SavedAt = &t
		}
		if len(summaryRaw) > 0 {
			_ = json.Unmarshal(summaryRaw, &item.Summary)
		}
		if item.Summary == nil {
			item.Summary = map[string]any{}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteService) GetRoundEvents(ctx context.Context, accountID uint64, source Source, roundID string) ([]EventItem, error) {
	if accountID == 0 || strings.TrimSpace(roundID) == "" {
		return nil, ErrNotFound
	}
	if !isAuditSource(source) {
		return nil, fmt.Errorf("invalid source %q", source)
	}

	var tapeBlob []byte
	err := s.db.QueryRowContext(ctx, `
SELECT tape_blob
FROM audit_round_history
WHERE account_id = ?
  AND source = ?
  AND round_id = ?
`, accountID, string(source), roundID).Scan(&tapeBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(tapeBlob) > 0 {
		var events []EventItem
		if err := json.Unmarshal(tapeBlob, &events); err == nil && len(events) > 0 {
			return events, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, event_type, envelope_b64, server_ts_ms
FROM ledger_event_stream
WHERE source = ?
  AND scenario_id = ''
  AND round_id = ?
ORDER BY seq ASC
`, string(source), roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]EventItem, 0, 128)
	for rows.Next() {
		var e EventItem
		var serverTs sql.NullInt64
		if err := rows.Scan(&e.Seq, &e.EventType, &e.EnvelopeB64, &serverTs); err != nil {
			return nil, err
		}
		if serverTs.Valid {
			v := serverTs.Int64
			e.ServerTsMs = &v
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return events, nil
}

func (s *SQLiteService) SetSaved(ctx context.Context, accountID uint64, source Source, roundID string, saved bool) error {
	if accountID == 0 || strings.TrimSpace(roundID) == "" {
		return ErrNotFound
	}
	if !isAuditSource(source) {
		return fmt.Errorf("invalid source %q", source)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var isSaved int
	err = tx.QueryRowContext(ctx, `
SELECT is_saved
FROM audit_round_history
WHERE account_id = ?
  AND source = ?
  AND round_id = ?
`, accountID, string(source), roundID).Scan(&isSaved)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if (isSaved != 0) == saved {
		return tx.Commit()
	}

	nowMs := time.Now().UnixMilli()
	if saved {
		var savedCount int
		if err := tx.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM audit_round_history
WHERE account_id = ?
  AND source = ?
  AND is_saved = 1
`, accountID, string(source)).Scan(&savedCount); err != nil {
			return err
		}
		if savedCount >= s.savedLimit {
			return ErrSavedLimitReach
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE audit_round_history
SET is_saved = 1,
    saved_at_ms = ?,
    updated_at_ms = ?
WHERE account_id = ?
  AND source = ?
  AND round_id = ?
`, nowMs, nowMs, accountID, string(source), roundID); err != nil {
			return err
		}
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE audit_round_history
SET is_saved = 0,
    saved_at_ms = NULL,
    updated_at_ms = ?
WHERE account_id = ?
  AND source = ?
  AND round_id = ?
`, nowMs, accountID, string(source), roundID); err != nil {
		return err
	}
	if err := trimSQLiteHistory(ctx, tx, accountID, source, s.recentLimit); err != nil {
		return err
	}
	return tx.Commit()
}

func ledgerLocalDatabasePathFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("LEDGER_LOCAL_DATABASE_PATH")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("AUTH_LOCAL_DATABASE_PATH")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")); v != "" {
		return v
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return defaultLedgerDBName
	}
	return filepath.Join(configDir, "BlackjackLite", defaultLedgerDBName)
}
