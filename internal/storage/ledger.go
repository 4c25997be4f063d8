package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// LedgerSchemaVersion is the current ledger schema version.
const LedgerSchemaVersion = 1

const ledgerSchemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL,
    applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sweep_id TEXT NOT NULL,
    stage TEXT NOT NULL,      -- 'generate' or 'solve'
    filename TEXT NOT NULL,
    status TEXT NOT NULL,     -- 'ok', 'failed' or 'cancelled'
    error TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_sweep ON outcomes(sweep_id);
`

const ledgerTimeFormat = "2006-01-02T15:04:05.000000000Z"

// Ledger stages.
const (
	StageGenerate = "generate"
	StageSolve    = "solve"
)

// Entry is one recorded outcome.
type Entry struct {
	SweepID    string
	Stage      string
	Filename   string
	Status     string
	Error      string
	Duration   time.Duration
	RecordedAt time.Time
}

// SweepSummary aggregates the entries of one sweep and stage.
type SweepSummary struct {
	SweepID string
	Stage   string
	Started time.Time
	OK      int
	Failed  int
	Total   int
}

// Ledger records generation and solver outcomes in SQLite.
type Ledger struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(ctx context.Context, path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initLedgerSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func initLedgerSchema(ctx context.Context, db *sql.DB) error {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err == nil && version >= LedgerSchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ledgerSchemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
		LedgerSchemaVersion, time.Now().UTC().Format(ledgerTimeFormat)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends e. A zero RecordedAt is set to now.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO outcomes (sweep_id, stage, filename, status, error, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SweepID, e.Stage, e.Filename, e.Status, e.Error, e.Duration.Milliseconds(),
		e.RecordedAt.UTC().Format(ledgerTimeFormat))
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", e.Filename, err)
	}
	return nil
}

// Entries returns the entries of one sweep in insertion order.
func (l *Ledger) Entries(ctx context.Context, sweepID string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT sweep_id, stage, filename, status, COALESCE(error, ''), duration_ms, recorded_at
		 FROM outcomes WHERE sweep_id = ? ORDER BY id`, sweepID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
			at string
		)
		if err := rows.Scan(&e.SweepID, &e.Stage, &e.Filename, &e.Status, &e.Error, &ms, &at); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		e.RecordedAt, _ = time.Parse(ledgerTimeFormat, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summaries aggregates every sweep and stage, newest first.
func (l *Ledger) Summaries(ctx context.Context) ([]SweepSummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT sweep_id, stage, MIN(recorded_at),
		       SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
		       COUNT(*)
		FROM outcomes
		GROUP BY sweep_id, stage
		ORDER BY MIN(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var out []SweepSummary
	for rows.Next() {
		var (
			s  SweepSummary
			at string
		)
		if err := rows.Scan(&s.SweepID, &s.Stage, &at, &s.OK, &s.Failed, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.Started, _ = time.Parse(ledgerTimeFormat, at)
		out = append(out, s)
	}
	return out, rows.Err()
}

// NewSweepID returns an identifier for a sweep started at t.
func NewSweepID(name string, t time.Time) string {
	return fmt.Sprintf("%s_%d", name, t.UnixNano())
}
