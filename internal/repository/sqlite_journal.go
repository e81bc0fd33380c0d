package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
)

// SQLiteJournal appends completed signals to a local SQLite file.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteJournal opens (or creates) the database at path. Use ":memory:"
// for an ephemeral journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}
	return &SQLiteJournal{db: db}, nil
}

var _ drepo.Journal = (*SQLiteJournal)(nil)

func (j *SQLiteJournal) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_outcomes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			signal_id     TEXT NOT NULL,
			market_type   TEXT NOT NULL,
			market_id     TEXT NOT NULL,
			symbol        TEXT,
			direction     TEXT,
			time_frame    TEXT,
			entry_price   REAL,
			target_price  REAL,
			stop_loss     REAL,
			exit_price    REAL,
			result        TEXT,
			result_amount REAL,
			entry_time    INTEGER,
			exit_time     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_exit ON signal_outcomes(exit_time)`,
	}
	for _, s := range stmts {
		if _, err := j.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite journal migrate: %w", err)
		}
	}
	return nil
}

func (j *SQLiteJournal) Record(ctx context.Context, t models.Transition) error {
	return j.RecordBatch(ctx, []models.Transition{t})
}

func (j *SQLiteJournal) RecordBatch(ctx context.Context, ts []models.Transition) error {
	if len(ts) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite journal begin: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO signal_outcomes (%s) VALUES %s", outcomeColumns, outcomePlaceholders)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite journal prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		row, ok := newOutcomeRow(t)
		if !ok {
			continue
		}
		args := row.args()
		// times are stored as unix milliseconds
		args[12] = row.EntryTime.UnixMilli()
		args[13] = row.ExitTime.UnixMilli()
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite journal insert %s: %w", row.SignalID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite journal commit: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signal_outcomes").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite journal count: %w", err)
	}
	return n, nil
}

// OutcomeSummary aggregates journal rows by result.
type OutcomeSummary struct {
	Result string
	Count  int64
	Avg    float64
}

// Summary groups outcomes whose exit time is at or after since.
func (j *SQLiteJournal) Summary(ctx context.Context, since time.Time) ([]OutcomeSummary, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT result, COUNT(*), AVG(result_amount) FROM signal_outcomes
		 WHERE exit_time >= ? GROUP BY result ORDER BY result`, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("sqlite journal summary: %w", err)
	}
	defer rows.Close()

	var out []OutcomeSummary
	for rows.Next() {
		var s OutcomeSummary
		if err := rows.Scan(&s.Result, &s.Count, &s.Avg); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Health(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
