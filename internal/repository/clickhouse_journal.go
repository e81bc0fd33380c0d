package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
)

// ClickHouseJournal appends completed signals to a MergeTree table.
type ClickHouseJournal struct {
	db    *sql.DB
	table string
}

func NewClickHouseJournal(db *sql.DB, table string) drepo.Journal {
	if table == "" {
		table = "signal_outcomes"
	}
	return &ClickHouseJournal{db: db, table: table}
}

func (j *ClickHouseJournal) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		signal_id     String,
		market_type   LowCardinality(String),
		market_id     String,
		symbol        String,
		direction     LowCardinality(String),
		time_frame    LowCardinality(String),
		entry_price   Float64,
		target_price  Float64,
		stop_loss     Float64,
		exit_price    Float64,
		result        LowCardinality(String),
		result_amount Float64,
		entry_time    DateTime64(3, 'UTC'),
		exit_time     DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (market_type, exit_time, signal_id)`, j.table)
	if _, err := j.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("clickhouse journal init: %w", err)
	}
	return nil
}

func (j *ClickHouseJournal) Record(ctx context.Context, t models.Transition) error {
	return j.RecordBatch(ctx, []models.Transition{t})
}

func (j *ClickHouseJournal) RecordBatch(ctx context.Context, ts []models.Transition) error {
	if len(ts) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(ts); start += chunkSize {
		end := start + chunkSize
		if end > len(ts) {
			end = len(ts)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*14)
		for _, t := range ts[start:end] {
			row, ok := newOutcomeRow(t)
			if !ok {
				continue
			}
			values = append(values, outcomePlaceholders)
			args = append(args, row.args()...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", j.table, outcomeColumns, strings.Join(values, ","))
		if _, err := j.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clickhouse journal insert: %w", err)
		}
	}
	return nil
}

func (j *ClickHouseJournal) Count(ctx context.Context) (int64, error) {
	var n uint64
	if err := j.db.QueryRowContext(ctx, fmt.Sprintf("SELECT count() FROM %s", j.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("clickhouse journal count: %w", err)
	}
	return int64(n), nil
}

func (j *ClickHouseJournal) Health(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close is a no-op; the pool belongs to pkg/clickhouse.Client.
func (j *ClickHouseJournal) Close() error {
	return nil
}
