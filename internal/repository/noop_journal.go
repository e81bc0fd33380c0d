package repository

import (
	"context"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

// NoopJournal discards outcomes. It backs journal.backend=none.
type NoopJournal struct{}

func (NoopJournal) Init(context.Context) error                             { return nil }
func (NoopJournal) Record(context.Context, models.Transition) error        { return nil }
func (NoopJournal) RecordBatch(context.Context, []models.Transition) error { return nil }
func (NoopJournal) Count(context.Context) (int64, error)                   { return 0, nil }
func (NoopJournal) Health(context.Context) error                           { return nil }
func (NoopJournal) Close() error                                           { return nil }
