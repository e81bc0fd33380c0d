package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
)

const (
	RouteDirect = "direct"
	RouteKafka  = "kafka"
)

// OutcomeRecorder routes completed transitions to the journal or to the
// message bus.
type OutcomeRecorder struct {
	pub     drepo.Publisher
	journal drepo.Journal
	metrics drepo.Metrics
	route   string
}

func NewOutcomeRecorder(pub drepo.Publisher, journal drepo.Journal, metrics drepo.Metrics, route string) *OutcomeRecorder {
	if route == "" {
		route = RouteDirect
	}
	return &OutcomeRecorder{pub: pub, journal: journal, metrics: metrics, route: route}
}

// Route returns the configured destination.
func (r *OutcomeRecorder) Route() string { return r.route }

func (r *OutcomeRecorder) Record(ctx context.Context, t models.Transition) error {
	return r.RecordBatch(ctx, []models.Transition{t})
}

func (r *OutcomeRecorder) RecordBatch(ctx context.Context, ts []models.Transition) error {
	if len(ts) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch r.route {
	case RouteKafka:
		if r.pub == nil {
			err = fmt.Errorf("kafka route without publisher")
			break
		}
		err = r.pub.PublishBatch(ctx, ts)
	case RouteDirect:
		if r.journal == nil {
			return nil
		}
		err = r.journal.RecordBatch(ctx, ts)
	default:
		err = fmt.Errorf("unknown route: %s", r.route)
	}

	if err != nil {
		r.metrics.RecordError("record_outcome")
		r.metrics.RecordPublish(r.route, "error")
		return fmt.Errorf("record outcomes: %w", err)
	}

	r.metrics.RecordPublish(r.route, "ok")
	r.metrics.RecordLatency("record_outcome", time.Since(start).Seconds())
	return nil
}

// Close closes the underlying sinks.
func (r *OutcomeRecorder) Close() {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.journal != nil {
		_ = r.journal.Close()
	}
}
