package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	pkgkafka "github.com/winnervic367/trading-analyser/pkg/kafka"
)

// OutcomeSink consumes completed signals from the outcome topic and writes
// them to the journal. It is the far end of the kafka journal route.
type OutcomeSink struct {
	topic   string
	journal drepo.Journal
	metrics drepo.Metrics
	now     func() time.Time
}

func NewOutcomeSink(topic string, journal drepo.Journal, metrics drepo.Metrics) *OutcomeSink {
	return &OutcomeSink{topic: topic, journal: journal, metrics: metrics, now: time.Now}
}

func (h *OutcomeSink) Topic() string { return h.topic }

// Handle accepts the {signal, price} envelope written by the kafka publisher.
func (h *OutcomeSink) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Signal models.Signal `json:"signal"`
		Price  float64       `json:"price"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode outcome: %w", err)
	}
	c, ok := m.Signal.Outcome()
	if !ok {
		h.metrics.RecordError("consumer_not_completed")
		return fmt.Errorf("signal %s is not completed", m.Signal.ID)
	}
	if !c.ExitTime.IsZero() {
		h.metrics.RecordLatency("outcome_e2e", h.now().Sub(c.ExitTime).Seconds())
	}

	start := time.Now()
	err := h.journal.Record(ctx, models.Transition{Signal: m.Signal, Price: m.Price})
	h.metrics.RecordLatency("journal_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		h.metrics.RecordPublish("journal", "error")
		return err
	}
	h.metrics.RecordPublish("journal", "ok")
	return nil
}

var _ pkgkafka.MessageHandler = (*OutcomeSink)(nil)
