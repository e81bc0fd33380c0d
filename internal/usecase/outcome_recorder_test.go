package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

type fakePublisher struct {
	batches [][]models.Transition
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, t models.Transition) error {
	return p.PublishBatch(ctx, []models.Transition{t})
}

func (p *fakePublisher) PublishBatch(_ context.Context, ts []models.Transition) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, ts)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestOutcomeRecorderKafkaRoute(t *testing.T) {
	pub := &fakePublisher{}
	m := newCountingMetrics()
	r := NewOutcomeRecorder(pub, nil, m, RouteKafka)

	ts := []models.Transition{{Signal: models.Signal{ID: "1"}}}
	require.NoError(t, r.RecordBatch(context.Background(), ts))
	require.NoError(t, r.RecordBatch(context.Background(), nil))
	assert.Len(t, pub.batches, 1)
	assert.Equal(t, 1, m.publishes["kafka/ok"])
}

func TestOutcomeRecorderErrors(t *testing.T) {
	m := newCountingMetrics()
	ts := []models.Transition{{Signal: models.Signal{ID: "1"}}}

	r := NewOutcomeRecorder(&fakePublisher{err: errors.New("broker down")}, nil, m, RouteKafka)
	assert.Error(t, r.Record(context.Background(), ts[0]))
	assert.Equal(t, 1, m.errors["record_outcome"])

	r = NewOutcomeRecorder(nil, nil, m, "carrier-pigeon")
	assert.Error(t, r.RecordBatch(context.Background(), ts))

	r = NewOutcomeRecorder(nil, nil, m, "")
	assert.Equal(t, RouteDirect, r.Route())
	assert.NoError(t, r.RecordBatch(context.Background(), ts), "direct route without journal discards")
}
