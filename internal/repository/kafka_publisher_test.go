package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
	pkgkafka "github.com/winnervic367/trading-analyser/pkg/kafka"
)

type sentMessage struct {
	topic string
	key   []byte
	value interface{}
}

type fakeProducer struct {
	sent []sentMessage
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.sent = append(f.sent, sentMessage{topic, key, value})
	return nil
}

func (f *fakeProducer) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	for _, m := range msgs {
		f.sent = append(f.sent, sentMessage{topic, m.Key, m.Value})
	}
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisherKeysBySignalID(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, topic: "outcomes"}

	exit := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.PublishBatch(context.Background(), []models.Transition{
		completedTransition("7", models.ResultProfit, 10, exit),
		completedTransition("8", models.ResultLoss, -5, exit),
	}))

	require.Len(t, fp.sent, 2)
	assert.Equal(t, "outcomes", fp.sent[0].topic)
	assert.Equal(t, "7", string(fp.sent[0].key))

	raw, err := json.Marshal(fp.sent[1].value)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result":"loss"`)
}

func TestKafkaNotifier(t *testing.T) {
	fp := &fakeProducer{}
	n := &KafkaNotifier{producer: fp, topic: "events"}

	require.NoError(t, n.Notify(context.Background(), models.Event{Type: models.EventDataRefreshed, Tick: 3}))
	require.Len(t, fp.sent, 1)
	assert.Nil(t, fp.sent[0].key)
	assert.Equal(t, "events", fp.sent[0].topic)
}
