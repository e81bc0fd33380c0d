package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestProducerEncodesValues(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, "gzip", prometheus.NewRegistry())

	err := p.PublishBatch(context.Background(), "events", []Message{
		{Key: []byte("a"), Value: map[string]int{"n": 1}},
		{Key: []byte("b"), Value: "raw"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "events", w.msgs[0].Topic)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))

	require.NoError(t, p.PublishMessage(context.Background(), "logs", []byte("x")))
	assert.Nil(t, w.msgs[2].Key)
}

func TestProducerCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := newProducer(&recordingWriter{err: errors.New("broker down")}, "gzip", reg)

	err := p.Publish(context.Background(), "events", nil, "x")
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.errs.WithLabelValues("events")))
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
