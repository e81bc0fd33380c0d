package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		m := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type funcHandler struct {
	topic string
	fn    func([]byte) error
}

func (h funcHandler) Topic() string                            { return h.topic }
func (h funcHandler) Handle(_ context.Context, b []byte) error { return h.fn(b) }

func testConsumer(reader *fakeReader, reg prometheus.Registerer) *Consumer {
	cfg := &ConsumerConfig{
		WorkerCount: 2,
		BufferSize:  4,
		RetryMax:    2,
		BackoffMin:  time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
		Registerer:  reg,
	}
	return newConsumer(cfg, func(string) messageReader { return reader })
}

func TestConsumerHandlesAndCommits(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{
		{Value: []byte("a")}, {Value: []byte("b")}, {Value: []byte("c")},
	}}
	c := testConsumer(reader, prometheus.NewRegistry())

	var seen int32
	c.RegisterHandler(funcHandler{topic: "outcomes", fn: func([]byte) error {
		atomic.AddInt32(&seen, 1)
		return nil
	}})
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return reader.commits() == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	assert.EqualValues(t, 3, atomic.LoadInt32(&seen))
	assert.True(t, reader.closed)
	assert.Equal(t, 3.0, testutil.ToFloat64(c.metrics.handled.WithLabelValues("outcomes", "ok")))
}

func TestConsumerRetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Key: []byte("k"), Value: []byte("bad")}}}
	c := testConsumer(reader, prometheus.NewRegistry())
	c.cfg.DLQTopic = "outcomes.dlq"
	dlq := &recordingWriter{}
	c.dlq = dlq

	var calls int32
	c.RegisterHandler(funcHandler{topic: "outcomes", fn: func([]byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("decode failed")
	}})
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "outcomes.dlq", dlq.msgs[0].Topic)
	assert.Equal(t, "bad", string(dlq.msgs[0].Value))
	assert.Equal(t, "outcomes", string(dlq.msgs[0].Headers[0].Value))
}

func TestConsumerWithoutDLQLeavesFailureUncommitted(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Value: []byte("bad")}}}
	reg := prometheus.NewRegistry()
	c := testConsumer(reader, reg)
	c.cfg.RetryMax = 0
	c.RegisterHandler(funcHandler{topic: "outcomes", fn: func([]byte) error { return errors.New("nope") }})
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(c.metrics.handled.WithLabelValues("outcomes", "error")) == 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))
	assert.Zero(t, reader.commits())
}

func TestConsumerStartRequiresHandler(t *testing.T) {
	c := testConsumer(&fakeReader{}, prometheus.NewRegistry())
	assert.Error(t, c.Start())
	assert.NoError(t, c.Stop(context.Background()))
}

func TestBackoffWithJitterStaysInRange(t *testing.T) {
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 80*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 80*time.Millisecond)
	}
}

func TestNewConsumerRequiresBrokers(t *testing.T) {
	_, err := NewConsumer()
	assert.Error(t, err)
}
