package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	batches [][]DigestEntry
}

func (p *capturePublisher) Publish(_ context.Context, _ string, _ []byte, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, payload.([]DigestEntry))
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func TestDigestDeduplicatesRepeatedErrors(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDigest(DigestConfig{Interval: time.Hour, MaxUnique: 10, Topic: "logs", Publisher: pub})

	l := Nop()
	l.AttachDigest(d)
	for i := 0; i < 3; i++ {
		l.Error("tick failed", String("stage", "mutate"), Error(errors.New("boom")))
	}
	l.Error("tick failed", String("stage", "evaluate"))
	l.Warn("not collected")

	assert.Equal(t, 2, d.Pending())

	d.Close()
	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)

	counts := map[string]int{}
	for _, e := range pub.batches[0] {
		counts[e.Fields["stage"].(string)] = e.Count
	}
	assert.Equal(t, map[string]int{"mutate": 3, "evaluate": 1}, counts)
}

func TestDigestFlushesAtThreshold(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDigest(DigestConfig{Interval: time.Hour, MaxUnique: 2, Publisher: pub})
	defer d.Close()

	d.Add("error", "a", nil)
	d.Add("error", "b", nil)

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, d.Pending())
}
