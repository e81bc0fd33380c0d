package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type engine struct {
	registry  *market.Registry
	store     *signals.Store
	mutator   *market.Mutator
	evaluator *signals.Evaluator
}

func newEngine(seed int64) engine {
	reg := market.NewDefaultRegistry()
	gen := signals.NewGenerator(reg, rand.New(rand.NewSource(seed+1)), testClock)
	store := signals.NewStore(gen)
	return engine{
		registry:  reg,
		store:     store,
		mutator:   market.NewMutator(reg, rand.New(rand.NewSource(seed))),
		evaluator: signals.NewEvaluator(store, reg, nil),
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, evt models.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}

func (n *recordingNotifier) types() []models.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.EventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type countingMetrics struct {
	mu          sync.Mutex
	ticks       int
	transitions int
	fallbacks   map[string]int
	errors      map[string]int
	publishes   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{fallbacks: map[string]int{}, errors: map[string]int{}, publishes: map[string]int{}}
}

func (m *countingMetrics) RecordTick(float64) {
	m.mu.Lock()
	m.ticks++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordTransition(string, string) {
	m.mu.Lock()
	m.transitions++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordPrice(string, string, float64) {}

func (m *countingMetrics) RecordFallback(op string) {
	m.mu.Lock()
	m.fallbacks[op]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordPublish(sink, result string) {
	m.mu.Lock()
	m.publishes[sink+"/"+result]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordLatency(string, float64) {}
