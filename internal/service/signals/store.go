package signals

import (
	"sync"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

// Source produces a fresh signal set on a cache miss.
type Source interface {
	Generate() []models.Signal
}

// SourceFunc adapts a function to Source.
type SourceFunc func() []models.Signal

func (f SourceFunc) Generate() []models.Signal { return f() }

// Store owns the in-memory signal set. It fills lazily from its source and
// keeps the set until Invalidate. Status changes go through Evaluator only.
type Store struct {
	mu      sync.RWMutex
	source  Source
	signals []*models.Signal
	byID    map[string]*models.Signal
	loaded  bool
	version uint64
}

func NewStore(source Source) *Store {
	return &Store{source: source}
}

// All returns a copy of every signal in generation order.
func (s *Store) All() []models.Signal {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Signal, len(s.signals))
	for i, sig := range s.signals {
		out[i] = *sig
	}
	return out
}

// Get returns a copy of one signal.
func (s *Store) Get(id string) (models.Signal, bool) {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.byID[id]
	if !ok {
		return models.Signal{}, false
	}
	return *sig, true
}

// Invalidate drops the cached set; the next read regenerates it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.signals = nil
	s.byID = nil
	s.loaded = false
}

// Loaded reports whether the set is currently cached.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Version increments on every fill.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) ensureLoaded() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}

	generated := s.source.Generate()
	s.signals = make([]*models.Signal, len(generated))
	s.byID = make(map[string]*models.Signal, len(generated))
	for i := range generated {
		sig := generated[i]
		if sig.State == nil {
			sig.State = models.Active{}
		}
		s.signals[i] = &sig
		s.byID[sig.ID] = &sig
	}
	s.loaded = true
	s.version++
}
