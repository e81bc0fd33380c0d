package market

import (
	"errors"
	"fmt"
	"sync"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

var (
	ErrUnknownMarketType  = errors.New("market: unknown market type")
	ErrInstrumentNotFound = errors.New("market: instrument not found")
)

// Registry holds the canonical current price of every instrument. Readers get
// copies; prices change only through Mutator.
type Registry struct {
	mu         sync.RWMutex
	partitions map[models.MarketType][]*models.Instrument
}

// NewRegistry builds a registry from seed, keeping insertion order per type.
// Instruments with an unknown type or a non-positive price are rejected.
func NewRegistry(seed []models.Instrument) (*Registry, error) {
	r := &Registry{partitions: make(map[models.MarketType][]*models.Instrument)}
	seen := make(map[string]struct{}, len(seed))

	for _, inst := range seed {
		if !inst.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMarketType, inst.Type)
		}
		if inst.CurrentPrice <= 0 {
			return nil, fmt.Errorf("market: instrument %s has non-positive price %v", inst.ID, inst.CurrentPrice)
		}
		key := string(inst.Type) + "/" + inst.ID
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("market: duplicate instrument %s", key)
		}
		seen[key] = struct{}{}

		cp := inst
		r.partitions[inst.Type] = append(r.partitions[inst.Type], &cp)
	}
	return r, nil
}

// NewDefaultRegistry returns a registry seeded with DefaultInstruments.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultInstruments())
	if err != nil {
		panic(err)
	}
	return r
}

// ListByType returns the instruments of t in insertion order.
func (r *Registry) ListByType(t models.MarketType) ([]models.Instrument, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMarketType, t)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.partitions[t]
	out := make([]models.Instrument, len(list))
	for i, inst := range list {
		out[i] = *inst
	}
	return out, nil
}

// GetByID returns a copy of one instrument.
func (r *Registry) GetByID(t models.MarketType, id string) (models.Instrument, error) {
	if !t.Valid() {
		return models.Instrument{}, fmt.Errorf("%w: %q", ErrUnknownMarketType, t)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inst := range r.partitions[t] {
		if inst.ID == id {
			return *inst, nil
		}
	}
	return models.Instrument{}, fmt.Errorf("%w: %s/%s", ErrInstrumentNotFound, t, id)
}

// All returns every instrument, types in canonical order.
func (r *Registry) All() []models.Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Instrument
	for _, t := range models.MarketTypes() {
		for _, inst := range r.partitions[t] {
			out = append(out, *inst)
		}
	}
	return out
}

// update visits every instrument under the write lock, in canonical order.
func (r *Registry) update(fn func(inst *models.Instrument)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range models.MarketTypes() {
		for _, inst := range r.partitions[t] {
			fn(inst)
		}
	}
}

// Types returns the partitions in canonical order.
func (r *Registry) Types() []models.MarketType {
	return models.MarketTypes()
}
