package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler whose jobs run only when Fire is called.
type Manual struct {
	mu      sync.Mutex
	next    EntryID
	jobs    map[EntryID]func()
	started bool
}

func NewManual() *Manual {
	return &Manual{jobs: make(map[EntryID]func())}
}

func (m *Manual) Every(_ time.Duration, job func()) (EntryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.jobs[m.next] = job
	return m.next, nil
}

func (m *Manual) Remove(id EntryID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

func (m *Manual) Start() {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
}

func (m *Manual) Stop() context.Context {
	m.mu.Lock()
	m.started = false
	m.mu.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// Jobs returns the number of registered jobs.
func (m *Manual) Jobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// Fire runs every registered job synchronously in registration order.
// Nothing runs while the scheduler is stopped.
func (m *Manual) Fire() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	jobs := make([]func(), 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, m.jobs[EntryID(id)])
	}
	m.mu.Unlock()

	for _, job := range jobs {
		job()
	}
}
