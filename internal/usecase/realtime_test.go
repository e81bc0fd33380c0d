package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
)

func TestRealtimeStartStopIdempotent(t *testing.T) {
	e := newEngine(1)
	sched := scheduler.NewManual()
	u := NewRealtimeUpdater(sched, e.mutator, e.evaluator, newCountingMetrics(), nil)

	require.NoError(t, u.Start())
	require.NoError(t, u.Start())
	assert.Equal(t, 1, sched.Jobs())
	assert.True(t, u.Status().Running)

	u.Stop()
	u.Stop()
	assert.Equal(t, 0, sched.Jobs())
	assert.False(t, u.Status().Running)
}

func TestRealtimeScheduledTicks(t *testing.T) {
	e := newEngine(1)
	sched := scheduler.NewManual()
	sched.Start()
	n := &recordingNotifier{}
	m := newCountingMetrics()
	u := NewRealtimeUpdater(sched, e.mutator, e.evaluator, m, nil, WithNotifier(n), WithClock(testClock))

	require.NoError(t, u.Start())
	sched.Fire()
	sched.Fire()

	st := u.Status()
	assert.Equal(t, uint64(2), st.Ticks)
	assert.Equal(t, 2, m.ticks)
	assert.Equal(t, "5s", st.Interval)

	types := n.types()
	require.NotEmpty(t, types)
	assert.Equal(t, models.EventDataRefreshed, types[len(types)-1])

	u.Stop()
	sched.Fire()
	assert.Equal(t, uint64(2), u.Status().Ticks)
}

func TestRealtimeTickCompletesSignals(t *testing.T) {
	e := newEngine(3)
	e.store.All()

	n := &recordingNotifier{}
	m := newCountingMetrics()
	journal, err := repository.NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer journal.Close()
	require.NoError(t, journal.Init(context.Background()))
	rec := NewOutcomeRecorder(nil, journal, m, RouteDirect)

	u := NewRealtimeUpdater(scheduler.NewManual(), e.mutator, e.evaluator, m, nil,
		WithNotifier(n), WithOutcomeRecorder(rec), WithClock(testClock))

	completed := 0
	for i := 0; i < 3000 && completed == 0; i++ {
		completed += u.Tick(context.Background()).Completed
	}
	require.Greater(t, completed, 0, "some active signal should cross a level within 3000 ticks")

	count, err := journal.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(completed), count)
	assert.Equal(t, completed, m.transitions)

	var completedEvents int
	for _, evt := range n.events {
		if evt.Type == models.EventSignalCompleted {
			completedEvents++
			require.NotNil(t, evt.Signal)
			assert.Equal(t, models.StatusCompleted, evt.Signal.Status())
		}
	}
	assert.Equal(t, completed, completedEvents)
}

func TestRealtimeNotifierFailureDoesNotFailTick(t *testing.T) {
	e := newEngine(1)
	m := newCountingMetrics()
	n := &recordingNotifier{err: errors.New("socket closed")}
	u := NewRealtimeUpdater(scheduler.NewManual(), e.mutator, e.evaluator, m, nil, WithNotifier(n))

	report := u.Tick(context.Background())
	assert.Equal(t, uint64(1), report.Tick)
	assert.Equal(t, 15, report.Changes)
	assert.GreaterOrEqual(t, m.errors["notify"], 1)
}
