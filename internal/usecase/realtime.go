package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

const DefaultTickInterval = 5 * time.Second

// TickReport summarizes one pass of the driver.
type TickReport struct {
	Tick        uint64              `json:"tick"`
	At          time.Time           `json:"at"`
	Changes     int                 `json:"priceChanges"`
	Transitions []models.Transition `json:"-"`
	Completed   int                 `json:"completed"`
	Duration    time.Duration       `json:"-"`
}

// RealtimeStatus is the driver state exposed over HTTP.
type RealtimeStatus struct {
	Running  bool      `json:"running"`
	Interval string    `json:"interval"`
	Ticks    uint64    `json:"ticks"`
	LastTick time.Time `json:"lastTick,omitempty"`
}

// RealtimeUpdater periodically moves prices and settles signals. Ticks are
// serialized; Start and Stop are idempotent.
type RealtimeUpdater struct {
	tickMu  sync.Mutex
	stateMu sync.Mutex

	sched     scheduler.Scheduler
	interval  time.Duration
	mutator   *market.Mutator
	evaluator *signals.Evaluator
	notifier  drepo.Notifier
	recorder  *OutcomeRecorder
	metrics   drepo.Metrics
	logger    *applogger.Logger
	now       func() time.Time

	running  bool
	entry    scheduler.EntryID
	ticks    uint64
	lastTick time.Time
}

// RealtimeOption configures a RealtimeUpdater.
type RealtimeOption func(*RealtimeUpdater)

func WithInterval(d time.Duration) RealtimeOption {
	return func(u *RealtimeUpdater) {
		if d > 0 {
			u.interval = d
		}
	}
}

func WithNotifier(n drepo.Notifier) RealtimeOption {
	return func(u *RealtimeUpdater) { u.notifier = n }
}

func WithOutcomeRecorder(r *OutcomeRecorder) RealtimeOption {
	return func(u *RealtimeUpdater) { u.recorder = r }
}

func WithClock(now func() time.Time) RealtimeOption {
	return func(u *RealtimeUpdater) { u.now = now }
}

func NewRealtimeUpdater(
	sched scheduler.Scheduler,
	mutator *market.Mutator,
	evaluator *signals.Evaluator,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	opts ...RealtimeOption,
) *RealtimeUpdater {
	if logger == nil {
		logger = applogger.Nop()
	}
	u := &RealtimeUpdater{
		sched:     sched,
		interval:  DefaultTickInterval,
		mutator:   mutator,
		evaluator: evaluator,
		metrics:   metrics,
		logger:    logger.With("realtime"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start registers the periodic job. Calling Start on a running driver is a no-op.
func (u *RealtimeUpdater) Start() error {
	u.stateMu.Lock()
	defer u.stateMu.Unlock()

	if u.running {
		return nil
	}
	id, err := u.sched.Every(u.interval, func() { u.Tick(context.Background()) })
	if err != nil {
		return err
	}
	u.entry = id
	u.running = true
	u.logger.Info("realtime updates started", applogger.Duration("interval", u.interval))
	return nil
}

// Stop removes the periodic job. A tick already in flight completes.
func (u *RealtimeUpdater) Stop() {
	u.stateMu.Lock()
	defer u.stateMu.Unlock()

	if !u.running {
		return
	}
	u.sched.Remove(u.entry)
	u.running = false
	u.logger.Info("realtime updates stopped")
}

func (u *RealtimeUpdater) Status() RealtimeStatus {
	u.stateMu.Lock()
	running := u.running
	u.stateMu.Unlock()

	u.tickMu.Lock()
	defer u.tickMu.Unlock()
	return RealtimeStatus{
		Running:  running,
		Interval: u.interval.String(),
		Ticks:    u.ticks,
		LastTick: u.lastTick,
	}
}

// Tick runs one mutate and evaluate pass, then notifies subscribers. Sink
// failures are logged and counted, never returned.
func (u *RealtimeUpdater) Tick(ctx context.Context) TickReport {
	u.tickMu.Lock()
	defer u.tickMu.Unlock()

	start := time.Now()
	now := u.now()

	changes := u.mutator.Tick()
	transitions := u.evaluator.Evaluate(now)

	u.ticks++
	u.lastTick = now

	for _, c := range changes {
		u.metrics.RecordPrice(string(c.MarketType), c.InstrumentID, c.New)
	}
	for _, t := range transitions {
		outcome, _ := t.Signal.Outcome()
		u.metrics.RecordTransition(string(t.Signal.MarketType), string(outcome.Result))
		u.logger.Info("signal completed",
			applogger.String("signal_id", t.Signal.ID),
			applogger.String("asset", t.Signal.AssetSymbol),
			applogger.String("result", string(outcome.Result)),
			applogger.Float64("amount", outcome.ResultAmount),
			applogger.Float64("price", t.Price),
		)
	}

	u.record(ctx, transitions)
	u.notify(ctx, now, transitions)

	elapsed := time.Since(start)
	u.metrics.RecordTick(elapsed.Seconds())
	u.logger.Debug("tick done",
		applogger.Uint64("tick", u.ticks),
		applogger.Int("price_changes", len(changes)),
		applogger.Int("completed", len(transitions)),
		applogger.Duration("elapsed", elapsed),
	)

	return TickReport{
		Tick:        u.ticks,
		At:          now,
		Changes:     len(changes),
		Transitions: transitions,
		Completed:   len(transitions),
		Duration:    elapsed,
	}
}

func (u *RealtimeUpdater) record(ctx context.Context, transitions []models.Transition) {
	if u.recorder == nil || len(transitions) == 0 {
		return
	}
	if err := u.recorder.RecordBatch(ctx, transitions); err != nil {
		u.logger.Warn("outcome recording failed", applogger.Error(err), applogger.Int("count", len(transitions)))
	}
}

func (u *RealtimeUpdater) notify(ctx context.Context, now time.Time, transitions []models.Transition) {
	if u.notifier == nil {
		return
	}

	for i := range transitions {
		sig := transitions[i].Signal
		u.send(ctx, models.Event{Type: models.EventSignalCompleted, Tick: u.ticks, At: now, Signal: &sig})
	}
	u.send(ctx, models.Event{Type: models.EventDataRefreshed, Tick: u.ticks, At: now})
}

func (u *RealtimeUpdater) send(ctx context.Context, evt models.Event) {
	if err := u.notifier.Notify(ctx, evt); err != nil {
		u.metrics.RecordError("notify")
		u.logger.Warn("notification failed", applogger.String("event", string(evt.Type)), applogger.Error(err))
	}
}
