package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// EntryID identifies a registered job.
type EntryID int

// Scheduler runs jobs on a fixed interval.
type Scheduler interface {
	Every(interval time.Duration, job func()) (EntryID, error)
	Remove(id EntryID)
	Start()
	Stop() context.Context
}

// Cron is the robfig/cron backed Scheduler. Overlapping runs of the same
// job are skipped.
type Cron struct {
	mu      sync.Mutex
	cron    *cron.Cron
	logger  *applogger.Logger
	running bool
}

func NewCron(logger *applogger.Logger) *Cron {
	if logger == nil {
		logger = applogger.Nop()
	}
	lg := logger.With("scheduler")
	adapter := cronLogger{logger: lg}
	return &Cron{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		logger: lg,
	}
}

func (c *Cron) Every(interval time.Duration, job func()) (EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	id, err := c.cron.AddFunc("@every "+interval.String(), job)
	if err != nil {
		return 0, fmt.Errorf("scheduler: register job: %w", err)
	}
	c.logger.Debug("job registered", applogger.Int("entry_id", int(id)), applogger.Duration("interval", interval))
	return EntryID(id), nil
}

func (c *Cron) Remove(id EntryID) {
	c.cron.Remove(cron.EntryID(id))
}

func (c *Cron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.cron.Start()
	c.logger.Info("scheduler started")
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (c *Cron) Stop() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	ctx := c.cron.Stop()
	c.logger.Info("scheduler stopped")
	return ctx
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	logger *applogger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(kvFields(keysAndValues), applogger.Error(err))
	l.logger.Error("cron: "+msg, fields...)
}

func kvFields(kv []interface{}) []applogger.Field {
	fields := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, applogger.Any(key, kv[i+1]))
	}
	return fields
}
