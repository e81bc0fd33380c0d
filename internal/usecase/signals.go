package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

var ErrSignalNotFound = errors.New("signal not found")

// SignalsUseCase is the read side used by the HTTP handlers and the CLI.
type SignalsUseCase struct {
	store    *signals.Store
	registry *market.Registry
	notifier drepo.Notifier
	logger   *applogger.Logger
	now      func() time.Time
}

func NewSignalsUseCase(store *signals.Store, registry *market.Registry, notifier drepo.Notifier, logger *applogger.Logger) *SignalsUseCase {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &SignalsUseCase{
		store:    store,
		registry: registry,
		notifier: notifier,
		logger:   logger.With("signals"),
		now:      time.Now,
	}
}

// FilteredSignals returns the signals of marketType in generation order. A
// non-empty timeFrame must match exactly, so an unknown one yields none.
func (uc *SignalsUseCase) FilteredSignals(_ context.Context, marketType models.MarketType, timeFrame string) ([]models.Signal, error) {
	if !marketType.Valid() {
		return nil, fmt.Errorf("%w: %q", market.ErrUnknownMarketType, marketType)
	}
	tf := drepo.NormalizeTimeFrame(timeFrame)

	out := make([]models.Signal, 0)
	for _, sig := range uc.store.All() {
		if sig.MarketType != marketType {
			continue
		}
		if tf != "" && sig.TimeFrame != tf {
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}

func (uc *SignalsUseCase) SignalByID(_ context.Context, id string) (models.Signal, error) {
	sig, ok := uc.store.Get(id)
	if !ok {
		return models.Signal{}, fmt.Errorf("%w: %s", ErrSignalNotFound, id)
	}
	return sig, nil
}

func (uc *SignalsUseCase) MarketsByType(_ context.Context, marketType models.MarketType) ([]models.Instrument, error) {
	return uc.registry.ListByType(marketType)
}

func (uc *SignalsUseCase) Instrument(_ context.Context, marketType models.MarketType, id string) (models.Instrument, error) {
	return uc.registry.GetByID(marketType, id)
}

// History returns completed signals of marketType whose actual exit lies in
// [from, to]. A zero bound is open.
func (uc *SignalsUseCase) History(_ context.Context, marketType models.MarketType, from, to time.Time) ([]models.Signal, error) {
	if !marketType.Valid() {
		return nil, fmt.Errorf("%w: %q", market.ErrUnknownMarketType, marketType)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("history: window end %s before start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}

	out := make([]models.Signal, 0)
	for _, sig := range uc.store.All() {
		if sig.MarketType != marketType {
			continue
		}
		outcome, done := sig.Outcome()
		if !done {
			continue
		}
		if !from.IsZero() && outcome.ExitTime.Before(from) {
			continue
		}
		if !to.IsZero() && outcome.ExitTime.After(to) {
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}

// Reload drops the cached signal set and tells subscribers to re-read.
func (uc *SignalsUseCase) Reload(ctx context.Context) {
	uc.store.Invalidate()
	uc.logger.Info("signal cache invalidated")

	if uc.notifier == nil {
		return
	}
	evt := models.Event{Type: models.EventSignalsReloaded, At: uc.now()}
	if err := uc.notifier.Notify(ctx, evt); err != nil {
		uc.logger.Warn("reload notification failed", applogger.Error(err))
	}
}
