package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
)

// NamedNotifier labels a sink for metrics and errors.
type NamedNotifier struct {
	Name     string
	Notifier drepo.Notifier
}

// FanOutNotifier delivers every event to all sinks. A failing sink does not
// stop delivery to the rest.
type FanOutNotifier struct {
	sinks   []NamedNotifier
	metrics drepo.Metrics
}

func NewFanOutNotifier(metrics drepo.Metrics, sinks ...NamedNotifier) *FanOutNotifier {
	return &FanOutNotifier{sinks: sinks, metrics: metrics}
}

func (f *FanOutNotifier) Notify(ctx context.Context, evt models.Event) error {
	var errs []error
	for _, s := range f.sinks {
		if s.Notifier == nil {
			continue
		}
		if err := s.Notifier.Notify(ctx, evt); err != nil {
			f.metrics.RecordPublish(s.Name, "error")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		f.metrics.RecordPublish(s.Name, "ok")
	}
	return errors.Join(errs...)
}
