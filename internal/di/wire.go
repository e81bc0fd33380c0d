//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/winnervic367/trading-analyser/pkg/config"
	"github.com/winnervic367/trading-analyser/pkg/server"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideCache,
	ProvideAccountCache,
	ProvideKafkaProducer,
	ProvideDigest,
	ProvideClickHouseClient,
	ProvideJournal,
	ProvidePublisher,
	ProvideOutcomeConsumer,
)

var engineSet = wire.NewSet(
	ProvideSeed,
	ProvideMarketRegistry,
	ProvideSignalStore,
	ProvideMutator,
	ProvideEvaluator,
	ProvideScheduler,
	ProvideOutcomeRecorder,
	ProvideRealtimeUpdater,
)

var httpSet = wire.NewSet(
	ProvideHub,
	ProvideNotifier,
	ProvideSignalsUseCase,
	ProvideMarketDataUseCase,
	ProvideAuthUseCase,
	ProvideCredentialsUseCase,
	ProvideRateLimiter,
	ProvideRouter,
	ProvideHTTPServer,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		engineSet,
		httpSet,
		ProvideResources,
		server.New,
	)
	return &server.App{}, nil
}
