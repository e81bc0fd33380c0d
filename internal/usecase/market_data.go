package usecase

import (
	"context"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/pkg/cache"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

const cacheKeyPrefix = "marketdata"

// MarketDataFallback supplies local data when the provider fails.
type MarketDataFallback interface {
	Markets(limit int) []models.CryptoCurrency
	History(days int) *models.HistoricalData
	Detail(id string) *models.CryptoDetail
}

// MarketDataUseCase serves market data from the provider through the cache.
// Provider failures are replaced by fallback data and never returned.
type MarketDataUseCase struct {
	provider drepo.MarketDataProvider
	fallback MarketDataFallback
	cache    cache.Service
	ttl      time.Duration
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

func NewMarketDataUseCase(
	provider drepo.MarketDataProvider,
	fallback MarketDataFallback,
	c cache.Service,
	ttl time.Duration,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *MarketDataUseCase {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &MarketDataUseCase{
		provider: provider,
		fallback: fallback,
		cache:    c,
		ttl:      ttl,
		metrics:  metrics,
		logger:   logger.With("market_data"),
	}
}

func (uc *MarketDataUseCase) TopCryptos(ctx context.Context, limit int) []models.CryptoCurrency {
	key := cache.GenerateKeyWithParams(cacheKeyPrefix, "markets", limit)
	out, err := load(ctx, uc, "markets", key, func(ctx context.Context) ([]models.CryptoCurrency, error) {
		return uc.provider.ListMarkets(ctx, limit)
	})
	if err != nil {
		return uc.fallback.Markets(limit)
	}
	return out
}

func (uc *MarketDataUseCase) HistoricalSeries(ctx context.Context, id string, days int, interval string) *models.HistoricalData {
	key := cache.GenerateKeyWithParams(cacheKeyPrefix, "history", id, days, interval)
	out, err := load(ctx, uc, "history", key, func(ctx context.Context) (*models.HistoricalData, error) {
		return uc.provider.HistoricalSeries(ctx, id, days, interval)
	})
	if err != nil {
		return uc.fallback.History(days)
	}
	return out
}

func (uc *MarketDataUseCase) Details(ctx context.Context, id string) *models.CryptoDetail {
	key := cache.GenerateKeyWithParams(cacheKeyPrefix, "detail", id)
	out, err := load(ctx, uc, "details", key, func(ctx context.Context) (*models.CryptoDetail, error) {
		return uc.provider.Details(ctx, id)
	})
	if err != nil {
		return uc.fallback.Detail(id)
	}
	return out
}

// load serves key from the cache or fetches and caches it. A fetch failure
// is logged and counted; the caller substitutes fallback data.
func load[T any](ctx context.Context, uc *MarketDataUseCase, op, key string, fetch func(context.Context) (T, error)) (T, error) {
	observed := func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := fetch(ctx)
		uc.metrics.RecordLatency("provider_"+op, time.Since(start).Seconds())
		if err != nil {
			uc.metrics.RecordFallback(op)
			uc.logger.Warn("market data provider failed, serving fallback",
				applogger.String("operation", op),
				applogger.Error(err),
			)
		}
		return v, err
	}

	if uc.cache == nil {
		return observed(ctx)
	}
	return cache.GetOrLoad(ctx, uc.cache, key, uc.ttl, observed)
}
