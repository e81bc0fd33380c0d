package repository

import (
	"context"
	"errors"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("repository: not found")
	ErrAlreadyExists = errors.New("repository: already exists")
)

// MarketDataProvider is the external market-data API. Implementations return
// errors as-is; fallback policy belongs to the caller.
type MarketDataProvider interface {
	ListMarkets(ctx context.Context, limit int) ([]models.CryptoCurrency, error)
	HistoricalSeries(ctx context.Context, id string, days int, interval string) (*models.HistoricalData, error)
	Details(ctx context.Context, id string) (*models.CryptoDetail, error)
}

// Notifier delivers refresh events to subscribers. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, evt models.Event) error
}

// Publisher ships completed transitions to the message bus.
type Publisher interface {
	Publish(ctx context.Context, t models.Transition) error
	PublishBatch(ctx context.Context, ts []models.Transition) error
	Close() error
}

// Journal is an append-only record of completed signals. It is never read
// back to rebuild the signal set.
type Journal interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, t models.Transition) error
	RecordBatch(ctx context.Context, ts []models.Transition) error
	Count(ctx context.Context) (int64, error)
	Health(ctx context.Context) error
	Close() error
}

type UserStore interface {
	Create(ctx context.Context, u models.StoredUser) error
	FindByEmail(ctx context.Context, email string) (models.StoredUser, error)
}

type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type CredentialStore interface {
	Save(ctx context.Context, userID string, c models.Credentials) error
	Get(ctx context.Context, userID string) (models.Credentials, error)
}

type Metrics interface {
	RecordTick(seconds float64)
	RecordTransition(marketType, result string)
	RecordPrice(marketType, id string, price float64)
	RecordFallback(op string)
	RecordPublish(sink, result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
