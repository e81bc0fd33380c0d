package di

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/internal/handler/api"
	"github.com/winnervic367/trading-analyser/internal/handler/ws"
	internalrepo "github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
	"github.com/winnervic367/trading-analyser/internal/service/coingecko"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/ratelimit"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	"github.com/winnervic367/trading-analyser/pkg/cache"
	pkgch "github.com/winnervic367/trading-analyser/pkg/clickhouse"
	"github.com/winnervic367/trading-analyser/pkg/config"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	pkgkafka "github.com/winnervic367/trading-analyser/pkg/kafka"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
	"github.com/winnervic367/trading-analyser/pkg/metrics"
	"github.com/winnervic367/trading-analyser/pkg/server"
)

// Seed drives every simulated random source. Zero in config means time based.
type Seed int64

func ProvideSeed(cfg *config.Config) Seed {
	if cfg.Simulation.Seed != 0 {
		return Seed(cfg.Simulation.Seed)
	}
	return Seed(time.Now().UnixNano())
}

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) drepo.Metrics {
	return metrics.New(reg)
}

// ProvideCache creates the key-value cache: memory only, or memory in front
// of redis when redis is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	rc := cfg.Cache.Redis
	if !rc.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
		), nil
	}
	redis, err := newRedisCache(cfg, cfg.Cache.Redis.Prefix)
	if err != nil {
		return nil, err
	}
	return cache.NewLayeredCache(redis, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize)), nil
}

// AccountCache holds users, credentials and revoked sessions. It is kept
// apart from the market-data cache so response churn never evicts an account.
type AccountCache cache.Service

// ProvideAccountCache creates the account store: an unbounded, non-expiring
// memory cache, or its own redis keyspace when redis is enabled.
func ProvideAccountCache(cfg *config.Config) (AccountCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryPersistent(),
			cache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
		), nil
	}
	redis, err := newRedisCache(cfg, cfg.Cache.Redis.Prefix+":accounts")
	if err != nil {
		return nil, err
	}
	return redis, nil
}

func newRedisCache(cfg *config.Config, prefix string) (*cache.RedisCache, error) {
	rc := cfg.Cache.Redis
	redis, err := cache.NewRedisCache(
		cache.WithRedisHost(rc.Host),
		cache.WithRedisPort(rc.Port),
		cache.WithRedisPassword(rc.Password),
		cache.WithRedisDB(rc.DB),
		cache.WithRedisPrefix(prefix),
		cache.WithRedisPool(rc.PoolSize, rc.MinIdleConns, rc.PoolTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return redis, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopics(cfg.Environment != "production"),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideDigest attaches a Kafka log digest to logger when a digest topic is set.
func ProvideDigest(cfg *config.Config, logger *applogger.Logger, producer *pkgkafka.Producer) *applogger.Digest {
	if producer == nil || cfg.Logger.DigestTopic == "" {
		return nil
	}
	d := applogger.NewDigest(applogger.DigestConfig{
		Interval:  cfg.Logger.DigestEvery,
		Topic:     cfg.Logger.DigestTopic,
		Publisher: producer,
	})
	logger.AttachDigest(d)
	return d
}

// ProvideClickHouseClient creates a ClickHouse client when the journal uses it.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Journal.Backend != "clickhouse" {
		return nil, nil
	}
	ch := cfg.Journal.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideJournal opens the configured outcome journal and creates its schema.
func ProvideJournal(cfg *config.Config, ch *pkgch.Client) (drepo.Journal, error) {
	var journal drepo.Journal
	switch cfg.Journal.Backend {
	case "sqlite":
		path := cfg.Journal.SQLitePath
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("sqlite journal dir: %w", err)
			}
		}
		j, err := internalrepo.NewSQLiteJournal(path)
		if err != nil {
			return nil, err
		}
		journal = j
	case "clickhouse":
		table := "signal_outcomes"
		if db := cfg.Journal.ClickHouse.Database; db != "" {
			table = db + ".signal_outcomes"
		}
		journal = internalrepo.NewClickHouseJournal(ch.DB(), table)
	default:
		return internalrepo.NoopJournal{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := journal.Init(ctx); err != nil {
		_ = journal.Close()
		return nil, fmt.Errorf("journal init: %w", err)
	}
	return journal, nil
}

// ProvidePublisher publishes completed signals to Kafka, or is nil without a producer.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer) drepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.OutcomeTopic)
}

func ProvideOutcomeRecorder(cfg *config.Config, pub drepo.Publisher, journal drepo.Journal, m drepo.Metrics) *usecase.OutcomeRecorder {
	return usecase.NewOutcomeRecorder(pub, journal, m, cfg.Journal.Route)
}

// ProvideOutcomeConsumer drains the outcome topic into the journal. It only
// exists on the kafka route.
func ProvideOutcomeConsumer(
	cfg *config.Config,
	journal drepo.Journal,
	m drepo.Metrics,
	logger *applogger.Logger,
	reg *prometheus.Registry,
) (*pkgkafka.Consumer, error) {
	if cfg.Journal.Route != usecase.RouteKafka {
		return nil, nil
	}
	kc := cfg.Kafka.Consumer
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(kc.GroupID),
		pkgkafka.WithConsumerWorkers(kc.Workers),
		pkgkafka.WithConsumerRetry(kc.RetryMax, kc.BackoffMin, kc.BackoffMax),
		pkgkafka.WithConsumerDLQ(kc.DLQTopic),
		pkgkafka.WithConsumerLogger(logger),
		pkgkafka.WithConsumerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewOutcomeSink(cfg.Kafka.OutcomeTopic, journal, m))
	return consumer, nil
}

func ProvideHub(cfg *config.Config, logger *applogger.Logger) *ws.Hub {
	return ws.NewHub(logger, ws.WithAllowedOrigins(cfg.Server.AllowedOrigins))
}

// ProvideNotifier fans refresh events out to websocket clients and, when
// enabled, Kafka.
func ProvideNotifier(cfg *config.Config, m drepo.Metrics, hub *ws.Hub, producer *pkgkafka.Producer) drepo.Notifier {
	sinks := []internalrepo.NamedNotifier{{Name: "ws", Notifier: hub}}
	if producer != nil {
		sinks = append(sinks, internalrepo.NamedNotifier{
			Name:     "kafka",
			Notifier: internalrepo.NewKafkaNotifier(producer, cfg.Kafka.EventsTopic),
		})
	}
	return internalrepo.NewFanOutNotifier(m, sinks...)
}

func ProvideMarketRegistry() *market.Registry {
	return market.NewDefaultRegistry()
}

// ProvideSignalStore builds the lazily generated signal cache.
func ProvideSignalStore(reg *market.Registry, seed Seed) *signals.Store {
	gen := signals.NewGenerator(reg, rand.New(rand.NewSource(int64(seed)+1)), time.Now)
	return signals.NewStore(gen)
}

func ProvideMutator(reg *market.Registry, seed Seed) *market.Mutator {
	return market.NewMutator(reg, rand.New(rand.NewSource(int64(seed))))
}

func ProvideEvaluator(store *signals.Store, reg *market.Registry, logger *applogger.Logger) *signals.Evaluator {
	return signals.NewEvaluator(store, reg, logger)
}

func ProvideScheduler(logger *applogger.Logger) scheduler.Scheduler {
	return scheduler.NewCron(logger)
}

func ProvideRealtimeUpdater(
	cfg *config.Config,
	sched scheduler.Scheduler,
	mutator *market.Mutator,
	evaluator *signals.Evaluator,
	m drepo.Metrics,
	logger *applogger.Logger,
	notifier drepo.Notifier,
	recorder *usecase.OutcomeRecorder,
) *usecase.RealtimeUpdater {
	return usecase.NewRealtimeUpdater(sched, mutator, evaluator, m, logger,
		usecase.WithInterval(cfg.Simulation.TickInterval),
		usecase.WithNotifier(notifier),
		usecase.WithOutcomeRecorder(recorder),
	)
}

func ProvideSignalsUseCase(store *signals.Store, reg *market.Registry, notifier drepo.Notifier, logger *applogger.Logger) *usecase.SignalsUseCase {
	return usecase.NewSignalsUseCase(store, reg, notifier, logger)
}

// ProvideMarketDataUseCase wires the CoinGecko client with generated fallback data.
func ProvideMarketDataUseCase(cfg *config.Config, c cache.Service, m drepo.Metrics, logger *applogger.Logger, seed Seed) *usecase.MarketDataUseCase {
	client := coingecko.New(coingecko.Config{
		BaseURL: cfg.CoinGecko.BaseURL,
		Timeout: cfg.CoinGecko.Timeout,
		RPS:     cfg.CoinGecko.RPS,
		Burst:   cfg.CoinGecko.Burst,
	})
	mock := coingecko.NewMock(rand.New(rand.NewSource(int64(seed)+2)), time.Now)
	return usecase.NewMarketDataUseCase(client, mock, c, cfg.CoinGecko.CacheTTL, m, logger)
}

func ProvideAuthUseCase(cfg *config.Config, c AccountCache, logger *applogger.Logger) *usecase.AuthUseCase {
	return usecase.NewAuthUseCase(
		internalrepo.NewCacheUserStore(c),
		internalrepo.NewCacheSessionStore(c),
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		logger,
	)
}

func ProvideCredentialsUseCase(c AccountCache) *usecase.CredentialsUseCase {
	return usecase.NewCredentialsUseCase(internalrepo.NewCacheCredentialStore(c))
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// ProvideRouter collects every HTTP handler.
func ProvideRouter(
	logger *applogger.Logger,
	sigUC *usecase.SignalsUseCase,
	updater *usecase.RealtimeUpdater,
	mdUC *usecase.MarketDataUseCase,
	authUC *usecase.AuthUseCase,
	credUC *usecase.CredentialsUseCase,
	limiter *ratelimit.Limiter,
	hub *ws.Hub,
) xhttp.Handler {
	return api.NewRouter(
		api.NewSignalsHandler(logger, sigUC),
		api.NewRealtimeHandler(logger, updater),
		api.NewCryptoHandler(logger, mdUC),
		api.NewAuthHandler(logger, authUC, credUC, limiter),
		hub,
	)
}

func ProvideHTTPServer(cfg *config.Config, logger *applogger.Logger, router xhttp.Handler, reg *prometheus.Registry) *xhttp.Server {
	return xhttp.NewServer(router,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequestThreshold(cfg.Server.SlowRequest),
		xhttp.WithCORS(true, cfg.Server.AllowedOrigins...),
		xhttp.WithLogger(logger),
		xhttp.WithMetricsRegistry(reg, reg),
	)
}

// ProvideResources lists what the app closes on shutdown, in open order.
func ProvideResources(
	c cache.Service,
	accounts AccountCache,
	producer *pkgkafka.Producer,
	digest *applogger.Digest,
	ch *pkgch.Client,
	recorder *usecase.OutcomeRecorder,
) server.Resources {
	res := server.Resources{{Name: "cache", Close: c.Close}, {Name: "account cache", Close: accounts.Close}}
	if producer != nil {
		res = append(res, server.Resource{Name: "kafka producer", Close: producer.Close})
	}
	if digest != nil {
		res = append(res, server.Resource{Name: "log digest", Close: func() error { digest.Close(); return nil }})
	}
	if ch != nil {
		res = append(res, server.Resource{Name: "clickhouse", Close: ch.Close})
	}
	res = append(res, server.Resource{Name: "outcome recorder", Close: func() error { recorder.Close(); return nil }})
	return res
}
