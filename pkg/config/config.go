package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowRequest     time.Duration `yaml:"slow_request"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Logger struct {
		Level       string        `yaml:"level"`
		Format      string        `yaml:"format"`
		Output      string        `yaml:"output"`
		DigestTopic string        `yaml:"digest_topic"`
		DigestEvery time.Duration `yaml:"digest_every"`
	} `yaml:"logger"`
	Simulation struct {
		TickInterval time.Duration `yaml:"tick_interval"`
		Seed         int64         `yaml:"seed"`
		Autostart    bool          `yaml:"autostart"`
	} `yaml:"simulation"`
	CoinGecko struct {
		BaseURL  string        `yaml:"base_url"`
		Timeout  time.Duration `yaml:"timeout"`
		RPS      float64       `yaml:"rps"`
		Burst    int           `yaml:"burst"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"coingecko"`
	Cache struct {
		MemoryMaxSize   int           `yaml:"memory_max_size"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
		Redis           struct {
			Enabled      bool          `yaml:"enabled"`
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			PoolTimeout  time.Duration `yaml:"pool_timeout"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		EventsTopic  string   `yaml:"events_topic"`
		OutcomeTopic string   `yaml:"outcome_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Journal struct {
		Backend    string `yaml:"backend"` // none, sqlite, clickhouse
		Route      string `yaml:"route"`   // direct or kafka
		SQLitePath string `yaml:"sqlite_path"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"journal"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads .env (if present), then the YAML file, then applies
// environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Simulation.TickInterval = d
		}
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		if s, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Simulation.Seed = s
		}
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JOURNAL_BACKEND"); v != "" {
		c.Journal.Backend = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.SlowRequest == 0 {
		c.Server.SlowRequest = 500 * time.Millisecond
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Simulation.TickInterval == 0 {
		c.Simulation.TickInterval = 5 * time.Second
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.CoinGecko.Timeout == 0 {
		c.CoinGecko.Timeout = 10 * time.Second
	}
	if c.CoinGecko.RPS == 0 {
		c.CoinGecko.RPS = 0.5
	}
	if c.CoinGecko.Burst == 0 {
		c.CoinGecko.Burst = 3
	}
	if c.CoinGecko.CacheTTL == 0 {
		c.CoinGecko.CacheTTL = time.Minute
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 5 * time.Minute
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Cache.Redis.PoolSize == 0 {
		c.Cache.Redis.PoolSize = 10
	}
	if c.Cache.Redis.PoolTimeout == 0 {
		c.Cache.Redis.PoolTimeout = 4 * time.Second
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "trading-analyser"
	}
	if c.Kafka.EventsTopic == "" {
		c.Kafka.EventsTopic = "signals.events"
	}
	if c.Kafka.OutcomeTopic == "" {
		c.Kafka.OutcomeTopic = "signals.completed"
	}
	if c.Kafka.Consumer.GroupID == "" {
		c.Kafka.Consumer.GroupID = "trading-analyser-journal"
	}
	if c.Kafka.Consumer.Workers == 0 {
		c.Kafka.Consumer.Workers = 2
	}
	if c.Journal.Backend == "" {
		c.Journal.Backend = "none"
	}
	if c.Journal.Route == "" {
		c.Journal.Route = "direct"
	}
	if c.Journal.SQLitePath == "" {
		c.Journal.SQLitePath = "data/journal.db"
	}
	ch := &c.Journal.ClickHouse
	if ch.Host == "" {
		ch.Host = "localhost"
	}
	if ch.Port == 0 {
		ch.Port = 9000
	}
	if ch.Database == "" {
		ch.Database = "default"
	}
	if ch.DialTimeout == 0 {
		ch.DialTimeout = 5 * time.Second
	}
	if ch.ReadTimeout == 0 {
		ch.ReadTimeout = 10 * time.Second
	}
	if ch.WriteTimeout == 0 {
		ch.WriteTimeout = 10 * time.Second
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Simulation.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("simulation.tick_interval must be at least 100ms, got %s", c.Simulation.TickInterval)
	}
	switch c.Journal.Backend {
	case "none", "sqlite", "clickhouse":
	default:
		return fmt.Errorf("journal.backend must be 'none', 'sqlite' or 'clickhouse', got '%s'", c.Journal.Backend)
	}
	switch c.Journal.Route {
	case "direct", "kafka":
	default:
		return fmt.Errorf("journal.route must be 'direct' or 'kafka', got '%s'", c.Journal.Route)
	}
	if c.Journal.Route == "kafka" && !c.Kafka.Enabled {
		return fmt.Errorf("journal.route 'kafka' requires kafka.enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}
