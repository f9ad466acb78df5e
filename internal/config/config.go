package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"

	CacheBackendNone      = "none"
	CacheBackendFreecache = "freecache"
	CacheBackendRedis     = "redis"
)

type Config struct {
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// tracing
	TracingEnabled  bool   `toml:"tracing_enabled"`
	TracingExporter string `toml:"tracing_exporter"`
	// catalog
	CatalogSource string `toml:"catalog_source"`
	CatalogPath   string `toml:"catalog_path"`
	PlanID        string `toml:"plan_id"`
	DayID         string `toml:"day_id"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// catalog cache
	CacheBackend    string `toml:"cache_backend"`
	CacheSizeMB     int    `toml:"cache_size_mb"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
	RedisHost       string `toml:"redis_host"`
	RedisPort       string `toml:"redis_port"`
	// status api
	StatusEnabled         bool     `toml:"status_enabled"`
	Host                  string   `toml:"host"`
	Port                  int      `toml:"port"`
	PrometheusMetricsHost string   `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string   `toml:"prometheus_metrics_port"`
	StatusAllowedOrigins  []string `toml:"status_allowed_origins"`
	// requests per minute, only enforced with the redis cache backend
	StatusRateLimitPerMin int `toml:"status_rate_limit_per_min"`
	// rest countdown
	TickIntervalMs int `toml:"tick_interval_ms"`

	// secrets, never read from the file
	SentryDSN        string `toml:"-"`
	RedisPassword    string `toml:"-"`
	PostgresPassword string `toml:"-"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file at path, fills the secrets from env vars
// and validates the result.
func Load(env, path string) (*Config, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}

	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	cfg.RedisPassword = os.Getenv("GYMTRAINER_REDIS_PASS")
	cfg.PostgresPassword = os.Getenv("GYMTRAINER_POSTGRES_PASS")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var err error

	switch c.CatalogSource {
	case CatalogSourceFile:
		if c.CatalogPath == "" {
			err = multierr.Append(err, errors.New("catalog_path is required for the file catalog"))
		}
	case CatalogSourcePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			err = multierr.Append(err, errors.New("postgres_host, postgres_port and postgres_db_name are required for the postgres catalog"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown catalog_source: [%s]", c.CatalogSource))
	}

	switch c.CacheBackend {
	case "", CacheBackendNone:
	case CacheBackendFreecache:
		if c.CacheSizeMB <= 0 {
			err = multierr.Append(err, errors.New("cache_size_mb must be positive for freecache"))
		}
	case CacheBackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			err = multierr.Append(err, errors.New("redis_host and redis_port are required for the redis cache"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown cache_backend: [%s]", c.CacheBackend))
	}

	if c.PlanID == "" {
		err = multierr.Append(err, errors.New("plan_id is required"))
	}
	if c.TickIntervalMs < 0 {
		err = multierr.Append(err, errors.New("tick_interval_ms must not be negative"))
	}
	if c.StatusEnabled && c.Port <= 0 {
		err = multierr.Append(err, errors.New("port is required when the status api is enabled"))
	}

	return err
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
