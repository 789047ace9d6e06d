package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Host        string
	Port        int
	Environment string
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-"`
	// storage
	StorageBackend string `toml:"storage_backend"`
	HistoryKey     string `toml:"history_key"`
	CacheSizeMB    int    `toml:"cache_size_mb"`
	// how old the in-memory history may get before reads go back to the store
	HistoryRefresh Duration `toml:"history_refresh"`
	// redis
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"-"`
	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresPassword string `toml:"-"`
	// sqlite
	SQLitePath string `toml:"sqlite_path"`
	// tracker
	CataloguePath         string   `toml:"catalogue_path"`
	TickInterval          Duration `toml:"tick_interval"`
	ImportRateLimitPerMin int      `toml:"import_rate_limit_per_min"`
	AllowedOrigins        []string `toml:"allowed_origins"`
	APITokenHash          string   `toml:"-"`
	HoneycombEnabled      bool     `toml:"-"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

// Duration decodes TOML strings like "500ms" or "1s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the config file, picks the env section, applies defaults and
// environment overrides, and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warnf("config: unknown keys ignored: %v", undecoded)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageMemory
	}
	if c.HistoryKey == "" {
		c.HistoryKey = "wh"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.TickInterval.Duration == 0 {
		c.TickInterval.Duration = time.Second
	}
	if c.HistoryRefresh.Duration == 0 {
		c.HistoryRefresh.Duration = 30 * time.Second
	}
	if c.ImportRateLimitPerMin == 0 {
		c.ImportRateLimitPerMin = 5
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.RedisPassword = getenv("GYMTRACKER_REDIS_PASS")
	c.PostgresPassword = getenv("GYMTRACKER_POSTGRES_PASS")
	c.APITokenHash = getenv("GYMTRACKER_API_TOKEN_HASH")
	c.SentryDSN = getenv("SENTRY_DSN")
	c.HoneycombEnabled = getenv("HONEYCOMB_ENABLED") == "true"
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	switch c.StorageBackend {
	case StorageMemory:
	case StorageRedis:
		if c.RedisHost == "" {
			errs = append(errs, errors.New("redis_host required for redis storage"))
		}
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres_host and postgres_db_name required for postgres storage"))
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path required for sqlite storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_backend: %q", c.StorageBackend))
	}
	if c.CacheSizeMB < 0 {
		errs = append(errs, fmt.Errorf("invalid cache_size_mb: %d", c.CacheSizeMB))
	}
	if c.HistoryRefresh.Duration < time.Second {
		errs = append(errs, fmt.Errorf("history_refresh too small: %s", c.HistoryRefresh.Duration))
	}
	if c.TickInterval.Duration < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("tick_interval too small: %s", c.TickInterval.Duration))
	}
	if c.ImportRateLimitPerMin < 0 {
		errs = append(errs, fmt.Errorf("invalid import_rate_limit_per_min: %d", c.ImportRateLimitPerMin))
	}
	if c.SentryEnabled && c.SentryDSN == "" {
		log.Warnln("sentry enabled but SENTRY_DSN not set")
	}
	return errors.Join(errs...)
}
