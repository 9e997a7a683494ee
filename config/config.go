// Package config loads the crudserver deployment configuration from YAML.
//
// ${VAR} and ${VAR:-default} references are expanded from the environment
// before parsing. Unset fields get defaults, then the whole document is
// validated so every problem is reported at once.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/pkg/logger"
	"github.com/dmitrymomot/crudforge/registry"
	"github.com/dmitrymomot/crudforge/store/postgres"
	"github.com/dmitrymomot/crudforge/store/redis"
)

var (
	ErrRead    = errors.New("config: failed to read file")
	ErrParse   = errors.New("config: failed to parse")
	ErrInvalid = errors.New("config: invalid")
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Drivers lists the supported store drivers.
var Drivers = []string{DriverMemory, DriverPostgres, DriverSQLite, DriverRedis}

// Cache drivers. An empty driver disables the cache.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the root document.
type Config struct {
	Controllers map[string]ControllerConfig `yaml:"controllers"`
	Server      ServerConfig                `yaml:"server"`
	Log         LogConfig                   `yaml:"log"`
	Store       StoreConfig                 `yaml:"store"`
	Cache       CacheConfig                 `yaml:"cache"`
	Metrics     MetricsConfig               `yaml:"metrics"`
}

// ServerConfig configures the HTTP server and request middleware.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string              `yaml:"level"`
	Format logger.Format       `yaml:"format"`
	Sentry logger.SentryConfig `yaml:"sentry"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver   string          `yaml:"driver"`
	SQLite   SQLiteConfig    `yaml:"sqlite"`
	Postgres postgres.Config `yaml:"postgres"`
	Redis    redis.Config    `yaml:"redis"`
}

// SQLiteConfig configures the sqlite driver.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig puts a read-through cache in front of the store.
type CacheConfig struct {
	Driver     string        `yaml:"driver"`
	Prefix     string        `yaml:"prefix"`
	Redis      redis.Config  `yaml:"redis"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// Enabled reports whether a cache driver is configured.
func (c CacheConfig) Enabled() bool { return c.Driver != "" }

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// ControllerConfig is a deployment overlay for one controller, keyed by
// resource name ("products") or type name ("ProductsController").
type ControllerConfig struct {
	Disable []crud.Operation `yaml:"disable"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads, expands, parses and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return Parse(data)
}

// Parse expands, parses and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandEnv replaces ${VAR} and $VAR with environment values.
// ${VAR:-default} falls back to default when VAR is unset or empty.
func ExpandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, def, hasDefault := strings.Cut(key, ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return v
		}
		return def
	})
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logger.FormatJSON
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverMemory
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "crudserver.db"
	}
	cfg.Store.Postgres = mergePostgres(cfg.Store.Postgres)
	cfg.Store.Redis = mergeRedis(cfg.Store.Redis)

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Minute
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10000
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "crudserver"
	}
	cfg.Cache.Redis = mergeRedis(cfg.Cache.Redis)

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func mergePostgres(c postgres.Config) postgres.Config {
	d := postgres.DefaultConfig(c.ConnectionString)
	if c.MigrationsTable == "" {
		c.MigrationsTable = d.MigrationsTable
	}
	if c.HealthCheckPeriod == 0 {
		c.HealthCheckPeriod = d.HealthCheckPeriod
	}
	if c.MaxConnIdleTime == 0 {
		c.MaxConnIdleTime = d.MaxConnIdleTime
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = d.MaxConnLifetime
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = d.RetryAttempts
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = d.RetryInterval
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = d.MaxOpenConns
	}
	if c.MinConns == 0 {
		c.MinConns = d.MinConns
	}
	return c
}

func mergeRedis(c redis.Config) redis.Config {
	d := redis.DefaultConfig(c.URL)
	if c.PoolSize == 0 {
		c.PoolSize = d.PoolSize
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = d.MinIdleConns
	}
	if c.MaxIdleTime == 0 {
		c.MaxIdleTime = d.MaxIdleTime
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = d.RetryAttempts
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = d.RetryInterval
	}
	return c
}

// Validate reports every problem in cfg joined with ErrInvalid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != logger.FormatJSON && c.Log.Format != logger.FormatText {
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.Postgres.ConnectionString == "" {
			errs = append(errs, errors.New("store.postgres.url is required for the postgres driver"))
		}
	case DriverRedis:
		if c.Store.Redis.URL == "" {
			errs = append(errs, errors.New("store.redis.url is required for the redis driver"))
		}
	case DriverSQLite:
		if c.Store.SQLite.Path == "" {
			errs = append(errs, errors.New("store.sqlite.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of %s, got %q", strings.Join(Drivers, ", "), c.Store.Driver))
	}

	switch c.Cache.Driver {
	case "", CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.URL == "" {
			errs = append(errs, errors.New("cache.redis.url is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver))
	}
	if c.Cache.TTL < 0 || c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache.ttl and cache.max_entries must not be negative"))
	}

	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path))
	}

	for name, cc := range c.Controllers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("controllers: empty controller name"))
		}
		for _, op := range cc.Disable {
			if !op.Valid() {
				errs = append(errs, fmt.Errorf("controllers.%s.disable: %w: %s", name, crud.ErrUnknownOperation, op))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalid}, errs...)...)
}

// RegistryOptions turns controller overlays into registry options.
func (c *Config) RegistryOptions() []registry.Option {
	var opts []registry.Option
	for _, name := range slices.Sorted(maps.Keys(c.Controllers)) {
		if ops := c.Controllers[name].Disable; len(ops) > 0 {
			opts = append(opts, registry.WithDisabled(name, ops...))
		}
	}
	return opts
}

// Logger builds the application logger described by the log section.
func (c *Config) Logger(extractors ...logger.ContextExtractor) (*slog.Logger, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.NewWithConfig(logger.Config{
		Format: c.Log.Format,
		Sentry: c.Log.Sentry,
		Level:  level,
	}, extractors...), nil
}
