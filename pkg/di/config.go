package di

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-client-store/cache"
	"github.com/goliatone/go-client-store/internal/store"
	"github.com/goliatone/go-client-store/logging"
)

// EnvPrefix is prepended to every variable read by LoadConfig.
const EnvPrefix = "CLIENTS_"

// Config is the process level configuration of the client store.
type Config struct {
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DBDSN    string `env:"DB_DSN"    envDefault:"file:clients.db?cache=shared"`
	// Migrate creates the schema on startup.
	Migrate bool `env:"DB_MIGRATE" envDefault:"true"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"sturdyc"`
	CacheTTL     time.Duration `env:"CACHE_TTL"     envDefault:"5m"`
	CacheCodec   string        `env:"CACHE_CODEC"   envDefault:"msgpack"`
	CacheLists   bool          `env:"CACHE_LISTS"   envDefault:"false"`
	CacheSize    int           `env:"CACHE_SIZE"    envDefault:"10000"`

	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`

	LogBackend string `env:"LOG_BACKEND" envDefault:"zap"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`
}

// LoadConfig reads Config from CLIENTS_* environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// DefaultConfig is the configuration LoadConfig yields with an empty environment.
func DefaultConfig() Config {
	return Config{
		DBDriver:     store.DriverSQLite,
		DBDSN:        "file:clients.db?cache=shared",
		Migrate:      true,
		CacheBackend: cache.BackendSturdyc,
		CacheTTL:     5 * time.Minute,
		CacheCodec:   cache.CodecMsgpack,
		CacheSize:    10000,
		RedisAddr:    "localhost:6379",
		LogBackend:   logging.BackendZap,
		LogLevel:     string(logging.LevelInfo),
	}
}

// Validate checks the values that are not checked by the component constructors.
func (c Config) Validate() error {
	switch c.DBDriver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return &ConfigError{Field: "DBDriver", Message: fmt.Sprintf("unsupported driver %q", c.DBDriver)}
	}
	if c.DBDSN == "" {
		return &ConfigError{Field: "DBDSN", Message: "must be set"}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ConfigError{Field: "LogLevel", Message: err.Error()}
	}
	if c.CacheTTL <= 0 {
		return &ConfigError{Field: "CacheTTL", Message: "must be greater than 0"}
	}
	return c.cacheConfig().Validate()
}

func (c Config) cacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Backend = c.CacheBackend
	cfg.TTL = c.CacheTTL
	if c.CacheSize > 0 {
		cfg.Capacity = c.CacheSize
	}
	cfg.RedisAddr = c.RedisAddr
	cfg.RedisPassword = c.RedisPassword
	cfg.RedisDB = c.RedisDB
	return cfg
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
