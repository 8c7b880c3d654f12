package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrUnknownStore = errors.New("unknown store kind")

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env          string        `mapstructure:"app_env"`       // local, dev, production
	Port         string        `mapstructure:"port"`          // HTTP listen port
	LogLevel     string        `mapstructure:"log_level"`     // zerolog level name
	ClientOrigin string        `mapstructure:"client_origin"` // allowed CORS origin
	Store        string        `mapstructure:"store"`         // memory | redis | sqlite
	DailySalt    string        `mapstructure:"daily_salt"`    // HMAC key for daily seeds
	SweepSpec    string        `mapstructure:"sweep_spec"`    // cron spec for the janitor
	Session      Session       `mapstructure:"session"`
	Redis        Redis         `mapstructure:"redis"`
	SQLite       SQLite        `mapstructure:"sqlite"`
	Telegram     Telegram      `mapstructure:"telegram"`
	Shutdown     time.Duration `mapstructure:"shutdown_timeout"`
}

// Session configures the signed game cookie.
type Session struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// Redis configures the Redis store.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SQLite configures the SQLite store.
type SQLite struct {
	Path string `mapstructure:"path"`
}

// Telegram configures the optional bot front end. An empty token disables it.
type Telegram struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

// Production reports whether cookies should be Secure.
func (c *Config) Production() bool { return c.Env == "production" }

// Load reads configuration from an optional config file and the environment.
// Nested keys map to env names with "_" (session.ttl -> SESSION_TTL).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("app_env", "local")
	v.SetDefault("port", "5175")
	v.SetDefault("log_level", "info")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("daily_salt", "local_dev_salt")
	v.SetDefault("sweep_spec", "@every 5m")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("session.secret", "dev_secret_change_me")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "numeros_session")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sqlite.path", "./data/numeros.db")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	switch cfg.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}

	return &cfg, nil
}
