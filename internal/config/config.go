package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "JOBPORTAL"

	EnvProduction = "production"

	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"

	// used outside production when no secret is configured
	devSessionSecret = "jobportal-dev-secret"
)

type Config struct {
	Port    string        `mapstructure:"port"`
	Env     string        `mapstructure:"env"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	Secret        string        `mapstructure:"secret"`
	TTL           time.Duration `mapstructure:"ttl"`
	Cookie        string        `mapstructure:"cookie"`
	Store         string        `mapstructure:"store"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MetricsConfig struct {
	// Port of the separate metrics listener; empty disables it.
	Port string `mapstructure:"port"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("db.path", "jobportal.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.cookie", "jobportal_session")
	v.SetDefault("session.store", SessionStoreSQLite)
	v.SetDefault("session.sweep_interval", time.Minute)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("metrics.port", "9090")
}

// Load reads config.yml from the first of dirs that has one, then applies
// JOBPORTAL_* environment overrides (e.g. JOBPORTAL_SESSION_SECRET).
// A missing file is not an error.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("session.secret must be set in production")
		}
		c.Session.Secret = devSessionSecret
	}
	switch c.Session.Store {
	case SessionStoreSQLite, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.DB.Path == "" {
		return errors.New("db.path is empty")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == EnvProduction
}
