// Package config loads service configuration from defaults, an optional
// config file and SENTENCER_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SENTENCER"

// Config is the complete service configuration.
type Config struct {
	Server    Server         `mapstructure:"server"`
	Log       Log            `mapstructure:"log"`
	Engine    Engine         `mapstructure:"engine"`
	Store     Store          `mapstructure:"store"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Audit     Audit          `mapstructure:"audit"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
	RateLimit RateLimit      `mapstructure:"rate_limit"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// JWTSigningKey enables bearer auth on the sentencing routes when set.
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Engine struct {
	AmountPolicy     string `mapstructure:"amount_policy"`
	RulesPath        string `mapstructure:"rules_path"`
	BatchConcurrency int    `mapstructure:"batch_concurrency"`
	MaxBatchSize     int    `mapstructure:"max_batch_size"`
}

// Store selects the computation store: "memory", "sqlite" or "postgres".
type Store struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RateLimit budgets sentencing requests per caller and minute. Zero leaves
// a class unlimited.
type RateLimit struct {
	Enabled          bool `mapstructure:"enabled"`
	ComputePerMinute int  `mapstructure:"compute_per_minute"`
	BatchPerMinute   int  `mapstructure:"batch_per_minute"`
	ReadPerMinute    int  `mapstructure:"read_per_minute"`
}

// RedisConfig enables the outcome cache when URL is set.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// Audit selects where audit events go. Kafka is used when brokers are set.
type Audit struct {
	BufferSize   int      `mapstructure:"buffer_size"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.jwt_signing_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("engine.amount_policy", "permissive")
	v.SetDefault("engine.rules_path", "")
	v.SetDefault("engine.batch_concurrency", 8)
	v.SetDefault("engine.max_batch_size", 500)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite_path", "sentencer.db")

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.cache_ttl", 24*time.Hour)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.compute_per_minute", 120)
	v.SetDefault("rate_limit.batch_per_minute", 10)
	v.SetDefault("rate_limit.read_per_minute", 600)

	v.SetDefault("audit.buffer_size", 1024)
	v.SetDefault("audit.kafka_brokers", []string{})
	v.SetDefault("audit.kafka_topic", "sentencer.audit")
}

// Load reads configuration. path may be empty, in which case a file named
// sentencer.{yaml,toml,json} is looked up in the working directory and
// /etc/sentencer; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindFlatEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sentencer")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/sentencer")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindFlatEnv keeps the short variable names documented for operators, e.g.
// SENTENCER_AMOUNT_POLICY rather than SENTENCER_ENGINE_AMOUNT_POLICY.
func bindFlatEnv(v *viper.Viper) {
	flat := map[string]string{
		"engine.amount_policy":     "SENTENCER_AMOUNT_POLICY",
		"engine.rules_path":        "SENTENCER_RULES_PATH",
		"engine.batch_concurrency": "SENTENCER_BATCH_CONCURRENCY",
		"server.addr":              "SENTENCER_ADDR",
		"server.jwt_signing_key":   "SENTENCER_JWT_SIGNING_KEY",
		"postgres.url":             "SENTENCER_DATABASE_URL",
		"redis.url":                "SENTENCER_REDIS_URL",
	}
	for key, env := range flat {
		_ = v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres store requires postgres.url")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Engine.BatchConcurrency < 1 {
		return fmt.Errorf("engine.batch_concurrency must be at least 1")
	}
	if c.Engine.MaxBatchSize < 1 {
		return fmt.Errorf("engine.max_batch_size must be at least 1")
	}
	if rl := c.RateLimit; rl.Enabled && (rl.ComputePerMinute < 1 || rl.BatchPerMinute < 1 || rl.ReadPerMinute < 1) {
		return fmt.Errorf("rate_limit budgets must be at least 1 when enabled")
	}
	return nil
}
