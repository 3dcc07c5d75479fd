package app

import (
	"strings"
	"time"

	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/markets"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/internal/broker"
	"github.com/joefazee/sportsbook/internal/cache"
	"github.com/joefazee/sportsbook/internal/nexus"
	"github.com/joefazee/sportsbook/models"
)

type Config struct {
	DB         database.Config
	Redis      RedisConfig
	Kafka      broker.Config
	Markets    markets.Config
	Settlement settlement.Config

	AppHost     string `env:"APP_HOST" env-default:"localhost"`
	AppPort     string `env:"APP_PORT" env-default:"8080"`
	Env         string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`
}

// RedisConfig selects the cache backend. An empty address keeps the cache in memory,
// which only coordinates settlement runs inside one process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"50"`
}

// Backend reports which cache backend the config selects
func (r *RedisConfig) Backend() string {
	if strings.TrimSpace(r.Addr) == "" {
		return cache.MemoryBackend
	}
	return cache.RedisBackend
}

// Options converts the config into redis cache options
func (r *RedisConfig) Options() *cache.RedisOptions {
	return &cache.RedisOptions{
		Addr:            r.Addr,
		Password:        r.Password,
		DB:              r.DB,
		PoolSize:        r.PoolSize,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	}
}

// Validate checks the cross-module settings the loader cannot express with tags
func (c *Config) Validate() error {
	if err := c.Markets.Validate(); err != nil {
		return err
	}
	if err := c.Settlement.Validate(); err != nil {
		return err
	}
	if c.Kafka.Enabled() && (strings.TrimSpace(c.Kafka.ResultsTopic) == "" || strings.TrimSpace(c.Kafka.SettledTopic) == "") {
		return models.ErrInvalidKafkaTopic
	}
	return nil
}

// ValidateAPI additionally requires what the admin HTTP surface needs
func (c *Config) ValidateAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.AdminAPIKey) == "" {
		return models.ErrMissingAdminKey
	}
	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.AppPort
}

// GetDefaultConfig returns the defaults each module ships with
func GetDefaultConfig() *Config {
	return &Config{
		Markets:    *markets.GetDefaultConfig(),
		Settlement: *settlement.GetDefaultConfig(),
		AppHost:    "localhost",
		AppPort:    "8080",
		Env:        "development",
		LogLevel:   "info",
	}
}

// LoadConfig loads the application configuration from environment variables or a config file.
// Defaults come from the env-default tags, not GetDefaultConfig.
func LoadConfig() (*Config, error) {
	c := &Config{}
	if err := nexus.NewLoader().Load(c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}
