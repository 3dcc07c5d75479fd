package app

import (
	"context"
	"fmt"

	"github.com/joefazee/sportsbook/app/api"
	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/events"
	"github.com/joefazee/sportsbook/app/markets"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/internal/broker"
	"github.com/joefazee/sportsbook/internal/cache"
	"github.com/joefazee/sportsbook/internal/deps"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/metrics"
	"github.com/joefazee/sportsbook/internal/sanitizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Runtime holds the process-wide dependencies shared by the API server and
// the settlement worker.
type Runtime struct {
	Config    *Config
	Logger    logger.Logger
	DB        *gorm.DB
	Registry  *prometheus.Registry
	Container *deps.Container

	health  map[string]api.HealthFunc
	closers []func() error
}

// NewRuntime connects to the database and cache, registers the metrics and
// initialises the modules in dependency order: wallet, settlement, events.
func NewRuntime(cfg *Config, log logger.Logger) (*Runtime, error) {
	db, err := database.New(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DB.MigrationsPath != "" {
		if err := database.Migrate(cfg.DB.URL(), cfg.DB.MigrationsPath); err != nil {
			return nil, err
		}
		log.Info("migrations applied", map[string]interface{}{"path": cfg.DB.MigrationsPath})
	}

	rt := &Runtime{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Registry: prometheus.NewRegistry(),
		health: map[string]api.HealthFunc{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		},
	}
	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewSettlementMetrics(rt.Registry)

	container := deps.NewContainer(db, sanitizer.NewHTMLStripper(), log, rt.newCache(), recorder)
	container.RegisterService(markets.ConfigKey, &cfg.Markets)
	container.RegisterService(settlement.ConfigKey, &cfg.Settlement)

	if cfg.Kafka.Enabled() {
		writer := broker.NewWriter(cfg.Kafka.BrokerList(), cfg.Kafka.SettledTopic)
		rt.closers = append(rt.closers, writer.Close)
		container.RegisterService(settlement.PublisherKey, settlement.NewKafkaPublisher(writer))
	}

	wallet.InitRepositories(container)
	settlement.InitRepositories(container)
	events.InitRepositories(container)

	rt.Container = container
	return rt, nil
}

func (rt *Runtime) newCache() cache.Cache[string] {
	if rt.Config.Redis.Backend() == cache.MemoryBackend {
		rt.Logger.Warn("redis not configured, settlement claims only hold within this process", nil)
		mem := cache.NewMemoryCache[string]()
		rt.closers = append(rt.closers, func() error {
			mem.Stop()
			return nil
		})
		return mem
	}

	redisCache := cache.NewRedisCache[string](rt.Config.Redis.Options())
	rt.closers = append(rt.closers, redisCache.Close)
	rt.health["redis"] = redisCache.Ping
	return redisCache
}

// HealthChecks lists the dependencies reported by the health endpoint
func (rt *Runtime) HealthChecks() map[string]api.HealthFunc {
	return rt.health
}

// SettlementService returns the registered settlement service
func (rt *Runtime) SettlementService() settlement.Service {
	return rt.Container.MustService(settlement.ServiceKey).(settlement.Service)
}

// EventService returns the registered event service
func (rt *Runtime) EventService() events.Service {
	return rt.Container.MustService(events.ServiceKey).(events.Service)
}

// Close releases connections in reverse order of creation
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.Logger.Error(err, map[string]interface{}{"stage": "shutdown"})
		}
	}
	if sqlDB, err := rt.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
