package settlement

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/markets"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/internal/deps"
)

const (
	RepoKey      = "settlement_repository"
	ServiceKey   = "settlement_service"
	ConfigKey    = "settlement_config"
	PublisherKey = "settlement_publisher"
)

// MountAdmin mounts the operator settlement routes
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	events := r.Group("/events")
	events.POST("/:id/settle", handler.SettleEvent)
	events.GET("/:id/settlements", handler.GetEventSettlements)
	events.GET("/:id/settlement-report", handler.GetReport)

	r.POST("/parlays/settle", handler.SettleParlays)
}

// InitRepositories initializes and registers repositories and services for this module.
// The wallet module must be initialised first. Config and publisher are read
// from the container when registered, defaults otherwise.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	config, ok := container.GetService(ConfigKey).(*Config)
	if !ok {
		config = GetDefaultConfig()
	}
	publisher, ok := container.GetService(PublisherKey).(Publisher)
	if !ok {
		publisher = NopPublisher{}
	}
	marketsConfig, ok := container.GetService(markets.ConfigKey).(*markets.Config)
	if !ok {
		marketsConfig = markets.GetDefaultConfig()
	}

	srv := NewService(config,
		repo,
		database.NewTransactor(container.DB),
		container.MustService(wallet.ServiceKey).(wallet.Service),
		markets.NewExtractor(container.Sanitizer, marketsConfig),
		markets.NewEvaluator(),
		WithPublisher(publisher),
		WithCache(container.Cache),
		WithMetrics(container.Metrics),
		WithLogger(container.Logger),
	)
	container.RegisterService(ServiceKey, srv)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
