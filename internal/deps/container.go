package deps

import (
	"github.com/joefazee/sportsbook/internal/cache"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/metrics"
	"github.com/joefazee/sportsbook/internal/sanitizer"
	"gorm.io/gorm"
)

// Container holds all shared dependencies
type Container struct {
	DB        *gorm.DB
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
	Cache     cache.Cache[string]
	Metrics   metrics.Recorder

	// Store repositories as interfaces to avoid imports
	repositories map[string]interface{}
	services     map[string]interface{}
}

func NewContainer(db *gorm.DB,
	sanitizer sanitizer.HTMLStripperer,
	logger logger.Logger,
	cache cache.Cache[string],
	recorder metrics.Recorder) *Container {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &Container{
		DB:           db,
		Sanitizer:    sanitizer,
		Logger:       logger,
		Cache:        cache,
		Metrics:      recorder,
		repositories: make(map[string]interface{}),
		services:     make(map[string]interface{}),
	}
}

// RegisterRepository stores a repository with a key
func (c *Container) RegisterRepository(key string, repo interface{}) {
	c.repositories[key] = repo
}

// GetRepository retrieves a repository by key
func (c *Container) GetRepository(key string) interface{} {
	return c.repositories[key]
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	return c.services[key]
}

// MustService retrieves a service and panics when it was never registered,
// which only happens when modules are initialised out of order.
func (c *Container) MustService(key string) interface{} {
	s, ok := c.services[key]
	if !ok {
		panic("deps: service not registered: " + key)
	}
	return s
}
