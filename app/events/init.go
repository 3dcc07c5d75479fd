package events

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/internal/deps"
)

const (
	RepoKey    = "event_repository"
	ServiceKey = "event_service"
)

// MountAdmin mounts the operator fixture and result routes
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	eventsGroup := r.Group("/events")
	eventsGroup.POST("", handler.CreateEvent)
	eventsGroup.GET("/:id", handler.GetEvent)
	eventsGroup.PUT("/:id/result", handler.RecordResult)
	eventsGroup.POST("/:id/cancel", handler.CancelEvent)
}

// InitRepositories initializes and registers repositories and services for this module.
// The settlement module must be initialised first.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo,
		database.NewTransactor(container.DB),
		container.MustService(settlement.ServiceKey).(settlement.Service),
		container.Logger)
	container.RegisterService(ServiceKey, srv)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
