package wallet

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/sportsbook/internal/deps"
)

const (
	RepoKey    = "wallet_repository"
	ServiceKey = "wallet_service"
)

// MountAdmin mounts the operator wallet routes
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.POST("/wallets", handler.CreateWallet)

	users := r.Group("/users/:user_id")
	users.GET("/wallets", handler.GetUserWallets)
	users.GET("/ledger", handler.GetUserLedger)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo)
	container.RegisterService(ServiceKey, srv)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
