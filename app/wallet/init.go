package wallet

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/internal/deps"
)

const (
	RepoKey    = "wallet_repository"
	ServiceKey = "wallet_service"
)

// MountAuthenticated mounts the caller-scoped wallet routes. The surface is
// deliberately read-only plus wallet creation: balance mutation (credit,
// debit, fund locking) happens exclusively through the lifecycle
// controller's ValueTransferer inside a guarded market operation, never via
// a raw HTTP route.
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	walletsGroup := r.Group("/wallets")
	walletsGroup.POST("", handler.CreateWallet)
	walletsGroup.GET("/me", handler.GetMyWallets)
	walletsGroup.GET("/:id", handler.GetWallet)
	walletsGroup.GET("/:id/transactions", handler.GetWalletTransactions)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	// Initialize repository
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	// Initialize service
	srv := NewService(repo, container.DB)
	container.RegisterService(ServiceKey, srv)
}

// createHandler creates a wallet handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
