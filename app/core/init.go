package core

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/foresight/app/governance"
	"github.com/joefazee/foresight/app/oracle"
	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/app/wallet"
	"github.com/joefazee/foresight/internal/deps"
	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/internal/ledger"
)

// ServiceKey is the deps.Container key the wired Controller is registered
// under, the way user.ServiceKey/wallet.ServiceKey register their services.
const ServiceKey = "core_controller"

// InitRepositories constructs the lifecycle controller's full dependency
// graph (repositories, oracle adapter, governance wiring, value transferer)
// and registers it under ServiceKey. Must run after user.InitRepositories
// and wallet.InitRepositories, since it resolves their repositories from the
// container.
func InitRepositories(container *deps.Container) {
	marketRepo := NewMarketRepository(container.DB)
	betRepo := NewBetRepository(container.DB)
	stakeRepo := NewDisputeStakeRepository(container.DB)
	settleRepo := NewSettlementRepository(container.DB)
	adminRepo := governance.NewAdminRepository(container.DB)
	actionRepo := governance.NewPendingActionRepository(container.DB)

	instance := ledger.NewInstance(container.DB)
	temp := ledger.NewTemporary(container.Cache)
	events := eventlog.New(container.DB, container.Logger)

	oracleCfg := oracle.GetDefaultConfig()
	httpClient := &http.Client{Timeout: oracleCfg.HTTPTimeout}
	invoker := oracle.NewInvoker(
		oracle.NewReflectorFeed(oracleCfg.ReflectorBaseURL, httpClient),
		oracle.NewPythFeed(oracleCfg.PythBaseURL, httpClient),
		oracle.NewCustomFeed(),
	)
	adapter := oracle.NewAdapter(invoker, oracleCfg)

	userRepo := container.GetRepository(user.RepoKey).(user.Repository)
	walletRepo := container.GetRepository(wallet.RepoKey).(wallet.Repository)
	walletSvc := container.GetService(wallet.ServiceKey).(wallet.Service)

	transferer := NewWalletTransferer(walletSvc, walletRepo)
	balances := NewBalanceReader(walletRepo)
	authenticator := NewAuthenticator(userRepo)

	controller := NewController(
		container.DB,
		marketRepo, betRepo, stakeRepo, settleRepo,
		adminRepo, actionRepo,
		instance, temp, events, adapter,
		transferer, balances,
		authenticator, container.Sanitizer,
		GetDefaultConfig(), governance.GetDefaultConfig(), SystemClock{},
	)
	container.RegisterService(ServiceKey, controller)
}

func createHandler(container *deps.Container) *Handler {
	controller := container.GetService(ServiceKey).(*Controller)
	return NewHandler(controller)
}

// MountPublic mounts the read-only market and event queries that require
// no authenticated caller.
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	marketsGroup := r.Group("/markets")
	marketsGroup.GET("", handler.ListMarkets)
	marketsGroup.GET("/:id", handler.GetMarket)
	marketsGroup.GET("/:id/analytics", handler.MarketAnalyticsHandler)
	marketsGroup.GET("/:id/pool", handler.QueryMarketPool)
	marketsGroup.GET("/:id/pool/total", handler.QueryTotalPoolSize)

	eventsGroup := r.Group("/events")
	eventsGroup.GET("/:id", handler.QueryEventDetails)
	eventsGroup.GET("/:id/status", handler.QueryEventStatus)
}

// MountAuthenticated mounts the bearer-token-gated market, bet, dispute and
// oracle-wiring entrypoints.
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	marketsGroup := r.Group("/markets")
	marketsGroup.POST("", handler.CreateMarket)
	marketsGroup.PATCH("/:id/extend", handler.ExtendMarket)
	marketsGroup.DELETE("/:id", handler.CancelMarket)
	marketsGroup.PUT("/:id/oracle-config", handler.UpdateOracleConfig)
	marketsGroup.POST("/:id/bets", handler.PlaceBet)
	marketsGroup.POST("/:id/vote", handler.Vote)
	marketsGroup.POST("/bets/batch", handler.PlaceBets)
	marketsGroup.DELETE("/:id/bets", handler.CancelBet)
	marketsGroup.GET("/:id/bets/me", handler.MyBet)
	marketsGroup.POST("/:id/oracle-result", handler.FetchOracleResult)
	marketsGroup.POST("/:id/resolve", handler.ResolveMarket)
	marketsGroup.POST("/:id/finalize", handler.FinalizeMarket)
	marketsGroup.POST("/:id/dispute", handler.DisputeMarket)
	marketsGroup.POST("/:id/dispute/vote", handler.VoteOnDispute)
	marketsGroup.POST("/:id/dispute/resolve", handler.ResolveDispute)
	marketsGroup.PATCH("/:id/dispute/threshold", handler.AdjustDisputeThreshold)
	marketsGroup.POST("/:id/claim", handler.ClaimWinnings)
	marketsGroup.POST("/:id/fees", handler.CollectFees)

	betsGroup := r.Group("/bets")
	betsGroup.GET("/me", handler.MyBets)

	r.GET("/balance", handler.QueryUserBalance)
}

// MountAdmin mounts the multisig-governed admin and pending-action
// entrypoints under their own route group. The group requires only bearer
// authentication; the admin role is checked by the controller and the
// governance service.
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	adminGroup := r.Group("/admin")
	adminGroup.POST("/initialize", handler.Initialize)
	adminGroup.POST("/admins", handler.AddAdmin)
	adminGroup.DELETE("/admins/:user_id", handler.RemoveAdmin)
	adminGroup.PATCH("/admins/:user_id/role", handler.UpdateAdminRole)
	adminGroup.POST("/admins/:user_id/deactivate", handler.DeactivateAdmin)
	adminGroup.POST("/admins/:user_id/reactivate", handler.ReactivateAdmin)
	adminGroup.PUT("/threshold", handler.SetAdminThreshold)
	adminGroup.GET("/multisig", handler.GetMultisigConfig)
	adminGroup.GET("/multisig/required", handler.RequiresMultisig)
	adminGroup.POST("/actions", handler.CreatePendingAction)
	adminGroup.POST("/actions/:id/approve", handler.ApproveAction)
	adminGroup.POST("/actions/:id/execute", handler.ExecuteAction)
	adminGroup.GET("/actions/:id", handler.GetPendingAction)
	adminGroup.GET("/state", handler.QueryContractState)
}
