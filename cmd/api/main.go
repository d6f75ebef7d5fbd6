package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joefazee/foresight/app/wallet"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/app"
	"github.com/joefazee/foresight/app/api"
	"github.com/joefazee/foresight/app/core"
	"github.com/joefazee/foresight/app/database"
	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/internal/cache"
	"github.com/joefazee/foresight/internal/deps"
	"github.com/joefazee/foresight/internal/logger"
	"github.com/joefazee/foresight/internal/router"
	"github.com/joefazee/foresight/internal/sanitizer"
	"github.com/joefazee/foresight/internal/security"
)

// @title Foresight Prediction Market API
// @version 1.0
// @description Lifecycle, betting, resolution and governance API for the on-chain prediction-market engine.
// @x-logo {"url": "https://go.dev/images/go-logo-white.svg", "altText": "Go API Logo"}
// @termsOfService https://foresight-markets.io/terms

// @contact.name API Support Team
// @contact.url https://foresight-markets.io/support
// @contact.email support@foresight-markets.io

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @servers.url http://localhost:8080/
// @servers.description Local Development Server

// @servers.url https://staging.foresight-markets.io/api/v1
// @servers.description Staging Server

// @servers.url https://foresight-markets.io/api/v1
// @servers.description Production Server
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize core dependencies
	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	zeroLogger := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, map[string]interface{}{
		"env":     cfg.Env,
		"service": "api",
	})

	htmlSanitizer := sanitizer.NewHTMLStripper()
	cacheService := cache.NewCache[string](cache.MemoryBackend, nil)

	tokenMaker, err := security.NewPasetoMaker(cfg.User.SymmetricKey)
	if err != nil {
		log.Fatal("cannot create token maker:", err)
	}

	container := deps.NewContainer(db, tokenMaker, htmlSanitizer, zeroLogger, cacheService)

	initializeRepositories(container)

	r := gin.Default()
	r.Use(api.CorsMiddleware())
	mounter := router.NewMounter(container)

	mountRoutes(r, mounter, container, tokenMaker)

	log.Printf("Starting Foresight API server on %s:%s", cfg.AppHost, cfg.AppPort)
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initializeRepositories(container *deps.Container) {
	user.InitRepositories(container)
	wallet.InitRepositories(container)
	core.InitRepositories(container)
}

func mountRoutes(engine *gin.Engine, mounter *router.Mounter, container *deps.Container, tokenMaker security.Maker) {
	userRepo := container.GetRepository(user.RepoKey).(user.Repository)
	authMiddleware := user.AuthMiddleware(tokenMaker, userRepo)

	mounter.Public(engine).
		Mount(func(r *gin.RouterGroup, _ *deps.Container) {
			r.GET("/healthz", api.HealthCheck)
		}).
		Mount(core.MountPublic).
		Mount(user.MountPublic)

	mounter.Authenticated(engine).
		WithAuth(authMiddleware).
		Mount(core.MountAuthenticated).
		Mount(wallet.MountAuthenticated).
		Mount(user.MountAuthenticated)

	// Admin and multisig entrypoints require only a verified bearer token at
	// the HTTP layer: the lifecycle controller re-checks SuperAdmin/Admin
	// standing itself (governance.Service.requireSuperAdmin) once inside its
	// transaction, the same defense-in-depth split GetMarket/ClaimWinnings
	// use for identity.
	mounter.Authenticated(engine).
		WithAuth(authMiddleware).
		Mount(core.MountAdmin)
}
