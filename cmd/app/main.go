package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "postboost-backend/docs"
	"postboost-backend/internal/common/cache"
	"postboost-backend/internal/common/config"
	"postboost-backend/internal/common/logger"
	"postboost-backend/internal/common/middleware"
	"postboost-backend/internal/common/money"
	accounthttp "postboost-backend/internal/features/account/delivery/http"
	accountrepo "postboost-backend/internal/features/account/repository"
	accountmemory "postboost-backend/internal/features/account/repository/memory"
	accountsupabase "postboost-backend/internal/features/account/repository/supabase"
	accountservice "postboost-backend/internal/features/account/service"
	ledgerhttp "postboost-backend/internal/features/ledger/delivery/http"
	ledgerrepo "postboost-backend/internal/features/ledger/repository"
	ledgermemory "postboost-backend/internal/features/ledger/repository/memory"
	ledgersupabase "postboost-backend/internal/features/ledger/repository/supabase"
	ledgerservice "postboost-backend/internal/features/ledger/service"
	posthttp "postboost-backend/internal/features/post/delivery/http"
	postrepo "postboost-backend/internal/features/post/repository"
	postmemory "postboost-backend/internal/features/post/repository/memory"
	postsupabase "postboost-backend/internal/features/post/repository/supabase"
	postservice "postboost-backend/internal/features/post/service"
	settingshttp "postboost-backend/internal/features/settings/delivery/http"
	settingsmodels "postboost-backend/internal/features/settings/models"
	settingsrepo "postboost-backend/internal/features/settings/repository"
	settingsmemory "postboost-backend/internal/features/settings/repository/memory"
	settingssupabase "postboost-backend/internal/features/settings/repository/supabase"
	settingsservice "postboost-backend/internal/features/settings/service"
	"postboost-backend/internal/platform/redis"
	"postboost-backend/internal/platform/supabase"
	"postboost-backend/internal/platform/textgen"
)

// @title           PostBoost API
// @version         1.0
// @description     Demo social feed with a USDT-cent wallet: deposits, admin-settled withdrawals and post sponsorship that buys views.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token from /auth/signin, sent as "Bearer {token}"

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string

// @tag.name auth
// @tag.description Sign-up and sign-in

// @tag.name accounts
// @tag.description Profiles and balances

// @tag.name posts
// @tag.description Feed, reactions and sponsorship

// @tag.name wallet
// @tag.description Deposits, withdrawals and transaction history

// @tag.name admin
// @tag.description Settlement queue, user management, pricing and demo seeding

type repositories struct {
	accounts accountrepo.AccountRepository
	posts    postrepo.PostRepository
	ledger   ledgerrepo.TransactionRepository
	settings settingsrepo.SettingsRepository
}

func main() {
	cfg := config.Load()
	logger.Init("postboost-backend", cfg.Debug)

	ctx := context.Background()

	var (
		repos      repositories
		authClient *supabase.AuthClient
	)
	switch cfg.Store {
	case "supabase":
		if cfg.Supabase.URL == "" || cfg.Supabase.Key == "" {
			logger.Fatal().Msg("SUPABASE_URL and SUPABASE_KEY are required when STORE=supabase")
		}
		client, err := supabase.New(supabase.Config{URL: cfg.Supabase.URL, APIKey: cfg.Supabase.Key})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create store client")
		}
		authClient = client.Auth()
		repos = repositories{
			accounts: accountsupabase.NewSupabaseRepository(client),
			posts:    postsupabase.NewSupabaseRepository(client),
			ledger:   ledgersupabase.NewSupabaseRepository(client),
			settings: settingssupabase.NewSupabaseRepository(client),
		}
	case "memory":
		repos = repositories{
			accounts: accountmemory.NewMemoryRepository(),
			posts:    postmemory.NewMemoryRepository(),
			ledger:   ledgermemory.NewMemoryRepository(),
			settings: settingsmemory.NewMemoryRepository(),
		}
		logger.Warn().Msg("Running with in-memory store; data is lost on restart")
	default:
		logger.Fatal().Str("store", cfg.Store).Msg("Unknown STORE value")
	}

	var cacheService *cache.CacheService
	redisClient, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable; running without cache")
	} else {
		defer redisClient.Close()
		cacheService = cache.NewCacheService(redisClient)
	}

	accountSvc := accountservice.NewAccountService(repos.accounts, authClient, cacheService)
	settingsSvc := settingsservice.NewSettingsService(repos.settings, cacheService, settingsmodels.Settings{
		ViewPriceCents:     money.Cents(cfg.Pricing.ViewPriceCents),
		ViewsPerBundle:     cfg.Pricing.ViewsPerBundle,
		MinWithdrawalCents: money.Cents(cfg.Pricing.MinWithdrawalCents),
		PayoutAddress:      cfg.Pricing.PayoutAddress,
	})
	postSvc := postservice.NewPostService(repos.posts, textgen.New(cfg.TextGen.Endpoint, cfg.TextGen.APIKey))
	ledgerSvc := ledgerservice.NewLedgerService(repos.ledger, repos.accounts, repos.posts, settingsSvc)

	growth := postservice.NewGrowthService(postSvc, cfg.Workers.ViewGrowthSpec)
	if err := growth.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start view growth worker")
	}
	defer growth.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, accountSvc, postSvc, ledgerSvc, settingsSvc, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	accountSvc accountservice.AccountService,
	postSvc postservice.PostService,
	ledgerSvc ledgerservice.LedgerService,
	settingsSvc settingsservice.SettingsService,
	redisClient *redis.Client,
) {
	v1 := router.Group("/api/v1")

	public := v1.Group("")
	authed := v1.Group("")
	authed.Use(middleware.Auth(accountSvc, cfg.Telegram.BotToken, time.Duration(cfg.Telegram.InitDataTTL)*time.Second))
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	accounthttp.NewAccountHandler(accountSvc).RegisterRoutes(public, authed, admin)
	posthttp.NewPostHandler(postSvc).RegisterRoutes(authed, admin)
	ledgerhttp.NewLedgerHandler(ledgerSvc).RegisterRoutes(authed, admin)
	settingshttp.NewSettingsHandler(settingsSvc).RegisterRoutes(admin)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "postboost-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if redisClient != nil {
			if err := redisClient.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "postboost-backend",
		})
	})
}
