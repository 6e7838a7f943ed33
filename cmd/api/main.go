package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/handlers"
	"spinwheel-backend/internal/logging"
	"spinwheel-backend/internal/middleware"
	"spinwheel-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	var store services.Store
	switch cfg.StoreBackend {
	case "memory":
		store = services.NewMemoryStore()
		logger.Warn().Msg("using in-memory store, state will not survive restarts")
	default:
		store, err = services.NewRedisStore(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}
	defer store.Close()

	spinTable, err := services.NewPrizeTable(cfg.SpinTiers)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid spin prize table")
	}
	scratchTable, err := services.NewPrizeTable(cfg.ScratchTiers)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid scratch prize table")
	}

	locks := services.NewKeyedLocks()
	ledger := services.NewLedger(store, logging.WithComponent(logger, "ledger"))

	missions, err := services.NewMissionTracker(cfg.Missions, ledger, store, locks, logging.WithComponent(logger, "missions"))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid mission catalog")
	}

	registry := services.NewReferralRegistry(store, missions, locks, logging.WithComponent(logger, "referrals"))

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.BotToken != "" {
		tn, err := services.NewTelegramNotifier(cfg.BotToken, cfg.WithdrawChannel, logging.WithComponent(logger, "notifier"))
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifier unavailable, withdrawals will not be announced")
		} else {
			notifier = tn
		}
	}

	workflow := services.NewWithdrawalWorkflow(store, ledger, notifier, locks, cfg, logging.WithComponent(logger, "withdrawals"))

	wsHandler := handlers.NewWebSocketHandler(ledger, logging.WithComponent(logger, "websocket"))

	engine := services.NewRewardEngine(
		store, ledger, missions, spinTable, scratchTable,
		services.CryptoSource{}, locks, wsHandler, cfg,
		logging.WithComponent(logger, "engine"),
	)

	stats := services.NewStatsService(store, logging.WithComponent(logger, "stats"))
	if err := stats.StartDailyJob(); err != nil {
		logger.Error().Err(err).Msg("failed to start daily stats job")
	}
	defer stats.Stop()

	jwtService := services.NewJWTService(cfg)

	authHandler := handlers.NewAuthHandler(jwtService, cfg.BotToken, cfg.Env != "production")
	userHandler := handlers.NewUserHandler(store, engine, missions, ledger)
	gameHandler := handlers.NewGameHandler(engine, ledger)
	referralHandler := handlers.NewReferralHandler(registry)
	missionHandler := handlers.NewMissionHandler(missions)
	walletHandler := handlers.NewWalletHandler(ledger, workflow)
	adminHandler := handlers.NewAdminHandler(workflow, stats)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/auth/telegram", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.PUT("/me", userHandler.UpdateProfile)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/spin", gameHandler.Spin)
			games.POST("/scratch", gameHandler.Scratch)
			games.GET("/cooldowns", gameHandler.GetCooldowns)
			games.GET("/tables", gameHandler.GetTables)
		}

		protected.GET("/balance", walletHandler.GetBalance)
		protected.GET("/transactions", gameHandler.GetTransactions)

		referral := protected.Group("/referral")
		{
			referral.GET("/code", referralHandler.GetCode)
			referral.POST("/redeem", referralHandler.Redeem)
		}

		missionsGroup := protected.Group("/missions")
		{
			missionsGroup.GET("", missionHandler.List)
			missionsGroup.POST("/:id/claim", missionHandler.Claim)
			missionsGroup.POST("/join-channel", missionHandler.RecordJoinChannel)
		}

		protected.POST("/withdrawals", walletHandler.RequestWithdrawal)
		protected.GET("/withdrawals", walletHandler.ListWithdrawals)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg.AdminKey))
	{
		admin.GET("/withdrawals", adminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", adminHandler.Approve)
		admin.POST("/withdrawals/:id/reject", adminHandler.Reject)
		admin.POST("/withdrawals/:id/sent", adminHandler.MarkSent)
		admin.GET("/stats", adminHandler.GetStats)
	}

	logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
