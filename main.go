package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mayhouse/config"
	"mayhouse/cron"
	"mayhouse/database"
	"mayhouse/database/repository"
	"mayhouse/handlers"
	"mayhouse/routes"
	"mayhouse/services/blockchain"
	"mayhouse/services/booking"
	"mayhouse/services/design"
	"mayhouse/services/eventrun"
	"mayhouse/services/experience"
	"mayhouse/services/explore"
	"mayhouse/services/hostapp"
	"mayhouse/services/legal"
	"mayhouse/services/notification"
	"mayhouse/services/payment"
	"mayhouse/services/profile"
	"mayhouse/services/storage"
	"mayhouse/services/tasks"
	"mayhouse/services/user"
	"mayhouse/services/wallet"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories.
	repos := repository.NewMongoRepositories()

	// Redis-backed stores fall back to process memory when the cache is down.
	cache := utils.GetCacheClient()
	var (
		nonces      wallet.NonceStore  = wallet.NewMemoryNonceStore()
		states      user.StateStore    = user.NewMemoryStateStore()
		chatHistory design.ChatHistory = design.NewMemoryChatHistory()
		enqueuer    tasks.Enqueuer     = tasks.NoopEnqueuer{}
		queueOpt                       = asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}

		store     storage.StorageService
		llm       design.TextGenerator
		speechSvc design.Transcriber
		chain     blockchain.ChainClient
		fcm       notification.Sender
		worker    *asynq.Server
	)
	if cache != nil {
		nonces = wallet.NewRedisNonceStore(cache)
		states = user.NewRedisStateStore(cache)
		chatHistory = design.NewRedisChatHistory(cache, design.ChatHistoryTTL)
		asynqClient := tasks.NewAsynqEnqueuer(queueOpt)
		defer asynqClient.Close()
		enqueuer = asynqClient
	}

	if cld, err := storage.NewFromConfig(); err != nil {
		logger.Warn("main: photo storage disabled", zap.Error(err))
	} else {
		store = cld
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := design.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("main: Gemini client unavailable", zap.Error(err))
		} else {
			defer gemini.Close()
			llm = gemini
		}
	}
	if cfg.GoogleServiceAccountFile != "" {
		stt, err := design.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile)
		if err != nil {
			logger.Warn("main: speech-to-text unavailable", zap.Error(err))
		} else {
			defer stt.Close()
			speechSvc = stt
		}
	}

	if cfg.BlockchainEnabled {
		client, err := blockchain.NewEthChainClient(ctx, cfg.BlockchainRPCURL, cfg.ContractAddress, cfg.PlatformPrivateKey, cfg.ChainID, logger)
		if err != nil {
			logger.Error("main: blockchain disabled, chain client failed", zap.Error(err))
		} else {
			defer client.Close()
			chain = client
		}
	}

	if err := utils.FirebaseInit(ctx); err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
	} else {
		fcm = utils.FCMClient
	}

	// services.
	userService := &user.DefaultUserService{
		Repo:      repos.Users,
		Nonces:    nonces,
		Blacklist: utils.GetBlacklist(),
		Google:    user.NewGoogleOAuth(states),
	}
	legalService := &legal.DefaultLegalService{Repo: repos.Legal, Users: repos.Users}
	if created, err := legalService.InitializePolicies(); err != nil {
		logger.Error("main: failed to seed legal policies", zap.Error(err))
	} else if created > 0 {
		logger.Info("Seeded legal policies", zap.Int("created", created))
	}

	experienceService := &experience.DefaultExperienceService{
		Repo:     repos.Experiences,
		Photos:   repos.Photos,
		Storage:  store,
		Upgrader: userService,
	}
	eventRunService := &eventrun.DefaultEventRunService{
		Runs:         repos.EventRuns,
		Experiences:  repos.Experiences,
		Bookings:     repos.Bookings,
		Users:        repos.Users,
		Tasks:        enqueuer,
		ChainEnabled: chain != nil,
	}
	bookingService := &booking.DefaultBookingService{
		Runs:        repos.EventRuns,
		Experiences: repos.Experiences,
		Bookings:    repos.Bookings,
		Spots:       eventRunService,
		Payments:    payment.NewProcessor(cfg.PaymentProvider, cfg.StripeKey),
		Tasks:       enqueuer,
	}
	priceFeed := blockchain.NewPriceFeed(cfg.CoinGeckoURL, cache, logger)
	blockchainService := &blockchain.DefaultBlockchainService{
		Runs:     repos.EventRuns,
		Bookings: repos.Bookings,
		Costs:    bookingService,
		Prices:   priceFeed,
		Chain:    chain,
	}
	hostAppService := &hostapp.DefaultHostApplicationService{
		Repo:        repos.HostApplications,
		Users:       repos.Users,
		Policies:    legalService,
		Upgrader:    userService,
		AutoApprove: cfg.HostAutoApprove,
	}
	designService := &design.DefaultDesignService{
		Sessions:    repos.DesignSessions,
		Experiences: repos.Experiences,
		Storage:     store,
		LLM:         llm,
		Speech:      speechSvc,
		History:     chatHistory,
	}
	profileService := &profile.DefaultProfileService{
		Users:        repos.Users,
		Experiences:  repos.Experiences,
		EventRuns:    repos.EventRuns,
		Bookings:     repos.Bookings,
		Applications: repos.HostApplications,
		Photos:       repos.Photos,
	}
	exploreService := &explore.DefaultExploreService{
		Experiences: repos.Experiences,
		Runs:        repos.EventRuns,
		Bookings:    repos.Bookings,
		Users:       repos.Users,
		Photos:      repos.Photos,
	}

	// background work.
	if cache != nil {
		worker = cron.InitWorker(queueOpt, &cron.Worker{
			Bookings:     repos.Bookings,
			Runs:         repos.EventRuns,
			Experiences:  repos.Experiences,
			Users:        repos.Users,
			Notification: notification.NewDefaultNotificationService(fcm, logger),
			Chain:        chainSyncer(blockchainService, chain != nil),
			Logger:       logger,
		})
	}
	scheduler, err := cron.StartScheduler(&cron.Scheduler{
		Prices:    priceFeed,
		Blacklist: utils.GetBlacklist(),
		Runs:      eventRunService,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("main: failed to start scheduler", zap.Error(err))
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:        repos.Users,
		Auth:            handlers.NewAuthHandler(userService),
		Profile:         handlers.NewProfileHandler(userService, profileService),
		Experience:      handlers.NewExperienceHandler(experienceService),
		EventRun:        handlers.NewEventRunHandler(eventRunService),
		Booking:         handlers.NewBookingHandler(bookingService),
		Blockchain:      handlers.NewBlockchainHandler(blockchainService),
		HostApplication: handlers.NewHostApplicationHandler(hostAppService),
		Legal:           handlers.NewLegalHandler(legalService),
		Design:          handlers.NewDesignHandler(designService),
		Explore:         handlers.NewExploreHandler(exploreService),
		Routes:          handlers.NewRouteHandler(cfg.OSRMURL),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}
	go func() {
		logger.Info("Mayhouse API listening", zap.String("port", cfg.AppPort), zap.Bool("chain", chain != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: graceful shutdown failed", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	<-scheduler.Stop().Done()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	_ = logger.Sync()
}

// chainSyncer hands the worker a syncer only when the chain is live.
func chainSyncer(svc *blockchain.DefaultBlockchainService, enabled bool) cron.ChainSyncer {
	if !enabled {
		return nil
	}
	return svc
}
