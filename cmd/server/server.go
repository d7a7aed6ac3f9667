package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/accessgate"
	"sitebot-server/services/assistant-api/internal/domain/billing"
	"sitebot-server/services/assistant-api/internal/domain/chat"
	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/crawl"
	"sitebot-server/services/assistant-api/internal/domain/knowledge"
	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/ratelimit"
	"sitebot-server/services/assistant-api/internal/infrastructure/auth"
	"sitebot-server/services/assistant-api/internal/infrastructure/database"
	"sitebot-server/services/assistant-api/internal/infrastructure/fetcher"
	"sitebot-server/services/assistant-api/internal/infrastructure/linkprobe"
	"sitebot-server/services/assistant-api/internal/infrastructure/llmclient"
	"sitebot-server/services/assistant-api/internal/infrastructure/logger"
	"sitebot-server/services/assistant-api/internal/infrastructure/mailer"
	"sitebot-server/services/assistant-api/internal/infrastructure/observability"
	"sitebot-server/services/assistant-api/internal/infrastructure/queue"
	conversationrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/conversation"
	crawlrunrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/crawlrun"
	knowledgerepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/knowledge"
	leadrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/lead"
	ratelimitrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/ratelimit"
	tenantrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/scheduler"
	"sitebot-server/services/assistant-api/internal/infrastructure/sessionstore"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/handlers"
	"sitebot-server/services/assistant-api/internal/worker"
)

// Application bundles the HTTP server with its logger so main stays small.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Init(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	tenantRepository := tenantrepo.NewPostgresRepository(db)
	conversationRepository := conversationrepo.NewPostgresRepository(db)
	messageRepository := conversationrepo.NewMessageRepository(db)
	documentRepository := knowledgerepo.NewDocumentRepository(db)
	chunkRepository := knowledgerepo.NewChunkRepository(db)
	leadRepository := leadrepo.NewPostgresRepository(db)
	rateEventRepository := ratelimitrepo.NewPostgresRepository(db)
	crawlRunRepository := crawlrunrepo.NewPostgresRepository(db)

	sessionStore := sessionstore.New(cfg, log)
	gate := accessgate.NewGate(sessionStore, tenantRepository, cfg.PlatformHost)
	limiter := ratelimit.NewLimiter(rateEventRepository, cfg.RateLimitWindow, cfg.RateLimitMax)
	accountant := billing.NewAccountant(messageRepository)

	llmClient := llmclient.NewClient(cfg)
	retriever := knowledge.NewRetriever(llmClient, chunkRepository)
	prober := linkprobe.NewProber(cfg.LinkProbeTimeout)
	postProcessor := chat.NewPostProcessor(prober, cfg.ReplyMaxChars)

	// Captured leads are persisted in the turn and mailed out by the worker.
	taskQueue := queue.NewPostgresQueue(db, log)
	leadService := lead.NewService(leadRepository, queue.NewLeadNotifier(taskQueue), log)

	conversationService := conversation.NewService(conversationRepository, messageRepository, cfg.ConversationReuseWindow)
	chatService := chat.NewService(
		conversationService,
		retriever,
		llmClient,
		postProcessor,
		leadService,
		cfg.DemoTenantKey,
		cfg.HistoryTurns,
		log,
	)

	pageFetcher := fetcher.NewHTTPFetcher(cfg.CrawlFetchTimeout)
	crawler := crawl.NewCrawler(
		pageFetcher,
		llmClient,
		documentRepository,
		chunkRepository,
		crawlRunRepository,
		crawl.Options{
			SiteBudget: crawl.Budget{
				MaxPages:   cfg.CrawlMaxPages,
				MaxDepth:   cfg.CrawlMaxDepth,
				TimeBudget: cfg.CrawlBudget,
			},
			HeartbeatWindow:  cfg.CrawlHeartbeatWindow,
			SkipUnchanged:    cfg.CrawlSkipUnchanged,
			RequireHeartbeat: cfg.CrawlRequireHeartbeat,
		},
		log,
	)

	refreshScheduler := scheduler.New(cfg, crawler, documentRepository, tenantRepository, log)
	if err := refreshScheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("start refresh scheduler")
	}
	defer refreshScheduler.Stop()

	mailSender := mailer.NewRestMailer(cfg, log)
	notificationService := worker.NewNotificationService(
		leadRepository,
		tenantRepository,
		messageRepository,
		mailSender,
		log,
	)
	workerPool := worker.NewPool(
		taskQueue,
		notificationService,
		worker.Config{
			WorkerCount: cfg.WorkerCount,
			TaskTimeout: cfg.WorkerTaskTimeout,
			PollDelay:   cfg.WorkerPollDelay,
		},
		log,
	)

	if err := workerPool.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start worker pool")
	}
	defer func() {
		log.Info().Msg("stopping worker pool")
		workerPool.Stop()
	}()

	handlerProvider := handlers.NewProvider(
		handlers.NewChatHandler(gate, limiter, accountant, tenantRepository, chatService, cfg.PlatformHost, log),
		handlers.NewSessionHandler(cfg, tenantRepository, sessionStore, log),
		handlers.NewCrawlHandler(crawler, tenantRepository, log),
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
