//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
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
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/auth"
	"sitebot-server/services/assistant-api/internal/infrastructure/database"
	"sitebot-server/services/assistant-api/internal/infrastructure/fetcher"
	"sitebot-server/services/assistant-api/internal/infrastructure/linkprobe"
	"sitebot-server/services/assistant-api/internal/infrastructure/llmclient"
	"sitebot-server/services/assistant-api/internal/infrastructure/logger"
	"sitebot-server/services/assistant-api/internal/infrastructure/mailer"
	"sitebot-server/services/assistant-api/internal/infrastructure/queue"
	conversationrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/conversation"
	crawlrunrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/crawlrun"
	knowledgerepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/knowledge"
	leadrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/lead"
	ratelimitrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/ratelimit"
	tenantrepo "sitebot-server/services/assistant-api/internal/infrastructure/repository/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/sessionstore"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/handlers"
	"sitebot-server/services/assistant-api/internal/worker"
)

var repositorySet = wire.NewSet(
	tenantrepo.NewPostgresRepository,
	wire.Bind(new(tenant.Repository), new(*tenantrepo.PostgresRepository)),
	conversationrepo.NewPostgresRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.PostgresRepository)),
	conversationrepo.NewMessageRepository,
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MessageRepository)),
	wire.Bind(new(billing.MessageCounter), new(*conversationrepo.MessageRepository)),
	knowledgerepo.NewDocumentRepository,
	wire.Bind(new(knowledge.DocumentRepository), new(*knowledgerepo.DocumentRepository)),
	knowledgerepo.NewChunkRepository,
	wire.Bind(new(knowledge.ChunkRepository), new(*knowledgerepo.ChunkRepository)),
	leadrepo.NewPostgresRepository,
	wire.Bind(new(lead.Repository), new(*leadrepo.PostgresRepository)),
	ratelimitrepo.NewPostgresRepository,
	wire.Bind(new(ratelimit.Repository), new(*ratelimitrepo.PostgresRepository)),
	crawlrunrepo.NewPostgresRepository,
	wire.Bind(new(crawl.RunRepository), new(*crawlrunrepo.PostgresRepository)),
)

var gatewaySet = wire.NewSet(
	sessionstore.New,
	newGate,
	newLimiter,
	billing.NewAccountant,
	llmclient.NewClient,
	wire.Bind(new(chat.Generator), new(*llmclient.Client)),
	wire.Bind(new(knowledge.Embedder), new(*llmclient.Client)),
	wire.Bind(new(crawl.Embedder), new(*llmclient.Client)),
	knowledge.NewRetriever,
	wire.Bind(new(chat.KnowledgeRetriever), new(*knowledge.Retriever)),
	newProber,
	wire.Bind(new(chat.LinkProber), new(*linkprobe.Prober)),
	newPostProcessor,
	queue.NewPostgresQueue,
	wire.Bind(new(queue.TaskQueue), new(*queue.PostgresQueue)),
	queue.NewLeadNotifier,
	wire.Bind(new(lead.Notifier), new(*queue.LeadNotifier)),
	lead.NewService,
	newConversationService,
	newChatService,
	newFetcher,
	wire.Bind(new(crawl.Fetcher), new(*fetcher.HTTPFetcher)),
	newCrawler,
	mailer.NewRestMailer,
	wire.Bind(new(mailer.Sender), new(*mailer.RestMailer)),
	worker.NewNotificationService,
	newHandlerProvider,
)

// BuildApplication assembles the gateway with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		repositorySet,
		gatewaySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newGate(sessions accessgate.SessionStore, tenants tenant.Repository, cfg *config.Config) *accessgate.Gate {
	return accessgate.NewGate(sessions, tenants, cfg.PlatformHost)
}

func newLimiter(repo ratelimit.Repository, cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.NewLimiter(repo, cfg.RateLimitWindow, cfg.RateLimitMax)
}

func newProber(cfg *config.Config) *linkprobe.Prober {
	return linkprobe.NewProber(cfg.LinkProbeTimeout)
}

func newPostProcessor(prober chat.LinkProber, cfg *config.Config) *chat.PostProcessor {
	return chat.NewPostProcessor(prober, cfg.ReplyMaxChars)
}

func newConversationService(conversations conversation.Repository, messages conversation.MessageRepository, cfg *config.Config) *conversation.Service {
	return conversation.NewService(conversations, messages, cfg.ConversationReuseWindow)
}

func newChatService(
	conversations *conversation.Service,
	retriever chat.KnowledgeRetriever,
	generator chat.Generator,
	post *chat.PostProcessor,
	leads *lead.Service,
	cfg *config.Config,
	log zerolog.Logger,
) *chat.Service {
	return chat.NewService(conversations, retriever, generator, post, leads, cfg.DemoTenantKey, cfg.HistoryTurns, log)
}

func newFetcher(cfg *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(cfg.CrawlFetchTimeout)
}

func newCrawler(
	pageFetcher crawl.Fetcher,
	embedder crawl.Embedder,
	documents knowledge.DocumentRepository,
	chunks knowledge.ChunkRepository,
	runs crawl.RunRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *crawl.Crawler {
	return crawl.NewCrawler(pageFetcher, embedder, documents, chunks, runs, crawl.Options{
		SiteBudget: crawl.Budget{
			MaxPages:   cfg.CrawlMaxPages,
			MaxDepth:   cfg.CrawlMaxDepth,
			TimeBudget: cfg.CrawlBudget,
		},
		HeartbeatWindow:  cfg.CrawlHeartbeatWindow,
		SkipUnchanged:    cfg.CrawlSkipUnchanged,
		RequireHeartbeat: cfg.CrawlRequireHeartbeat,
	}, log)
}

func newHandlerProvider(
	gate *accessgate.Gate,
	limiter *ratelimit.Limiter,
	accountant *billing.Accountant,
	tenants tenant.Repository,
	chatService *chat.Service,
	crawler *crawl.Crawler,
	sessions accessgate.SessionStore,
	cfg *config.Config,
	log zerolog.Logger,
) *handlers.Provider {
	return handlers.NewProvider(
		handlers.NewChatHandler(gate, limiter, accountant, tenants, chatService, cfg.PlatformHost, log),
		handlers.NewSessionHandler(cfg, tenants, sessions, log),
		handlers.NewCrawlHandler(crawler, tenants, log),
	)
}
