package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saas-action-bot/config"
	_ "saas-action-bot/docs" // Swagger docs
	"saas-action-bot/internal/action"
	actionUC "saas-action-bot/internal/action/usecase"
	catalogRepository "saas-action-bot/internal/catalog/repository"
	catalogPostgre "saas-action-bot/internal/catalog/repository/postgre"
	catalogQdrant "saas-action-bot/internal/catalog/repository/qdrant"
	catalogUC "saas-action-bot/internal/catalog/usecase"
	chatHTTP "saas-action-bot/internal/chat/delivery/http"
	"saas-action-bot/internal/conversation"
	conversationRepository "saas-action-bot/internal/conversation/repository"
	conversationMemory "saas-action-bot/internal/conversation/repository/memory"
	conversationPostgre "saas-action-bot/internal/conversation/repository/postgre"
	conversationRedis "saas-action-bot/internal/conversation/repository/redis"
	conversationUC "saas-action-bot/internal/conversation/usecase"
	"saas-action-bot/internal/credential"
	credentialHTTP "saas-action-bot/internal/credential/delivery/http"
	credentialPostgre "saas-action-bot/internal/credential/repository/postgre"
	credentialUC "saas-action-bot/internal/credential/usecase"
	decisionUC "saas-action-bot/internal/decision/usecase"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/httpserver"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/orchestrator"
	resolverUC "saas-action-bot/internal/resolver/usecase"
	"saas-action-bot/internal/webhook"
	"saas-action-bot/pkg/chatpush"
	"saas-action-bot/pkg/database"
	"saas-action-bot/pkg/llmprovider"
	"saas-action-bot/pkg/log"
	pkgQdrant "saas-action-bot/pkg/qdrant"
	pkgRedis "saas-action-bot/pkg/redis"
	"saas-action-bot/pkg/voyage"
)

const (
	metricsNamespace = "action_bot"
	drainTimeout     = 30 * time.Second
	outboundTimeout  = 30 * time.Second
)

// @title       SaaS Action Bot API
// @description Conversational action gateway: chat webhook, tenant OAuth callback and operational endpoints.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting SaaS Action Bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Durable store
	db, err := database.Open(database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		logger.Error(ctx, "Failed to open database: ", err)
		return
	}
	defer database.Close(db)

	for name, migrate := range map[string]func() error{
		"conversations": func() error { return conversationPostgre.Migrate(db) },
		"credentials":   func() error { return credentialPostgre.Migrate(db) },
		"endpoints":     func() error { return catalogPostgre.Migrate(db) },
	} {
		if err := migrate(); err != nil {
			logger.Errorf(ctx, "Failed to migrate %s: %v", name, err)
			return
		}
	}

	collector := metrics.NewCollector(metricsNamespace)

	// 4. Lock, dedup set and session cache: Redis when enabled, in-process otherwise
	var (
		locker       guard.Locker
		dedup        guard.Deduplicator
		oauthStates  guard.Deduplicator
		sessionCache conversationRepository.SessionCache
	)
	readyChecks := map[string]httpserver.ReadyCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if cfg.Redis.Enabled {
		rdb, err := pkgRedis.Connect(ctx, pkgRedis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Error(ctx, "Failed to connect to Redis: ", err)
			return
		}
		defer rdb.Close()

		locker = guard.NewRedisLocker(rdb, cfg.Redis.KeyPrefix, cfg.Orchestrator.LockTTL, logger)
		dedup = guard.NewRedisDeduplicator(rdb, cfg.Redis.KeyPrefix, cfg.Orchestrator.DedupTTL, logger)
		oauthStates = guard.NewRedisDeduplicator(rdb, cfg.Redis.KeyPrefix, cfg.TenantOAuth.StateTTL, logger)
		sessionCache = conversationRedis.New(rdb, cfg.Redis.KeyPrefix)
		readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Infof(ctx, "✅ Redis guards and session cache at %s", cfg.Redis.Addr)
	} else {
		locker = guard.NewMemoryLocker()
		dedup = guard.NewMemoryDeduplicator(cfg.Orchestrator.DedupTTL)
		oauthStates = guard.NewMemoryDeduplicator(cfg.TenantOAuth.StateTTL)
		sessionCache = conversationMemory.New(cfg.Orchestrator.SessionTTL)
		logger.Warn(ctx, "Redis disabled: lock and dedup set are process-local")
	}

	// 5. Reasoning service
	providers, skipped, err := llmprovider.InitializeProviders(&cfg.LLM)
	for _, skipErr := range skipped {
		logger.Warnf(ctx, "LLM provider skipped: %v", skipErr)
	}
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llm := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, 500*time.Millisecond),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 30*time.Second),
	}, logger)

	// 6. Endpoint catalog
	var vectorRepo catalogRepository.VectorRepository
	if cfg.Voyage.APIKey != "" {
		embedder, vErr := voyage.New(cfg.Voyage.APIKey)
		if vErr != nil {
			logger.Error(ctx, "Failed to create Voyage client: ", vErr)
			return
		}
		if cfg.Voyage.Model != "" {
			embedder = embedder.WithModel(cfg.Voyage.Model)
		}

		qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL, pkgQdrant.WithAPIKey(cfg.Qdrant.APIKey))
		qErr := qdrantClient.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
			Name:    cfg.Qdrant.CollectionName,
			Vectors: pkgQdrant.VectorConfig{Size: cfg.Qdrant.VectorSize, Distance: pkgQdrant.DistanceCosine},
		}, catalogQdrant.IndexedPayloadKeys()...)
		if qErr != nil {
			logger.Warnf(ctx, "Qdrant not available, candidate retrieval disabled: %v", qErr)
		} else {
			vectorRepo = catalogQdrant.New(qdrantClient, embedder, cfg.Qdrant.CollectionName, logger)
			logger.Infof(ctx, "✅ Qdrant collection %q ready", cfg.Qdrant.CollectionName)
		}
	} else {
		logger.Warn(ctx, "VOYAGE_API_KEY missing, candidate retrieval disabled")
	}
	catalog := catalogUC.New(logger, catalogPostgre.New(db), vectorRepo)

	// 7. Tenant credentials and action executor
	outbound := &http.Client{Timeout: outboundTimeout}
	credentials := credentialUC.New(logger, credentialPostgre.New(db), credential.Options{
		ClientID:            cfg.TenantOAuth.ClientID,
		ClientSecret:        cfg.TenantOAuth.ClientSecret,
		RedirectURL:         cfg.TenantOAuth.RedirectURL,
		AccountsURL:         cfg.TenantOAuth.AccountsURL,
		AllowedAccountsURLs: cfg.TenantOAuth.AllowedAccountsURLs,
		AuthPath:            cfg.TenantOAuth.AuthPath,
		TokenPath:           cfg.TenantOAuth.TokenPath,
		DefaultAPIBaseURL:   cfg.TenantOAuth.DefaultAPIBaseURL,
		Scopes:              cfg.TenantOAuth.Scopes,
		StateSecret:         cfg.TenantOAuth.StateSecret,
		StateTTL:            cfg.TenantOAuth.StateTTL,
		RefreshSkew:         cfg.Action.RefreshSkew,
	}, outbound, oauthStates, collector)
	executor := actionUC.New(logger, credentials, outbound, action.Options{
		Timeout:           cfg.Action.Timeout,
		RetryDelay:        cfg.Action.RetryDelay,
		AuthScheme:        cfg.TenantOAuth.AuthScheme,
		DefaultAPIBaseURL: cfg.TenantOAuth.DefaultAPIBaseURL,
	}, collector)

	// 8. Conversation state, decisioning and auto-resolution
	conversations := conversationUC.New(logger, conversationPostgre.New(db), sessionCache, conversation.Options{
		PendingResultTTL: cfg.Orchestrator.PendingResultTTL,
		SessionTTL:       cfg.Orchestrator.SessionTTL,
		MaxHistory:       cfg.Orchestrator.MaxHistory,
	})
	engine := decisionUC.New(logger, llm)
	resolver := resolverUC.New(logger, conversations, catalog, engine, executor, collector)

	// 9. Proactive push (optional)
	orchCfg := orchestrator.Config{
		Logger:       logger,
		Conversation: conversations,
		Catalog:      catalog,
		Engine:       engine,
		Resolver:     resolver,
		Executor:     executor,
		Locker:       locker,
		Metrics:      collector,
		Options: orchestrator.Options{
			ResponseDeadline:    cfg.Orchestrator.ResponseDeadline,
			GreetingTimeout:     cfg.Orchestrator.GreetingTimeout,
			MaxHistory:          cfg.Orchestrator.MaxHistory,
			MaxClarifications:   cfg.Orchestrator.MaxClarifications,
			ConfidenceThreshold: cfg.Orchestrator.ConfidenceThreshold,
			TopK:                cfg.Orchestrator.TopK,
		},
	}
	if cfg.ChatPlatform.PushAPIURL != "" {
		// token refreshes outlive the signal context
		push, pErr := chatpush.New(context.Background(), chatpush.Config{
			APIURL:       cfg.ChatPlatform.PushAPIURL,
			ClientID:     cfg.ChatPlatform.ClientID,
			ClientSecret: cfg.ChatPlatform.ClientSecret,
			TokenURL:     cfg.ChatPlatform.TokenURL,
			RefreshToken: cfg.ChatPlatform.RefreshToken,
		})
		if pErr != nil {
			logger.Warnf(ctx, "Proactive push disabled: %v", pErr)
		} else {
			orchCfg.Push = push
			logger.Info(ctx, "✅ Proactive push enabled")
		}
	} else {
		logger.Warn(ctx, "Proactive push not configured, late results wait for the next message")
	}

	orch, err := orchestrator.New(orchCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize orchestrator: ", err)
		return
	}

	// 10. Delivery
	chatHandler := chatHTTP.New(logger, orch, dedup, webhook.NewSecurityValidator(webhook.SecurityConfig{
		Secret:          cfg.Webhook.Secret,
		AllowedIPs:      cfg.Webhook.AllowedIPs,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	}), collector)
	if cfg.Webhook.Secret == "" {
		logger.Warn(ctx, "WEBHOOK_SECRET not set, chat webhook signatures are not verified")
	}

	var credentialHandler credentialHTTP.Handler
	if cfg.TenantOAuth.ClientID != "" {
		credentialHandler = credentialHTTP.New(logger, credentials)
	}

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:            logger,
		Port:              cfg.HTTPServer.Port,
		Mode:              cfg.HTTPServer.Mode,
		Environment:       cfg.Environment.Name,
		MetricsHandler:    collector.Handler(),
		ReadyChecks:       readyChecks,
		ChatHandler:       chatHandler,
		CredentialHandler: credentialHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if cfg.ChatPlatform.NgrokAPIURL != "" {
		go func() {
			publicURL, nErr := detectNgrokURL(ctx, cfg.ChatPlatform.NgrokAPIURL)
			if nErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", nErr)
				return
			}
			logger.Infof(ctx, "Chat platform webhook URL: %s/webhook/chat", publicURL)
		}()
	}

	// 11. Run until signalled, then let background deliveries finish
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := orch.Shutdown(drainCtx); err != nil {
		logger.Warnf(drainCtx, "Abandoning in-flight turns: %v", err)
	}

	logger.Info(drainCtx, "Server stopped gracefully")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
