package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/config"
	"github.com/kailas-cloud/libsearch/internal/db"
	dbRedis "github.com/kailas-cloud/libsearch/internal/db/redis"
	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
	logpkg "github.com/kailas-cloud/libsearch/internal/logger"
	"github.com/kailas-cloud/libsearch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/libsearch/internal/repository/budget"
	catalogrepo "github.com/kailas-cloud/libsearch/internal/repository/catalog"
	"github.com/kailas-cloud/libsearch/internal/repository/respcache"
	chiTransport "github.com/kailas-cloud/libsearch/internal/transport/chi"
	"github.com/kailas-cloud/libsearch/internal/transport/github"
	openaiGen "github.com/kailas-cloud/libsearch/internal/transport/openai"
	"github.com/kailas-cloud/libsearch/internal/transport/searxng"
	"github.com/kailas-cloud/libsearch/internal/usecase/browse"
	generationuc "github.com/kailas-cloud/libsearch/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/libsearch/internal/usecase/health"
	"github.com/kailas-cloud/libsearch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/libsearch/internal/usecase/search"
	"github.com/kailas-cloud/libsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting libsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterCatalogMetrics()
	metrics.RegisterProviderMetrics()

	ctx := context.Background()

	// Key-value store is optional: without it responses and budgets live only in memory.
	store, err := openStore(ctx, &cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to open cache store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Catalog snapshot
	categorizer, err := category.NewCategorizer(cfg.CategoryRules())
	if err != nil {
		logger.Fatal("Invalid category rules", zap.Error(err))
	}
	snapshots := catalogrepo.NewSnapshotter(
		catalogrepo.FromFile(cfg.Catalog.Path, catalogrepo.Options{
			Encoding:       cfg.Catalog.Encoding,
			RepairEncoding: cfg.Catalog.RepairEncoding,
			Categorizer:    categorizer,
			Logger:         logger,
		}),
		cfg.CatalogTTL(),
		logger,
	)
	// A missing catalog is not fatal: the API answers 503 until the file appears.
	if tbl, err := snapshots.Current(ctx); err != nil {
		logger.Warn("Catalog not loaded at startup", zap.Error(err))
	} else {
		logger.Info("Catalog loaded", zap.Int("records", tbl.Len()), zap.Int("skipped", tbl.Meta().Skipped))
	}

	// Use case services
	searchSvc := searchuc.New(snapshots, cfg.Catalog.MaxResults)
	browseSvc := browse.New(snapshots, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize)

	var repos recommend.RepositoryFinder
	var topics chiTransport.TopicFinder
	if cfg.GitHub.Enabled {
		gh := github.New(github.Config{
			BaseURL:           cfg.GitHub.BaseURL,
			Token:             cfg.GitHub.Token,
			APIVersion:        cfg.GitHub.APIVersion,
			RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
			Timeout:           time.Duration(cfg.GitHub.TimeoutSec) * time.Second,
			MinStars:          cfg.GitHub.MinStars,
			MinForks:          cfg.GitHub.MinForks,
			Logger:            logger,
		})
		repos, topics = gh, gh
	}

	var docs recommend.DocumentFinder
	if cfg.SearXNG.Enabled {
		docs = searxng.New(searxng.Config{
			BaseURL:  cfg.SearXNG.BaseURL,
			Language: cfg.SearXNG.Language,
			Timeout:  time.Duration(cfg.SearXNG.TimeoutSec) * time.Second,
			Logger:   logger,
		})
	}

	var resources chiTransport.Recommender = recommend.New(searchSvc, repos, docs)

	generator, llmHealth := buildGenerator(ctx, &cfg.LLM, store, logger)
	var ai chiTransport.Recommender
	if generator != nil {
		ai = recommend.NewAdvisor(snapshots, generator, cfg.LLM.ContextBooks)
		logger.Info("Generative recommendations enabled",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model),
		)
	}

	if store != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		resources = respcache.New(resources, store, "resources", ttl, metrics.ResponseCacheTotal, logger)
		if ai != nil {
			ai = respcache.New(ai, store, "ai", ttl, metrics.ResponseCacheTotal, logger)
		}
	}

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var storePinger healthuc.StorePinger
	if store != nil {
		storePinger = store
	}
	healthSvc := healthuc.New(snapshots, storePinger, llmHealth)

	server := chiTransport.NewServer(chiTransport.Deps{
		Search:     searchSvc,
		Browse:     browseSvc,
		Resources:  resources,
		AI:         ai,
		Topics:     topics,
		Health:     healthSvc,
		Categories: categorizer.Rules(),
		Logger:     logger,
	})
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore connects to Valkey or Redis. Both speak RESP, so one rueidis client serves either.
func openStore(ctx context.Context, cfg *config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	return store, nil
}

// buildGenerator assembles the decorator chain: OpenAI -> Instrumented (budget + metrics).
// Returns nil interfaces when no model is configured.
func buildGenerator(
	ctx context.Context,
	cfg *config.LLMConfig,
	store db.Store,
	logger *zap.Logger,
) (domain.Generator, healthuc.ProviderChecker) {
	if !cfg.Enabled() {
		return nil, nil
	}

	base := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Logger:      logger,
	})

	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker generationuc.BudgetChecker
	if cfg.Budget.DailyTokenLimit > 0 || cfg.Budget.MonthlyTokenLimit > 0 {
		action := generationuc.BudgetActionWarn
		if cfg.Budget.Action == "reject" {
			action = generationuc.BudgetActionReject
		}
		budget := generationuc.NewBudgetTracker(
			cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
		)
		if store != nil {
			budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		}
		budgetChecker = budget
	}

	return generationuc.NewInstrumentedGenerator(base, cfg.Model, budgetChecker, logger), base
}
