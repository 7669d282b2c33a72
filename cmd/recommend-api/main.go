// Package main provides the recommendation API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/verdora-ai/recommend-engine/internal/analytics"
	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/config"
	"github.com/verdora-ai/recommend-engine/internal/dialog"
	"github.com/verdora-ai/recommend-engine/internal/embedding"
	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
	"github.com/verdora-ai/recommend-engine/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:   cfg.Observability.LogLevel,
		Format:  cfg.Observability.LogFormat,
		Service: "recommend-api",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("catalog", cfg.Catalog.ProductsPath).
		Str("session_driver", cfg.Session.Driver).
		Msg("Starting recommendation API")

	// Catalog and vectors are the ground truth; a broken feed is fatal.
	cat, err := catalog.Load(config.ResolveRelativePath(cfgPath, cfg.Catalog.ProductsPath))
	if err != nil {
		logger.Fatal().Err(err).Msg("Catalog load failed")
	}
	vectors, err := index.LoadVectors(config.ResolveRelativePath(cfgPath, cfg.Catalog.VectorsPath))
	if err != nil {
		logger.Fatal().Err(err).Msg("Vector load failed")
	}
	idx, err := index.Build(cat, vectors)
	if err != nil {
		logger.Fatal().Err(err).Msg("Index build failed")
	}
	logger.Info().
		Int("products", idx.Len()).
		Int("dimension", idx.Dimension()).
		Str("model", idx.Model()).
		Msg("Semantic index ready")

	embedder, err := embedding.NewClient(embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Embedding client init failed")
	}

	var generator dialog.Generator
	if cfg.Dialog.APIKey != "" {
		generator, err = dialog.NewClient(dialog.Config{
			BaseURL:     cfg.Dialog.BaseURL,
			APIKey:      cfg.Dialog.APIKey,
			Model:       cfg.Dialog.Model,
			MaxTokens:   cfg.Dialog.MaxTokens,
			Temperature: cfg.Dialog.Temperature,
			Timeout:     cfg.Dialog.Timeout,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Dialog client init failed")
		}
	} else {
		logger.Warn().Msg("No dialog API key; /chat returns ranked products without generated text")
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Session store init failed")
	}
	defer sessions.Close()

	var tracker *analytics.Tracker
	if cfg.Analytics.Enabled {
		driver := cfg.Analytics.Driver
		if driver == "sqlite" {
			driver = "sqlite3"
		}
		db, err := analytics.Open(context.Background(), driver, cfg.AnalyticsDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("Analytics store init failed")
		}
		defer db.Close()
		tracker = analytics.NewTracker(db, logger)
	}

	engine := retrieval.NewEngine(retrieval.EngineConfig{
		Extractor: extract.NewExtractor(cfg.Retrieval.RecentWindow, cfg.Retrieval.ContextWindow),
		Retriever: retrieval.NewRetriever(idx, embedder, logger, cfg.Retrieval.TopK),
		Reranker: retrieval.NewReranker(retrieval.Weights{
			AccessorySuppression: cfg.Rerank.AccessorySuppression,
			CapacityBoost:        cfg.Rerank.CapacityBoost,
			CapacitySlack:        cfg.Rerank.CapacitySlack,
			BudgetBoost:          cfg.Rerank.BudgetBoost,
		}),
		Resolver:     retrieval.NewResolver(idx, cfg.Rerank.ComparisonScore, logger),
		Logger:       logger,
		DisplayLimit: cfg.Retrieval.DisplayLimit,
		ShowAllLimit: cfg.Retrieval.ShowAllLimit,
	})

	router := NewRouter(logger, cfg, &Services{
		Engine:    engine,
		Index:     idx,
		Generator: generator,
		Sessions:  sessions,
		Tracker:   tracker,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Session.Driver == "redis" {
		return session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
			PoolSize: cfg.Session.Redis.PoolSize,
			TTL:      cfg.Session.TTL,
		})
	}
	return session.NewMemoryStore(cfg.Session.TTL, cfg.Session.MaxEntries), nil
}
