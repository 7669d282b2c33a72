// Package main provides the recommend-cli operator tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/config"
	"github.com/verdora-ai/recommend-engine/internal/embedding"
	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

var cfgPath string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "recommend-cli",
		Short: "Operator tooling for the product recommendation engine",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "path to config file")

	root.AddCommand(newChatCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles everything a command needs.
type app struct {
	cfg    *config.Config
	logger *observability.Logger
	cat    *catalog.Catalog
	idx    *index.Index
	engine *retrieval.Engine
}

// loadApp builds the pipeline from config. Without an embedding API key the
// deterministic mock embedder is used, which keeps the CLI usable offline.
func loadApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:   "warn", // keep terminal output clean
		Format:  "console",
		Service: "recommend-cli",
	})

	cat, err := catalog.Load(config.ResolveRelativePath(cfgPath, cfg.Catalog.ProductsPath))
	if err != nil {
		return nil, err
	}
	vectors, err := index.LoadVectors(config.ResolveRelativePath(cfgPath, cfg.Catalog.VectorsPath))
	if err != nil {
		return nil, err
	}
	idx, err := index.Build(cat, vectors)
	if err != nil {
		return nil, err
	}

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder, err = embedding.NewClient(embedding.Config{
			APIKey:    cfg.Embedding.APIKey,
			Model:     cfg.Embedding.Model,
			BaseURL:   cfg.Embedding.BaseURL,
			Dimension: cfg.Embedding.Dimension,
			Timeout:   cfg.Embedding.Timeout,
		})
		if err != nil {
			return nil, err
		}
	} else {
		embedder = embedding.NewMockClient(idx.Dimension())
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

	return &app{cfg: cfg, logger: logger, cat: cat, idx: idx, engine: engine}, nil
}
