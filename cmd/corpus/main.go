// Command corpus loads reference documents from a YAML file, embeds them
// with the configured embedding model and stores them for retrieval.
//
// Usage:
//
//	corpus --file corpus.yaml [--category sleep] [--config config.yaml] [--dry-run]
//
// Documents whose id is already stored are skipped, so the command can be
// re-run after adding entries. Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/heartmarshall/dualtrack-backend/internal/adapter/embedcache"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/ollama"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/documents"
	"github.com/heartmarshall/dualtrack-backend/internal/adapter/postgres/llmruns"
	"github.com/heartmarshall/dualtrack-backend/internal/app"
	"github.com/heartmarshall/dualtrack-backend/internal/config"
	"github.com/heartmarshall/dualtrack-backend/internal/corpus"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
	"github.com/heartmarshall/dualtrack-backend/internal/service/retrieval"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "corpus: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		filePath   string
		category   string
		dryRun     bool
		timeout    time.Duration
	)

	flags := pflag.NewFlagSet("corpus", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to YAML config (default: CONFIG_PATH or ./config.yaml)")
	flags.StringVarP(&filePath, "file", "f", "", "corpus YAML file (required)")
	flags.StringVarP(&category, "category", "c", "", "load only documents of this category")
	flags.BoolVar(&dryRun, "dry-run", false, "parse and validate the file without embedding or storing")
	flags.DurationVar(&timeout, "timeout", 30*time.Minute, "overall deadline")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if filePath == "" {
		flags.Usage()
		return fmt.Errorf("--file is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	docs, err := corpus.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	docs = corpus.Filter(docs, category)

	if dryRun {
		fmt.Printf("%d documents parsed from %s\n", len(docs), filePath)
		return nil
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	client := ollama.NewClient(logger, ollama.Config{
		BaseURL:        cfg.Inference.OllamaBaseURL,
		RequestTimeout: cfg.Inference.RequestTimeout,
		ConnectTimeout: cfg.Inference.ConnectTimeout,
	}, llmruns.New(pool))

	var gateway *retrieval.Gateway
	if cfg.Retrieval.EmbedCachePath != "" {
		cache, err := embedcache.Open(cfg.Retrieval.EmbedCachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		gateway = retrieval.NewGateway(logger, client, cache, cfg.Inference.EmbedModel)
	} else {
		gateway = retrieval.NewGateway(logger, client, nil, cfg.Inference.EmbedModel)
	}

	failures := ledger.NewService(logger, audit.New(pool), cfg.Governance.LedgerWriteTimeout)
	engine := retrieval.NewEngine(logger, retrieval.NewBruteForceIndex(), gateway, documents.New(pool), failures, retrieval.Config{
		DefaultTopK:   cfg.Retrieval.DefaultTopK,
		SnippetLength: cfg.Retrieval.SnippetLength,
		RetryBackoff:  cfg.Retrieval.RetryBackoff,
	})

	start := time.Now()
	res, err := corpus.Load(ctx, logger, engine, docs)
	logger.Info("corpus load finished",
		slog.String("file", filePath),
		slog.Int("indexed", res.Indexed),
		slog.Int("skipped", res.Skipped),
		slog.Duration("took", time.Since(start)),
	)
	return err
}
