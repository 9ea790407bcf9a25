// Package main is the ragserve HTTP server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragserve/internal/chunker"
	"ragserve/internal/config"
	"ragserve/internal/domain"
	"ragserve/internal/embedding"
	"ragserve/internal/extract"
	"ragserve/internal/llm"
	"ragserve/internal/logging"
	"ragserve/internal/server"
	"ragserve/internal/service"
	"ragserve/internal/tokenizer"
	"ragserve/internal/vectorstore"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Optional .env for API keys; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Debug || *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	tok, err := buildTokenizer(cfg)
	if err != nil {
		logger.Fatal("tokenizer", zap.Error(err))
	}
	emb, err := buildEmbedder(cfg, logger)
	if err != nil {
		logger.Fatal("embedder", zap.Error(err))
	}
	store, err := vectorstore.NewStore(emb, logger)
	if err != nil {
		logger.Fatal("vector store", zap.Error(err))
	}

	var completer domain.Completer
	if os.Getenv(cfg.LLM.APIKeyEnv) != "" {
		completer, err = llm.NewOpenRouterClient(llm.Config{
			BaseURL:   cfg.LLM.BaseURL,
			APIKeyEnv: cfg.LLM.APIKeyEnv,
			Model:     cfg.LLM.Model,
			Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Fatal("llm client", zap.Error(err))
		}
	} else {
		logger.Warn("no LLM API key set; queries will return sources without an answer",
			zap.String("env", cfg.LLM.APIKeyEnv))
	}

	svc, err := service.New(service.Deps{
		Chunker:          chunker.NewTokenChunker(tok, cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap),
		Embedder:         emb,
		Extractor:        extract.NewExtractor(),
		Store:            store,
		Completer:        completer,
		Logger:           logger,
		MaxContextChunks: cfg.Retrieval.MaxContextChunks,
	})
	if err != nil {
		logger.Fatal("service", zap.Error(err))
	}

	srv := server.NewServer(svc, &cfg.Server, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}
}

func buildTokenizer(cfg *config.AppConfig) (domain.Tokenizer, error) {
	switch cfg.Tokenizer.Type {
	case "tiktoken", "":
		return tokenizer.NewTiktoken(cfg.Tokenizer.Encoding)
	case "words":
		return tokenizer.NewWords(), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer: %s", cfg.Tokenizer.Type)
	}
}

// buildEmbedder returns an embedder whose dimension is known before any
// document arrives. The store's width is fixed at construction, so a remote
// embedder with no configured dimension is probed with one request.
func buildEmbedder(cfg *config.AppConfig, logger *zap.Logger) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai":
		ocfg := embedding.OpenAIConfig{Dimensions: cfg.Embedder.Dimensions}
		if o := cfg.Embedder.OpenAI; o != nil {
			ocfg.BaseURL = o.BaseURL
			ocfg.APIKeyEnv = o.APIKeyEnv
			ocfg.Model = o.Model
			ocfg.Timeout = time.Duration(o.TimeoutSecs) * time.Second
		}
		if ocfg.APIKeyEnv == "" {
			ocfg.APIKeyEnv = "OPENAI_API_KEY"
		}
		client, err := embedding.NewOpenAIClient(ocfg)
		if err != nil {
			return nil, err
		}
		if client.Dimension() == 0 {
			if _, err := client.Encode([]string{"dimension probe"}); err != nil {
				return nil, fmt.Errorf("probe embedding dimension: %w", err)
			}
			logger.Info("embedding dimension probed", zap.Int("dimension", client.Dimension()))
		}
		return client, nil
	case "tfidf", "":
		return nil, fmt.Errorf("embedder %q needs a fitted corpus and cannot serve uploads; configure an openai embedder", cfg.Embedder.Type)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}
