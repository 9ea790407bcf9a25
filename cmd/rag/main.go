// Package main is the interactive terminal client entry point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragserve/internal/chunker"
	"ragserve/internal/config"
	"ragserve/internal/domain"
	"ragserve/internal/embedding"
	"ragserve/internal/extract"
	"ragserve/internal/service"
	"ragserve/internal/summarizer"
	"ragserve/internal/tokenizer"
	"ragserve/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config YAML (default: ./config.yaml, then ~/.config/ragserve/config.yaml)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: rag [--config=config.yaml] file1.txt [file2.pdf ...]")
		os.Exit(1)
	}

	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tok, err := buildTokenizer(cfg)
	if err != nil {
		log.Fatalf("tokenizer: %v", err)
	}

	// The TF-IDF embedder is fitted on the ingested files, so the store is
	// built inside IngestPaths once the dimension is known.
	svc, err := service.New(service.Deps{
		Chunker:             chunker.NewTokenChunker(tok, cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap),
		Embedder:            embedding.NewTFIDF(),
		Extractor:           extract.NewExtractor(),
		Summarizer:          summarizer.NewFrequency(),
		MaxContextChunks:    10,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	})
	if err != nil {
		log.Fatalf("service: %v", err)
	}

	summary, err := svc.IngestPaths(inputs)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	m := tui.New(svc, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
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
