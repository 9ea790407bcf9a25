// Package service wires extraction, chunking, the vector store, and the
// completion client into the operations exposed by the server and the TUI.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ragserve/internal/domain"
	"ragserve/internal/extract"
	"ragserve/internal/vectorstore"
)

var (
	// ErrEmptyDocument means extraction produced no usable text.
	ErrEmptyDocument = errors.New("no text could be extracted from the document")

	// ErrNotReady means no documents have been ingested yet.
	ErrNotReady = errors.New("no documents ingested")
)

// QueryResult carries the generated answer and the chunks it was grounded on.
type QueryResult struct {
	Answer  string
	Sources []domain.SearchResult
}

// Deps collects the collaborators a Service needs. Store may be nil when the
// embedder's dimension is only known after Prepare; IngestPaths builds it then.
// Completer and Summarizer are optional.
type Deps struct {
	Chunker    domain.Chunker
	Embedder   domain.Embedder
	Extractor  *extract.Extractor
	Store      *vectorstore.Store
	Completer  domain.Completer
	Summarizer domain.Summarizer
	Logger     *zap.Logger

	MaxContextChunks    int
	SummaryMaxSentences int
}

// Service implements document ingest and retrieval-augmented query answering.
type Service struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	extractor  *extract.Extractor
	store      *vectorstore.Store
	completer  domain.Completer
	summarizer domain.Summarizer
	logger     *zap.Logger

	maxContextChunks    int
	summaryMaxSentences int
}

// New validates deps and returns a Service.
func New(deps Deps) (*Service, error) {
	if deps.Chunker == nil {
		return nil, errors.New("service: chunker is required")
	}
	if deps.Embedder == nil {
		return nil, errors.New("service: embedder is required")
	}
	if deps.Extractor == nil {
		return nil, errors.New("service: extractor is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MaxContextChunks <= 0 {
		deps.MaxContextChunks = 5
	}
	if deps.SummaryMaxSentences <= 0 {
		deps.SummaryMaxSentences = 5
	}
	return &Service{
		chunker:             deps.Chunker,
		embedder:            deps.Embedder,
		extractor:           deps.Extractor,
		store:               deps.Store,
		completer:           deps.Completer,
		summarizer:          deps.Summarizer,
		logger:              deps.Logger,
		maxContextChunks:    deps.MaxContextChunks,
		summaryMaxSentences: deps.SummaryMaxSentences,
	}, nil
}

// Upload extracts text from an uploaded document, chunks it, and indexes
// the chunks under filename.
func (s *Service) Upload(filename string, content []byte) (vectorstore.AddResult, error) {
	if s.store == nil {
		return vectorstore.AddResult{}, ErrNotReady
	}
	text, err := s.extractor.Extract(filename, content)
	if err != nil {
		return vectorstore.AddResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return vectorstore.AddResult{}, fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return vectorstore.AddResult{}, fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	res, err := s.store.AddDocuments(chunks, filename)
	if err != nil {
		return vectorstore.AddResult{}, err
	}
	s.logger.Info("document indexed",
		zap.String("filename", filename),
		zap.Int("chunks_added", res.ChunksAdded),
		zap.Int("total_vectors", res.TotalVectors),
	)
	return res, nil
}

// IngestPaths reads local files (glob patterns allowed), fits the embedder
// on their chunks, indexes everything, and returns a short summary of the
// ingested text. Used by the interactive client, where the embedder's
// dimension is unknown until it has seen the corpus.
func (s *Service) IngestPaths(paths []string) (string, error) {
	type document struct {
		name   string
		chunks []string
	}
	var (
		docs      []document
		allChunks []string
		allText   strings.Builder
	)
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			data, err := os.ReadFile(m)
			if err != nil {
				return "", err
			}
			text, err := s.extractor.Extract(m, data)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks := s.chunker.Chunk(text)
			docs = append(docs, document{name: filepath.Base(m), chunks: chunks})
			allChunks = append(allChunks, chunks...)
			allText.WriteString(text)
			allText.WriteString("\n")
		}
	}
	if len(allChunks) == 0 {
		return "", fmt.Errorf("%w: none of the given paths contained text", ErrEmptyDocument)
	}

	if err := s.embedder.Prepare(allChunks); err != nil {
		return "", err
	}
	if s.store == nil {
		store, err := vectorstore.NewStore(s.embedder, s.logger)
		if err != nil {
			return "", err
		}
		s.store = store
	}
	for _, d := range docs {
		if _, err := s.store.AddDocuments(d.chunks, d.name); err != nil {
			return "", err
		}
	}
	s.logger.Info("paths ingested",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(allChunks)),
	)

	if s.summarizer == nil {
		return "", nil
	}
	return s.summarizer.Summarize(allText.String(), s.summaryMaxSentences)
}

// Search returns the topK closest chunks without invoking the LLM.
func (s *Service) Search(query string, topK int) ([]domain.SearchResult, error) {
	if s.store == nil {
		return nil, ErrNotReady
	}
	if topK <= 0 || topK > s.maxContextChunks {
		topK = s.maxContextChunks
	}
	return s.store.Search(query, topK)
}

// Query retrieves context for the query and, when a completion client is
// configured, asks it for an answer. The client is consulted even when
// retrieval found nothing, so it can say so in its own words.
func (s *Service) Query(ctx context.Context, query string, topK int) (QueryResult, error) {
	var sources []domain.SearchResult
	if s.store != nil {
		var err error
		sources, err = s.Search(query, topK)
		if err != nil {
			return QueryResult{}, err
		}
	}
	if s.completer == nil {
		return QueryResult{Sources: sources}, nil
	}
	answer, err := s.completer.Complete(ctx, query, sources)
	if err != nil {
		return QueryResult{}, fmt.Errorf("completion: %w", err)
	}
	return QueryResult{Answer: answer, Sources: sources}, nil
}

// Reset drops every indexed vector and all chunk numbering.
func (s *Service) Reset() int {
	if s.store == nil {
		return 0
	}
	s.store.Reset()
	return s.store.TotalVectors()
}

// TotalVectors reports the current index size.
func (s *Service) TotalVectors() int {
	if s.store == nil {
		return 0
	}
	return s.store.TotalVectors()
}
