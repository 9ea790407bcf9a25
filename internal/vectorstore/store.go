// Package vectorstore implements the in-memory retrieval engine: a flat
// vector index, per-chunk metadata, and the store that binds them behind
// one lock.
package vectorstore

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ragserve/internal/domain"
)

// AddResult reports the outcome of an AddDocuments call.
type AddResult struct {
	ChunksAdded  int
	TotalVectors int
}

// Store turns chunk batches into embeddings, inserts them into the index
// and metadata together, and answers ranked similarity queries.
//
// A batch is committed atomically: embeddings are validated (count and
// width) before any mutation, so a rejected batch leaves the store
// byte-for-byte unchanged and never advances the id counter. Embedding
// computation runs outside the lock; only the commit and the index scan
// hold it.
type Store struct {
	mu       sync.RWMutex
	dim      int
	index    Index
	meta     *MetadataStore
	embedder domain.Embedder
	logger   *zap.Logger
}

// NewStore creates a store fixed to the embedder's dimension. The
// dimension must be known at construction; otherwise ErrConfiguration.
func NewStore(embedder domain.Embedder, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrConfiguration)
	}
	dim := embedder.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedder %q reports dimension %d", ErrConfiguration, embedder.Name(), dim)
	}
	index, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dim:      dim,
		index:    index,
		meta:     NewMetadataStore(),
		embedder: embedder,
		logger:   logger,
	}, nil
}

// Dimension returns the fixed embedding width of the store.
func (s *Store) Dimension() int {
	return s.dim
}

// AddDocuments embeds chunks in one batch call and inserts them under
// documentName. Chunk i of the batch gets id block[i] and chunk-number
// block[i]. An empty batch is a no-op, not an error.
func (s *Store) AddDocuments(chunks []string, documentName string) (AddResult, error) {
	if len(chunks) == 0 {
		return AddResult{ChunksAdded: 0, TotalVectors: s.TotalVectors()}, nil
	}

	// Embedding is the slow part; keep it outside the exclusive section.
	vectors, err := s.embedder.Encode(chunks)
	if err != nil {
		return AddResult{}, fmt.Errorf("embed %d chunks from %q: %w", len(chunks), documentName, err)
	}
	if len(vectors) != len(chunks) {
		return AddResult{}, fmt.Errorf("%w: %d chunks, %d embeddings", ErrEmbeddingMismatch, len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != s.dim {
			return AddResult{}, fmt.Errorf("%w: embedding %d has width %d, store dimension is %d",
				ErrDimensionMismatch, i, len(v), s.dim)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.index.Add(vectors)
	if err != nil {
		return AddResult{}, err
	}
	start := s.meta.Reserve(documentName, len(chunks))
	for i, id := range ids {
		if err := s.meta.Record(id, ChunkMetadata{
			DocumentName: documentName,
			ChunkNumber:  start + i,
			Text:         chunks[i],
		}); err != nil {
			return AddResult{}, err
		}
	}
	s.logger.Debug("chunks indexed",
		zap.String("document", documentName),
		zap.Int("chunks", len(chunks)),
		zap.Int("total_vectors", s.index.Count()),
	)
	return AddResult{ChunksAdded: len(chunks), TotalVectors: s.index.Count()}, nil
}

// Search embeds queryText once and returns up to k results ordered by
// ascending score (squared Euclidean distance). An empty store returns no
// results without invoking the embedding provider.
func (s *Store) Search(queryText string, k int) ([]domain.SearchResult, error) {
	if s.TotalVectors() == 0 {
		return nil, nil
	}
	vectors, err := s.embedder.Encode([]string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: 1 query, %d embeddings", ErrEmbeddingMismatch, len(vectors))
	}
	query := vectors[0]
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query embedding has width %d, store dimension is %d",
			ErrDimensionMismatch, len(query), s.dim)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := s.index.Count(); k > n {
		k = n
	}
	hits, err := s.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		meta, ok := s.meta.Get(h.ID)
		if !ok {
			// Every indexed id gets metadata in the same critical section,
			// so a miss is a data-structure bug. Drop the hit instead of
			// failing the query.
			s.logger.Error("vector id missing from metadata", zap.Int("id", h.ID))
			continue
		}
		results = append(results, domain.SearchResult{
			DocumentName: meta.DocumentName,
			ChunkNumber:  meta.ChunkNumber,
			Text:         meta.Text,
			Score:        h.Distance,
		})
	}
	return results, nil
}

// Reset clears the index and metadata as one operation; no caller can
// observe one cleared and the other not.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Reset()
	s.meta.Reset()
	s.logger.Info("store reset")
}

// TotalVectors returns the current vector count.
func (s *Store) TotalVectors() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Count()
}
