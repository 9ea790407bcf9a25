package domain

import "context"

// SearchResult is one retrieved chunk with its similarity score.
// Score is a squared Euclidean distance: smaller means more similar.
type SearchResult struct {
	DocumentName string
	ChunkNumber  int
	Text         string
	Score        float64
}

// Tokenizer converts text to an ordered token sequence and back.
// The round trip is not guaranteed to be byte-identical.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Embedder converts batches of text into fixed-dimension vectors, one row
// per input, preserving order. Implementations may require a preparation
// phase over the corpus before Dimension is known.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Encode(texts []string) ([][]float32, error)
}

// Chunker splits raw text into ordered, bounded chunks for indexing.
type Chunker interface {
	Chunk(text string) []string
}

// Completer answers a query using retrieved chunks as grounding context.
type Completer interface {
	Complete(ctx context.Context, query string, sources []SearchResult) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
