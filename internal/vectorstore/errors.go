package vectorstore

import "errors"

var (
	// ErrConfiguration indicates the store cannot be constructed, usually
	// because the embedding dimension is unknown or invalid.
	ErrConfiguration = errors.New("vectorstore: invalid configuration")

	// ErrEmbeddingMismatch indicates the embedding provider returned a
	// different number of vectors than texts submitted. The batch is
	// rejected and the store left unchanged.
	ErrEmbeddingMismatch = errors.New("vectorstore: embedding count mismatch")

	// ErrDimensionMismatch indicates a vector's width differs from the
	// store's fixed dimension.
	ErrDimensionMismatch = errors.New("vectorstore: vector dimension mismatch")
)
