package rag

import (
	"context"

	"github.com/perso-labs/ragchat/internal/knowledge"
)

// EmbeddingModel converts text to fixed-dimension vectors. Encode is
// order-preserving: one vector per input text.
type EmbeddingModel interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// VectorStore owns the collection of indexed chunks.
//
// Search returns results ordered descending by score, at most topK entries,
// every entry scoring at least scoreThreshold. Zero qualifying matches is
// success, not failure. IndexDocuments must reject unequal vector/chunk
// counts with ErrCountMismatch and write nothing.
type VectorStore interface {
	CreateCollection(ctx context.Context, recreate bool) error
	IndexDocuments(ctx context.Context, vectors [][]float32, chunks []knowledge.Chunk) error
	Search(ctx context.Context, vector []float32, topK int, scoreThreshold float32) ([]SearchResult, error)
	CollectionInfo(ctx context.Context) (map[string]any, error)
	HealthCheck(ctx context.Context) bool
}

// GenerationModel produces text from a prompt. Temperature and token limits
// are configuration owned by whoever constructs the implementation.
type GenerationModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QueryProcessor maps a user query to the query text actually used for
// embedding and search.
type QueryProcessor interface {
	Process(ctx context.Context, query string) (string, error)
}
