package rag

import (
	"context"
	"fmt"
	"log/slog"
)

// Retriever composes query processing, embedding, and vector search into a
// ranked, thresholded result set.
type Retriever struct {
	processor QueryProcessor
	embedder  EmbeddingModel
	store     VectorStore
	logger    *slog.Logger
}

// NewRetriever creates a retriever from its three capabilities.
func NewRetriever(processor QueryProcessor, embedder EmbeddingModel, store VectorStore, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		processor: processor,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

// Retrieve processes the query, embeds the effective query, and searches the
// store. Returns the results and the effective query actually used.
//
// An empty result set is success. Only a capability failure (embedding or
// store unreachable) is an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, scoreThreshold float32) ([]SearchResult, string, error) {
	effective, err := r.processor.Process(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("processing query: %w", err)
	}

	vectors, err := r.embedder.Encode(ctx, []string{effective})
	if err != nil {
		return nil, effective, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, effective, fmt.Errorf("%w: got %d vectors for 1 text", ErrEmbedding, len(vectors))
	}

	results, err := r.store.Search(ctx, vectors[0], topK, scoreThreshold)
	if err != nil {
		return nil, effective, fmt.Errorf("searching collection: %w", err)
	}

	r.logger.Debug("retrieval complete",
		"effective_query", effective,
		"results", len(results),
		"top_k", topK,
		"threshold", scoreThreshold,
	)
	return results, effective, nil
}
