package rag

import "errors"

// Capability failure sentinels. Adapters wrap the underlying cause with
// fmt.Errorf("%w: %w", ...) so callers can branch with errors.Is while
// keeping the full chain.
var (
	// ErrEmbedding indicates the embedding capability failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrVectorStore indicates the vector store is unreachable or a
	// store operation failed.
	ErrVectorStore = errors.New("vector store failure")

	// ErrGeneration indicates the generation capability failed. Terminal
	// for the request: no retry, no fabricated fallback answer.
	ErrGeneration = errors.New("generation failed")

	// ErrCountMismatch indicates IndexDocuments was called with unequal
	// vector and chunk counts. Nothing is written.
	ErrCountMismatch = errors.New("vector/chunk count mismatch")
)
