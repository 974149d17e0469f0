// Package rag implements the retrieval-augmented-generation pipeline:
// query rewriting, embedding, vector search, context assembly, answer
// generation, and confidence scoring.
//
// External systems are reached through the capability interfaces in
// capability.go; implementations are injected via constructors so the
// pipeline itself owns no I/O and no shared mutable state.
package rag
