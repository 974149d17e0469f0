package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// rewritePrompt asks the generation model for a search-friendly expansion of
// the user's query.
const rewritePrompt = `Rewrite this question to be more search-friendly by expanding with synonyms and related terms. Keep it concise.

Question: %s

Return only the rewritten query, nothing else.`

// NoOpProcessor returns the trimmed query unchanged.
type NoOpProcessor struct{}

// Process implements QueryProcessor.
func (NoOpProcessor) Process(_ context.Context, query string) (string, error) {
	return strings.TrimSpace(query), nil
}

// RewriteProcessor expands queries through the generation model.
//
// Failure policy: catch-and-fall-back. A generation error or an empty
// rewrite result falls back to the trimmed original query with a warning;
// Process never returns an error. The policy is uniform across inputs.
type RewriteProcessor struct {
	model  GenerationModel
	logger *slog.Logger
}

// NewRewriteProcessor creates a rewrite processor backed by model.
func NewRewriteProcessor(model GenerationModel, logger *slog.Logger) *RewriteProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RewriteProcessor{model: model, logger: logger}
}

// Process implements QueryProcessor.
func (p *RewriteProcessor) Process(ctx context.Context, query string) (string, error) {
	trimmed := strings.TrimSpace(query)

	rewritten, err := p.model.Generate(ctx, fmt.Sprintf(rewritePrompt, trimmed))
	if err != nil {
		p.logger.Warn("query rewrite failed, using original query", "error", err)
		return trimmed, nil
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		p.logger.Warn("query rewrite returned empty result, using original query")
		return trimmed, nil
	}

	p.logger.Debug("query rewritten", "original", trimmed, "rewritten", rewritten)
	return rewritten, nil
}
