package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// systemInstruction grounds the generation model in the retrieved material.
const systemInstruction = `You are an AI assistant that answers questions from the product knowledge base.

Important rules:
1. Use only the provided reference materials to answer.
2. Do not guess or make up information not in the reference materials.
3. If you cannot provide an accurate answer, say "The information is not available in the provided materials."
4. Provide friendly and clear answers.
5. Use the exact expressions from the reference materials when possible.`

// historyLimit is the number of prior turns prepended to the prompt.
const historyLimit = 5

// Engine sequences one request/response cycle: query processing, retrieval,
// context formatting, generation, confidence scoring. The steps form a
// strictly ordered chain; independent requests may run concurrently since
// the engine holds no mutable state.
type Engine struct {
	retriever *Retriever
	generator GenerationModel
	logger    *slog.Logger
}

// NewEngine creates the orchestrator from its collaborators.
func NewEngine(retriever *Retriever, generator GenerationModel, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// Chat runs the pipeline for one query. The retriever's rewritten query is
// reused for search; the generation prompt carries the user's literal query.
// history is prepended verbatim, capped to the last historyLimit turns.
//
// Any capability failure is terminal for the request: no retry and no
// fabricated answer.
func (e *Engine) Chat(ctx context.Context, query string, history []Turn, topK int, scoreThreshold float32) (*Exchange, error) {
	results, effective, err := e.retriever.Retrieve(ctx, query, topK, scoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	contextBlock := FormatContext(results)
	prompt := buildPrompt(query, contextBlock, history)

	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	confidence := Confidence(results)
	e.logger.Info("chat exchange complete",
		"retrieved", len(results),
		"confidence", confidence,
	)

	return &Exchange{
		Query:          query,
		RewrittenQuery: effective,
		Retrieved:      results,
		Answer:         answer,
		Confidence:     confidence,
	}, nil
}

// buildPrompt assembles the system instruction, optional conversation
// history, the user query, and the formatted context block.
func buildPrompt(query, contextBlock string, history []Turn) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n")

	if len(history) > 0 {
		if len(history) > historyLimit {
			history = history[len(history)-historyLimit:]
		}
		b.WriteString("Previous conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question: %s\n\n%s\n\nPlease answer the question based on the above reference materials.",
		query, contextBlock)
	return b.String()
}
