package rag

import (
	"context"

	"github.com/perso-labs/ragchat/internal/knowledge"
)

// stubGenerator is a scripted GenerationModel.
type stubGenerator struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// stubEmbedder returns canned vectors.
type stubEmbedder struct {
	vector    []float32
	err       error
	lastTexts []string
}

func (e *stubEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	e.lastTexts = texts
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return len(e.vector) }

// stubStore records search arguments and returns canned results.
type stubStore struct {
	results       []SearchResult
	err           error
	lastVector    []float32
	lastTopK      int
	lastThreshold float32
}

func (s *stubStore) CreateCollection(context.Context, bool) error { return nil }

func (s *stubStore) IndexDocuments(context.Context, [][]float32, []knowledge.Chunk) error {
	return nil
}

func (s *stubStore) Search(_ context.Context, vector []float32, topK int, threshold float32) ([]SearchResult, error) {
	s.lastVector = vector
	s.lastTopK = topK
	s.lastThreshold = threshold
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubStore) CollectionInfo(context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

func (s *stubStore) HealthCheck(context.Context) bool { return true }
