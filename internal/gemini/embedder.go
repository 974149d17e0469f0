package gemini

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/perso-labs/ragchat/internal/rag"
)

// Embedder implements rag.EmbeddingModel on a Gemini embedding model.
// gemini-embedding-001 supports truncation to the configured dimension via
// OutputDimensionality (Matryoshka representation).
type Embedder struct {
	embedder  ai.Embedder
	dimension int
}

// NewEmbedder resolves the embedder registered by the googlegenai plugin.
func NewEmbedder(g *genkit.Genkit, model string, dimension int) *Embedder {
	return &Embedder{
		embedder:  googlegenai.GoogleAIEmbedder(g, model),
		dimension: dimension,
	}
}

// Encode implements rag.EmbeddingModel. Order-preserving: one vector per
// input text.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	docs := make([]*ai.Document, len(texts))
	for i, t := range texts {
		docs[i] = ai.DocumentFromText(t, nil)
	}

	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: docs,
		Options: map[string]any{
			"outputDimensionality": e.dimension,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rag.ErrEmbedding, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			rag.ErrEmbedding, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) != e.dimension {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, want %d",
				rag.ErrEmbedding, i, len(emb.Embedding), e.dimension)
		}
		vectors[i] = emb.Embedding
	}
	return vectors, nil
}

// Dimension implements rag.EmbeddingModel.
func (e *Embedder) Dimension() int { return e.dimension }
