// Package testutil provides shared testing utilities for the ragchat
// project: deterministic capability fakes and a PostgreSQL test container.
package testutil

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/perso-labs/ragchat/internal/knowledge"
	"github.com/perso-labs/ragchat/internal/rag"
)

// StaticEmbedder maps each distinct text to a stable unit vector derived
// from its SHA-256 digest. Identical text always yields the identical
// vector, distinct texts yield near-orthogonal ones.
type StaticEmbedder struct {
	dimension int

	mu    sync.Mutex
	Calls int
}

// NewStaticEmbedder creates a deterministic embedder of the given dimension.
func NewStaticEmbedder(dimension int) *StaticEmbedder {
	return &StaticEmbedder{dimension: dimension}
}

// Encode implements rag.EmbeddingModel.
func (e *StaticEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.Calls++
	e.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t, e.dimension)
	}
	return out, nil
}

// Dimension implements rag.EmbeddingModel.
func (e *StaticEmbedder) Dimension() int { return e.dimension }

func embedText(text string, dim int) []float32 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	for i := range vec {
		b := digest[(i*7)%len(digest)] ^ byte(i)
		vec[i] = float32(b)/255 - 0.5
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// StaticGenerator is a scripted rag.GenerationModel.
type StaticGenerator struct {
	Reply string
	Err   error

	mu         sync.Mutex
	Calls      int
	LastPrompt string
}

// Generate implements rag.GenerationModel.
func (g *StaticGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	g.LastPrompt = prompt
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

type memoryPoint struct {
	vector []float32
	chunk  knowledge.Chunk
}

// MemoryStore is an in-memory rag.VectorStore using cosine similarity.
// It honors the same contracts as the PostgreSQL store: descending order,
// top-k and threshold enforcement, count-mismatch rejection.
type MemoryStore struct {
	mu      sync.Mutex
	created bool
	points  []memoryPoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// CreateCollection implements rag.VectorStore.
func (s *MemoryStore) CreateCollection(_ context.Context, recreate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recreate {
		s.points = nil
	}
	s.created = true
	return nil
}

// IndexDocuments implements rag.VectorStore.
func (s *MemoryStore) IndexDocuments(_ context.Context, vectors [][]float32, chunks []knowledge.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors, %d chunks", rag.ErrCountMismatch, len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range vectors {
		s.points = append(s.points, memoryPoint{vector: vectors[i], chunk: chunks[i]})
	}
	return nil
}

// Search implements rag.VectorStore.
func (s *MemoryStore) Search(_ context.Context, vector []float32, topK int, scoreThreshold float32) ([]rag.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []rag.SearchResult
	for _, p := range s.points {
		score := cosine(vector, p.vector)
		if score < scoreThreshold {
			continue
		}
		results = append(results, rag.SearchResult{
			ID:       p.chunk.ID,
			Score:    score,
			Question: p.chunk.Question,
			Answer:   p.chunk.Answer,
			Category: p.chunk.Metadata.Category,
			Content:  p.chunk.Content,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// CollectionInfo implements rag.VectorStore.
func (s *MemoryStore) CollectionInfo(context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"name":         "memory",
		"points_count": len(s.points),
		"status":       "green",
	}, nil
}

// HealthCheck implements rag.VectorStore.
func (s *MemoryStore) HealthCheck(context.Context) bool { return true }

// Len reports the number of indexed points.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
