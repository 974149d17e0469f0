package store

import (
	"context"
	"errors"
	"testing"

	"github.com/perso-labs/ragchat/internal/knowledge"
	"github.com/perso-labs/ragchat/internal/log"
	"github.com/perso-labs/ragchat/internal/rag"
	"github.com/perso-labs/ragchat/internal/testutil"
)

// setupStore starts a pgvector container and returns a store with the
// collection created.
func setupStore(t *testing.T, dimension int) (*Postgres, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)

	s, err := NewPostgres(db.Pool, "faq_chunks", dimension, log.NewNop())
	if err != nil {
		cleanup()
		t.Fatalf("NewPostgres() = %v", err)
	}
	if err := s.CreateCollection(context.Background(), true); err != nil {
		cleanup()
		t.Fatalf("CreateCollection() = %v", err)
	}
	return s, cleanup
}

func indexFixture(t *testing.T, s *Postgres) []knowledge.Chunk {
	t.Helper()

	chunks := []knowledge.Chunk{
		{
			ID: "1", Question: "how do I pay", Answer: "by card",
			Content:  knowledge.BuildContent("how do I pay", "by card"),
			Metadata: knowledge.Metadata{Source: "faq.xlsx", RowNumber: 1, Category: "billing"},
		},
		{
			ID: "2", Question: "refund policy", Answer: "30 days",
			Content:  knowledge.BuildContent("refund policy", "30 days"),
			Metadata: knowledge.Metadata{Source: "faq.xlsx", RowNumber: 2, Category: "billing"},
		},
		{
			ID: "3", Question: "contact support", Answer: "via email",
			Content:  knowledge.BuildContent("contact support", "via email"),
			Metadata: knowledge.Metadata{Source: "faq.xlsx", RowNumber: 3, Category: "support"},
		},
	}

	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}

	if err := s.IndexDocuments(context.Background(), vectors, chunks); err != nil {
		t.Fatalf("IndexDocuments() = %v", err)
	}
	return chunks
}

func TestPostgresSearch(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()
	ctx := context.Background()

	indexFixture(t, s)

	// A query near the first vector ranks chunk 1 on top
	results, err := s.Search(ctx, []float32{0.95, 0.05, 0, 0}, 3, 0.5)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != "1" {
		t.Errorf("top result = %s, want chunk 1", results[0].ID)
	}
	if results[0].Score < 0.9 {
		t.Errorf("top score = %v, want near 1", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order: %v", results)
		}
	}
	if results[0].Question != "how do I pay" || results[0].Answer != "by card" {
		t.Errorf("payload fields lost: %+v", results[0])
	}
	if results[0].Category != "billing" {
		t.Errorf("category = %q, want billing", results[0].Category)
	}
}

func TestPostgresSearchThresholdFiltersAll(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()
	ctx := context.Background()

	indexFixture(t, s)

	// Orthogonal-ish query: best cosine score is well below 0.9
	results, err := s.Search(ctx, []float32{0.5, 0.5, 0.5, 0.5}, 3, 0.9)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty when nothing clears the threshold", results)
	}
}

func TestPostgresSearchTopKLimit(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()
	ctx := context.Background()

	indexFixture(t, s)

	results, err := s.Search(ctx, []float32{1, 1, 1, 0}, 2, 0)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want at most 2", len(results))
	}
}

func TestPostgresIndexMismatchLeavesStoreUnchanged(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()
	ctx := context.Background()

	vectors := [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}
	chunks := []knowledge.Chunk{
		{ID: "1", Question: "q", Answer: "a", Content: "c"},
		{ID: "2", Question: "q", Answer: "a", Content: "c"},
	}

	if err := s.IndexDocuments(ctx, vectors, chunks); !errors.Is(err, rag.ErrCountMismatch) {
		t.Fatalf("IndexDocuments() = %v, want ErrCountMismatch", err)
	}

	info, err := s.CollectionInfo(ctx)
	if err != nil {
		t.Fatalf("CollectionInfo() = %v", err)
	}
	if count := info["points_count"].(int64); count != 0 {
		t.Errorf("points_count = %d after failed indexing, want 0", count)
	}
}

func TestPostgresRecreateDropsPoints(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()
	ctx := context.Background()

	indexFixture(t, s)

	if err := s.CreateCollection(ctx, true); err != nil {
		t.Fatalf("CreateCollection(recreate) = %v", err)
	}
	info, err := s.CollectionInfo(ctx)
	if err != nil {
		t.Fatalf("CollectionInfo() = %v", err)
	}
	if count := info["points_count"].(int64); count != 0 {
		t.Errorf("points_count = %d after recreate, want 0", count)
	}
}

func TestPostgresHealthCheck(t *testing.T) {
	s, cleanup := setupStore(t, 4)
	defer cleanup()

	if !s.HealthCheck(context.Background()) {
		t.Error("HealthCheck() = false against a live database")
	}
}
