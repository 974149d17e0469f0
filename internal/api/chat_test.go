package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/perso-labs/ragchat/internal/knowledge"
	"github.com/perso-labs/ragchat/internal/log"
	"github.com/perso-labs/ragchat/internal/rag"
	"github.com/perso-labs/ragchat/internal/testutil"
)

// newTestServer builds a server over in-memory capabilities with one chunk
// indexed.
func newTestServer(t *testing.T, gen *testutil.StaticGenerator) *Server {
	t.Helper()
	ctx := context.Background()

	embedder := testutil.NewStaticEmbedder(8)
	store := testutil.NewMemoryStore()

	chunk := knowledge.Chunk{
		ID: "1", Question: "how do I pay", Answer: "by card",
		Content:  knowledge.BuildContent("how do I pay", "by card"),
		Metadata: knowledge.Metadata{Source: "faq.xlsx", RowNumber: 1, Category: "billing"},
	}
	vectors, err := embedder.Encode(ctx, []string{chunk.Content})
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if err := store.IndexDocuments(ctx, vectors, []knowledge.Chunk{chunk}); err != nil {
		t.Fatalf("IndexDocuments() = %v", err)
	}

	retriever := rag.NewRetriever(rag.NoOpProcessor{}, embedder, store, log.NewNop())
	engine := rag.NewEngine(retriever, gen, log.NewNop())

	srv, err := NewServer(ServerConfig{
		Logger:         log.NewNop(),
		Engine:         engine,
		Store:          store,
		TopK:           3,
		ScoreThreshold: 0.5,
		Version:        "test",
	})
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	return srv
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	gen := &testutil.StaticGenerator{Reply: "You can pay by card."}
	srv := newTestServer(t, gen)

	rec := postChat(t, srv, `{"message":"Question: how do I pay\nAnswer: by card"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Answer          string `json:"answer"`
		RetrievedChunks []struct {
			Content  string            `json:"content"`
			Score    float32           `json:"score"`
			Metadata map[string]string `json:"metadata"`
		} `json:"retrieved_chunks"`
		Confidence     float64 `json:"confidence"`
		RewrittenQuery string  `json:"rewritten_query"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Answer != "You can pay by card." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.RetrievedChunks) != 1 {
		t.Fatalf("retrieved_chunks = %d, want 1", len(resp.RetrievedChunks))
	}
	// Wire content is the answer text, not the embedded content
	if resp.RetrievedChunks[0].Content != "by card" {
		t.Errorf("chunk content = %q, want answer text", resp.RetrievedChunks[0].Content)
	}
	if resp.RetrievedChunks[0].Metadata["question"] != "how do I pay" {
		t.Errorf("metadata = %v", resp.RetrievedChunks[0].Metadata)
	}
	if resp.RetrievedChunks[0].Metadata["category"] != "billing" {
		t.Errorf("metadata = %v", resp.RetrievedChunks[0].Metadata)
	}
	if resp.Confidence <= 0 || resp.Confidence > 1 {
		t.Errorf("confidence = %v", resp.Confidence)
	}
	if resp.RewrittenQuery == "" {
		t.Error("rewritten_query missing")
	}
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	srv := newTestServer(t, &testutil.StaticGenerator{Reply: "unused"})

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":""}`},
		{"whitespace message", `{"message":"   "}`},
		{"missing message", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, srv, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "invalid_request") {
				t.Errorf("body = %s, want invalid_request code", rec.Body.String())
			}
		})
	}
}

func TestChatEndpointMalformedJSON(t *testing.T) {
	srv := newTestServer(t, &testutil.StaticGenerator{Reply: "unused"})

	rec := postChat(t, srv, `{"message":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatEndpointGenerationFailure(t *testing.T) {
	gen := &testutil.StaticGenerator{Err: rag.ErrGeneration}
	srv := newTestServer(t, gen)

	rec := postChat(t, srv, `{"message":"anything"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "generation_failed") {
		t.Errorf("body = %s, want generation_failed code", rec.Body.String())
	}
}

func TestChatEndpointHistoryForwarded(t *testing.T) {
	gen := &testutil.StaticGenerator{Reply: "ok"}
	srv := newTestServer(t, gen)

	body := `{"message":"and refunds?","conversation_history":[{"role":"user","content":"how do I pay"},{"role":"assistant","content":"by card"}]}`
	rec := postChat(t, srv, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(gen.LastPrompt, "user: how do I pay") {
		t.Errorf("prompt missing history:\n%s", gen.LastPrompt)
	}
}

func TestChatEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &testutil.StaticGenerator{Reply: "unused"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
