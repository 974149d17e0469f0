package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/perso-labs/ragchat/internal/log"
)

func newTestEngine(store VectorStore, gen GenerationModel) *Engine {
	retriever := NewRetriever(NoOpProcessor{}, &stubEmbedder{vector: []float32{1, 0}}, store, log.NewNop())
	return NewEngine(retriever, gen, log.NewNop())
}

func TestChat(t *testing.T) {
	store := &stubStore{results: []SearchResult{
		{ID: "1", Score: 0.9, Question: "q1", Answer: "a1"},
		{ID: "2", Score: 0.75, Question: "q2", Answer: "a2"},
		{ID: "3", Score: 0.6, Question: "q3", Answer: "a3"},
	}}
	gen := &stubGenerator{reply: "the answer"}
	e := newTestEngine(store, gen)

	ex, err := e.Chat(context.Background(), "how does it work", nil, 3, 0.5)
	if err != nil {
		t.Fatalf("Chat() = %v", err)
	}

	if ex.Answer != "the answer" {
		t.Errorf("answer = %q", ex.Answer)
	}
	if ex.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", ex.Confidence)
	}
	if ex.RewrittenQuery != "how does it work" {
		t.Errorf("rewritten query = %q", ex.RewrittenQuery)
	}
	if len(ex.Retrieved) != 3 {
		t.Errorf("retrieved = %d results, want 3", len(ex.Retrieved))
	}

	// Prompt carries the literal query, the instruction, and the context
	if !strings.Contains(gen.lastPrompt, "Question: how does it work") {
		t.Errorf("prompt missing query:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "reference materials") {
		t.Errorf("prompt missing system instruction:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "[Reference 1]") {
		t.Errorf("prompt missing context block:\n%s", gen.lastPrompt)
	}
}

func TestChatEmptyRetrievalStillGenerates(t *testing.T) {
	gen := &stubGenerator{reply: "no info available"}
	e := newTestEngine(&stubStore{}, gen)

	ex, err := e.Chat(context.Background(), "unknown topic", nil, 3, 0.9)
	if err != nil {
		t.Fatalf("Chat() = %v", err)
	}
	if ex.Confidence != 0 {
		t.Errorf("confidence = %v, want 0 for empty retrieval", ex.Confidence)
	}
	if !strings.Contains(gen.lastPrompt, NoContextFound) {
		t.Errorf("prompt missing no-context sentinel:\n%s", gen.lastPrompt)
	}
}

func TestChatGenerationFailureIsTerminal(t *testing.T) {
	cause := fmt.Errorf("%w: model overloaded", ErrGeneration)
	e := newTestEngine(&stubStore{}, &stubGenerator{err: cause})

	ex, err := e.Chat(context.Background(), "q", nil, 3, 0.5)
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("Chat() = %v, want ErrGeneration", err)
	}
	if ex != nil {
		t.Errorf("exchange = %+v, want nil on generation failure", ex)
	}
}

func TestChatRetrievalFailureIsTerminal(t *testing.T) {
	store := &stubStore{err: fmt.Errorf("%w: down", ErrVectorStore)}
	gen := &stubGenerator{reply: "unused"}
	e := newTestEngine(store, gen)

	if _, err := e.Chat(context.Background(), "q", nil, 3, 0.5); !errors.Is(err, ErrVectorStore) {
		t.Errorf("Chat() = %v, want ErrVectorStore", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times after retrieval failure, want 0", gen.calls)
	}
}

func TestChatHistoryInPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	e := newTestEngine(&stubStore{}, gen)

	history := []Turn{
		{Role: "user", Content: "turn-1"},
		{Role: "assistant", Content: "turn-2"},
		{Role: "user", Content: "turn-3"},
		{Role: "assistant", Content: "turn-4"},
		{Role: "user", Content: "turn-5"},
		{Role: "assistant", Content: "turn-6"},
		{Role: "user", Content: "turn-7"},
	}

	if _, err := e.Chat(context.Background(), "q", history, 3, 0.5); err != nil {
		t.Fatalf("Chat() = %v", err)
	}

	if !strings.Contains(gen.lastPrompt, "Previous conversation:") {
		t.Fatalf("prompt missing history heading:\n%s", gen.lastPrompt)
	}
	// Only the last five turns survive
	if strings.Contains(gen.lastPrompt, "turn-1") || strings.Contains(gen.lastPrompt, "turn-2") {
		t.Errorf("prompt carries turns beyond the limit:\n%s", gen.lastPrompt)
	}
	for _, want := range []string{"user: turn-3", "assistant: turn-6", "user: turn-7"} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.lastPrompt)
		}
	}
}

func TestChatNoHistoryNoHeading(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	e := newTestEngine(&stubStore{}, gen)

	if _, err := e.Chat(context.Background(), "q", nil, 3, 0.5); err != nil {
		t.Fatalf("Chat() = %v", err)
	}
	if strings.Contains(gen.lastPrompt, "Previous conversation:") {
		t.Errorf("prompt has history heading without history:\n%s", gen.lastPrompt)
	}
}
