package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/perso-labs/ragchat/internal/rag"
)

// maxChatBodyBytes bounds the request body size.
const maxChatBodyBytes = 1 << 20 // 1 MB

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []chatMessage `json:"conversation_history"`
}

type retrievedChunk struct {
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type chatResponse struct {
	Answer          string           `json:"answer"`
	RetrievedChunks []retrievedChunk `json:"retrieved_chunks"`
	Confidence      float64          `json:"confidence"`
	RewrittenQuery  string           `json:"rewritten_query"`
}

// chatHandler serves POST /api/v1/chat.
type chatHandler struct {
	engine         *rag.Engine
	topK           int
	scoreThreshold float32
	logger         *slog.Logger
}

func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", h.logger)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "message must not be empty", h.logger)
		return
	}

	history := make([]rag.Turn, 0, len(req.ConversationHistory))
	for _, m := range req.ConversationHistory {
		history = append(history, rag.Turn{Role: m.Role, Content: m.Content})
	}

	ex, err := h.engine.Chat(r.Context(), message, history, h.topK, h.scoreThreshold)
	if err != nil {
		status, code := classifyChatError(err)
		h.logger.Error("chat request failed", "error", err, "code", code)
		writeError(w, status, code, "failed to answer the question", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, toChatResponse(ex), h.logger)
}

// classifyChatError maps capability failures to upstream errors and
// everything else to an internal error.
func classifyChatError(err error) (status int, code string) {
	switch {
	case errors.Is(err, rag.ErrEmbedding):
		return http.StatusBadGateway, "embedding_failed"
	case errors.Is(err, rag.ErrVectorStore):
		return http.StatusBadGateway, "search_failed"
	case errors.Is(err, rag.ErrGeneration):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// toChatResponse projects an exchange onto the wire shape. Chunk content on
// the wire is the answer text; the metadata subset carries the matched
// question and its category.
func toChatResponse(ex *rag.Exchange) chatResponse {
	chunks := make([]retrievedChunk, 0, len(ex.Retrieved))
	for _, r := range ex.Retrieved {
		chunks = append(chunks, retrievedChunk{
			Content: r.Answer,
			Score:   r.Score,
			Metadata: map[string]string{
				"question": r.Question,
				"category": r.Category,
			},
		})
	}

	return chatResponse{
		Answer:          ex.Answer,
		RetrievedChunks: chunks,
		Confidence:      ex.Confidence,
		RewrittenQuery:  ex.RewrittenQuery,
	}
}
