package api

import (
	"log/slog"
	"net/http"

	"github.com/perso-labs/ragchat/internal/rag"
)

// health serves the liveness probe.
func health(version string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		}, logger)
	})
}

// readiness reports whether the vector store answers. 503 until it does.
func readiness(store rag.VectorStore, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connected := store != nil && store.HealthCheck(r.Context())

		status := http.StatusOK
		state := "ok"
		if !connected {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}

		writeJSON(w, status, map[string]any{
			"status":          state,
			"store_connected": connected,
		}, logger)
	})
}

// collectionHandler serves GET /api/v1/collection.
type collectionHandler struct {
	store  rag.VectorStore
	logger *slog.Logger
}

func (h *collectionHandler) info(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.CollectionInfo(r.Context())
	if err != nil {
		h.logger.Error("collection info failed", "error", err)
		writeError(w, http.StatusBadGateway, "collection_unavailable", "failed to read collection info", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, info, h.logger)
}
