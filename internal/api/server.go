package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/perso-labs/ragchat/internal/rag"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger         *slog.Logger
	Engine         *rag.Engine     // Required
	Store          rag.VectorStore // Required: backs /ready and /api/v1/collection
	TopK           int
	ScoreThreshold float32
	CORSOrigins    []string
	Version        string
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("vector store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{
		engine:         cfg.Engine,
		topK:           cfg.TopK,
		scoreThreshold: cfg.ScoreThreshold,
		logger:         logger,
	}
	coll := &collectionHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/chat", ch.send)
	mux.HandleFunc("GET /api/v1/collection", coll.info)

	// Middleware stack, outermost first: Recovery → Logging → CORS
	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Top-level mux keeps health probes outside the middleware stack
	topMux := http.NewServeMux()
	topMux.Handle("GET /health", health(cfg.Version, logger))
	topMux.Handle("GET /ready", readiness(cfg.Store, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
