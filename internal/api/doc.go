// Package api exposes the chat pipeline over HTTP/JSON.
//
// Routes:
//
//	GET  /health              liveness probe
//	GET  /ready               readiness probe (vector store connectivity)
//	GET  /api/v1/collection   collection metadata
//	POST /api/v1/chat         one question/answer exchange
//
// Health probes sit outside the middleware stack so orchestrator probes are
// never logged or CORS-filtered.
package api
