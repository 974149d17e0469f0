// Package app wires configuration, storage, and model capabilities into a
// running application. Setup is the composition root; everything else takes
// its collaborators through constructors.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/perso-labs/ragchat/internal/config"
	"github.com/perso-labs/ragchat/internal/rag"
	"github.com/perso-labs/ragchat/internal/store"
)

// App holds the initialized application components.
type App struct {
	Config *config.Config
	Genkit *genkit.Genkit
	Pool   *pgxpool.Pool

	Embedder rag.EmbeddingModel
	Store    *store.Postgres
	Engine   *rag.Engine

	logger      *slog.Logger
	otelCleanup func()
	dbCleanup   func()
}

// Close releases all resources held by the application. Safe to call on a
// partially initialized App; cleanup runs in reverse initialization order.
func (a *App) Close() error {
	if a.dbCleanup != nil {
		a.dbCleanup()
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}
