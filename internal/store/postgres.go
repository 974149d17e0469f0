// Package store implements the vector store capability on PostgreSQL with
// the pgvector extension. One collection is one table; cosine similarity is
// computed as 1 - (embedding <=> query).
package store

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/perso-labs/ragchat/internal/knowledge"
	"github.com/perso-labs/ragchat/internal/rag"
)

// identifierPattern guards the collection name before it is interpolated
// into DDL and query text. Parameters cannot carry identifiers.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Postgres is a rag.VectorStore over a pgxpool connection pool.
type Postgres struct {
	pool       *pgxpool.Pool
	collection string
	dimension  int
	logger     *slog.Logger
}

// NewPostgres creates a store for the named collection. The collection name
// must be a plain lowercase identifier; the table is created by
// CreateCollection, not here.
func NewPostgres(pool *pgxpool.Pool, collection string, dimension int, logger *slog.Logger) (*Postgres, error) {
	if !identifierPattern.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	if dimension < 1 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{
		pool:       pool,
		collection: collection,
		dimension:  dimension,
		logger:     logger,
	}, nil
}

// CreateCollection creates the collection table and its HNSW cosine index.
// The vector width comes from configuration, so the DDL is issued at runtime
// rather than via a migration. With recreate, the existing table is dropped
// first.
func (s *Postgres) CreateCollection(ctx context.Context, recreate bool) error {
	if recreate {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.collection)); err != nil {
			return fmt.Errorf("%w: dropping collection %s: %w", rag.ErrVectorStore, s.collection, err)
		}
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         uuid PRIMARY KEY,
			chunk_id   text NOT NULL,
			question   text NOT NULL,
			answer     text NOT NULL,
			category   text NOT NULL DEFAULT '',
			content    text NOT NULL,
			embedding  vector(%d) NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, s.collection, s.dimension)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: creating collection %s: %w", rag.ErrVectorStore, s.collection, err)
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`,
		s.collection, s.collection)
	if _, err := s.pool.Exec(ctx, idx); err != nil {
		return fmt.Errorf("%w: indexing collection %s: %w", rag.ErrVectorStore, s.collection, err)
	}

	s.logger.Info("collection ready", "collection", s.collection, "dimension", s.dimension, "recreated", recreate)
	return nil
}

// IndexDocuments writes vector/chunk pairs in one transaction. Unequal
// counts fail with ErrCountMismatch before anything is written.
func (s *Postgres) IndexDocuments(ctx context.Context, vectors [][]float32, chunks []knowledge.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors, %d chunks", rag.ErrCountMismatch, len(vectors), len(chunks))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", rag.ErrVectorStore, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, chunk_id, question, answer, category, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.collection)

	for i, c := range chunks {
		if _, err := tx.Exec(ctx, insert,
			uuid.New(),
			c.ID,
			c.Question,
			c.Answer,
			c.Metadata.Category,
			c.Content,
			pgvector.NewVector(vectors[i]),
		); err != nil {
			return fmt.Errorf("%w: inserting chunk %s: %w", rag.ErrVectorStore, c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: committing index batch: %w", rag.ErrVectorStore, err)
	}

	s.logger.Info("documents indexed", "collection", s.collection, "count", len(chunks))
	return nil
}

// Search returns the topK nearest chunks scoring at least scoreThreshold,
// ordered descending by cosine score.
func (s *Postgres) Search(ctx context.Context, vector []float32, topK int, scoreThreshold float32) ([]rag.SearchResult, error) {
	query := fmt.Sprintf(`
		SELECT chunk_id, question, answer, category, content,
		       1 - (embedding <=> $1) AS score
		FROM %s
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`, s.collection)

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), scoreThreshold, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: searching %s: %w", rag.ErrVectorStore, s.collection, err)
	}
	defer rows.Close()

	var results []rag.SearchResult
	for rows.Next() {
		var r rag.SearchResult
		var score float64
		if err := rows.Scan(&r.ID, &r.Question, &r.Answer, &r.Category, &r.Content, &score); err != nil {
			return nil, fmt.Errorf("%w: scanning result: %w", rag.ErrVectorStore, err)
		}
		r.Score = float32(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading results: %w", rag.ErrVectorStore, err)
	}
	return results, nil
}

// CollectionInfo returns collection metadata for the status endpoint.
func (s *Postgres) CollectionInfo(ctx context.Context) (map[string]any, error) {
	var count int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, s.collection)).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("%w: counting points in %s: %w", rag.ErrVectorStore, s.collection, err)
	}

	return map[string]any{
		"name":         s.collection,
		"points_count": count,
		"dimension":    s.dimension,
		"status":       "green",
	}, nil
}

// HealthCheck reports whether the database answers a ping.
func (s *Postgres) HealthCheck(ctx context.Context) bool {
	return s.pool.Ping(ctx) == nil
}
