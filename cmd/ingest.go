package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/perso-labs/ragchat/internal/app"
	"github.com/perso-labs/ragchat/internal/config"
	"github.com/perso-labs/ragchat/internal/knowledge"
	"github.com/perso-labs/ragchat/internal/log"
)

// embedBatchSize bounds the number of texts per embedding request.
const embedBatchSize = 100

var (
	ingestFile     string
	ingestRecreate bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a Q/A spreadsheet into the vector collection",
	Long: `ingest parses a question/answer spreadsheet, embeds each entry, and
indexes it into the pgvector collection used by the chat API.

Rows are paired by the "Q." and "A." markers; a question and its answer may
span separate rows when the sheet uses merged cells.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "spreadsheet to ingest (defaults to data_file from config)")
	ingestCmd.Flags().BoolVar(&ingestRecreate, "recreate", false, "drop and recreate the collection before indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateAPIKey(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(log.Config{JSON: cfg.Environment == "production"})

	file := ingestFile
	if file == "" {
		file = cfg.DataFile
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	rows, err := knowledge.LoadXLSX(file)
	if err != nil {
		return fmt.Errorf("loading %s: %w", file, err)
	}

	parser := knowledge.NewParser(filepath.Base(file), cfg.SourceCategory)
	chunks := parser.Parse(rows)
	if len(chunks) == 0 {
		return fmt.Errorf("no question/answer pairs found in %s", file)
	}
	if !knowledge.Validate(chunks) {
		return errors.New("parsed chunks failed validation, aborting ingest")
	}
	logger.Info("parsed knowledge chunks", "file", file, "rows", len(rows), "chunks", len(chunks))

	if err := a.Store.CreateCollection(ctx, ingestRecreate); err != nil {
		return fmt.Errorf("preparing collection: %w", err)
	}

	indexed := 0
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := a.Embedder.Encode(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch starting at chunk %d: %w", start, err)
		}
		if err := a.Store.IndexDocuments(ctx, vectors, batch); err != nil {
			return fmt.Errorf("indexing batch starting at chunk %d: %w", start, err)
		}
		indexed += len(batch)
		logger.Info("indexed batch", "indexed", indexed, "total", len(chunks))
	}

	logger.Info("ingest complete",
		"collection", cfg.CollectionName,
		"chunks", indexed,
		"recreated", ingestRecreate,
	)
	return nil
}
