package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"noc-assistant/internal/config"
	"noc-assistant/internal/embedding"
	"noc-assistant/internal/helper"
	"noc-assistant/internal/index"
	"noc-assistant/internal/llmservice"
	"noc-assistant/internal/models"
	"noc-assistant/internal/parser"
	"noc-assistant/internal/rag"
)

const (
	maxQueryAttempts = 3
	retryBaseDelay   = 500 * time.Millisecond
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	ingestDir := flag.String("ingest", "", "Directory of documents to ingest into the vector index")
	exportDir := flag.String("export-json", "", "With -ingest, also write the JSON intermediate files here")
	processedDir := flag.String("load-json", "", "Directory of JSON intermediates to ingest instead of raw documents")
	query := flag.String("query", "", "Question to answer from the indexed documentation")
	purge := flag.Bool("purge", false, "Delete every entry from the vector index")
	dryRun := flag.Bool("dry-run", false, "Parse and print chunks without embedding or indexing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading environment directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	switch {
	case *ingestDir != "":
		ingestDocuments(ctx, cfg, *ingestDir, *exportDir, *dryRun)
	case *processedDir != "":
		ingestProcessed(ctx, cfg, *processedDir, *dryRun)
	case *query != "":
		answerQuery(ctx, cfg, *query)
	case *purge:
		purgeIndex(ctx, cfg)
	default:
		log.Fatal().Msg("Please provide one of -ingest, -load-json, -query or -purge")
	}
}

func ingestDocuments(ctx context.Context, cfg *config.Config, dir, exportDir string, dryRun bool) {
	p, err := parser.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing parser")
	}

	if exportDir != "" {
		if err := p.ExportProcessedDir(dir, exportDir); err != nil {
			log.Fatal().Err(err).Msg("Error exporting JSON intermediates")
		}
	}

	chunks, err := p.IngestDir(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting documents")
	}
	log.Info().Msgf("Parsed %d chunks from %s", len(chunks), dir)

	indexChunks(ctx, cfg, chunks, dryRun)
}

func ingestProcessed(ctx context.Context, cfg *config.Config, dir string, dryRun bool) {
	p, err := parser.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing parser")
	}

	chunks, err := p.LoadProcessed(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading processed documents")
	}
	log.Info().Msgf("Parsed %d chunks from %s", len(chunks), dir)

	indexChunks(ctx, cfg, chunks, dryRun)
}

func indexChunks(ctx context.Context, cfg *config.Config, chunks []models.Chunk, dryRun bool) {
	if dryRun {
		helper.PrettyPrint(chunks)
		return
	}

	embedder, err := embedding.NewEmbedder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	entries, err := embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating embeddings")
	}

	idx, err := index.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}

	log.Info().Msgf("Adding %d entries to vector index %s", len(entries), cfg.IndexName)
	if err := idx.Upsert(ctx, entries); err != nil {
		log.Fatal().Err(err).Msg("Error storing entries")
	}
}

func answerQuery(ctx context.Context, cfg *config.Config, query string) {
	idx, err := index.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}

	if count, err := idx.Count(ctx); err == nil && count == 0 {
		log.Warn().Msgf("Vector index %s is empty, run -ingest first", cfg.IndexName)
	}

	embedder, err := embedding.NewEmbedder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	generator, err := llmservice.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generation client")
	}

	assistant := rag.NewAssistant(embedder, generator, idx, cfg)

	answer, err := answerWithRetry(ctx, assistant, query)
	if err != nil {
		if errors.Is(err, models.ErrProviderUnavailable) {
			log.Fatal().Msg("A backend service is unavailable, please try again later")
		}
		log.Fatal().Err(err).Msg("Error answering query")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Sources: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", rag.FormatSources(answer.Sources))

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer.Content)
}

// answerWithRetry owns the caller-side retry policy: bounded attempts
// with exponential backoff on provider failures only.
func answerWithRetry(ctx context.Context, assistant *rag.Assistant, query string) (*models.Answer, error) {
	var lastErr error
	for attempt := 0; attempt < maxQueryAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			log.Warn().Msgf("Retrying query in %s (attempt %d/%d)", delay, attempt+1, maxQueryAttempts)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		answer, err := assistant.AnswerQuery(ctx, query)
		if err == nil {
			return answer, nil
		}
		if !errors.Is(err, models.ErrProviderUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func purgeIndex(ctx context.Context, cfg *config.Config) {
	idx, err := index.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}

	count, err := idx.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error counting entries")
	}

	if err := idx.DeleteAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error purging vector index")
	}
	log.Info().Msgf("Purged %d entries from vector index %s", count, cfg.IndexName)
}
