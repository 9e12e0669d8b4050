package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"noc-assistant/internal/config"
	"noc-assistant/internal/helper"
	"noc-assistant/internal/models"
)

// Client wraps the OpenAI-compatible embedding provider. Failures are
// wrapped in models.ErrProviderUnavailable so the caller can decide on
// retry policy.
type Client struct {
	impl *embeddings.EmbedderImpl
}

// NewEmbedder creates the embedding client from the configuration.
func NewEmbedder(cfg *config.Config) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.EmbeddingBaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.EmbeddingAPIKey, "Bearer ")),
		openai.WithModel(cfg.EmbeddingModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return &Client{impl: embedder}, nil
}

// EmbedQuery converts one text into an embedding vector.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	return vec, nil
}

// EmbedChunks embeds every chunk and pairs each with its stable key,
// ready for an index upsert.
func (c *Client) EmbedChunks(ctx context.Context, chunks []models.Chunk) ([]models.IndexEntry, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to embed")
		return nil, nil
	}

	entries := make([]models.IndexEntry, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := c.EmbedQuery(ctx, chunk.Text)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.IndexEntry{
			Key:       helper.ChunkKey(chunk),
			Chunk:     chunk,
			Embedding: vec,
		})
	}
	return entries, nil
}
