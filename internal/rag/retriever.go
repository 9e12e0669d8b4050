package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"noc-assistant/internal/index"
	"noc-assistant/internal/models"
)

const defaultRetrievalK = 4

// Embedder converts query text into an embedding vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever embeds a query, searches the vector index and filters the
// candidates by score threshold. It is stateless and safe for
// concurrent use when its collaborators are.
type Retriever struct {
	embedder Embedder
	index    index.Index
}

func NewRetriever(embedder Embedder, idx index.Index) *Retriever {
	return &Retriever{embedder: embedder, index: idx}
}

// Retrieve returns the score-descending evidence set for the query.
// Candidates below threshold are discarded; an empty result is a valid
// "no relevant evidence" outcome, never silently broadened.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, threshold float64) (models.Evidence, error) {
	if k <= 0 {
		k = defaultRetrievalK
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := r.index.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	evidence := make(models.Evidence, 0, len(candidates))
	for _, c := range candidates {
		if float64(c.Score) >= threshold {
			evidence = append(evidence, c)
		}
	}
	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].Score > evidence[j].Score
	})

	log.Debug().
		Int("candidates", len(candidates)).
		Int("above_threshold", len(evidence)).
		Float64("threshold", threshold).
		Msg("Retrieved evidence")
	return evidence, nil
}
