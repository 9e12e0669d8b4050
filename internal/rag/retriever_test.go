package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noc-assistant/internal/models"
)

// scriptedIndex returns a fixed candidate list regardless of the vector.
type scriptedIndex struct {
	results models.Evidence
	err     error
	lastK   int
}

func (s *scriptedIndex) Upsert(context.Context, []models.IndexEntry) error { return nil }

func (s *scriptedIndex) Query(_ context.Context, _ []float32, k int) (models.Evidence, error) {
	s.lastK = k
	return s.results, s.err
}

func (s *scriptedIndex) DeleteAll(context.Context) error { return nil }

func (s *scriptedIndex) Count(context.Context) (int, error) { return len(s.results), nil }

func scored(text string, score float32) models.ScoredChunk {
	return models.ScoredChunk{Chunk: models.Chunk{Text: text, Source: "doc.pdf", Page: 1}, Score: score}
}

func TestRetrieveFiltersBelowThreshold(t *testing.T) {
	idx := &scriptedIndex{results: models.Evidence{
		scored("strong match", 0.91),
		scored("weak match", 0.35),
		scored("noise", 0.19),
		scored("more noise", 0.02),
	}}
	r := NewRetriever(&fakeEmbedder{}, idx)

	evidence, err := r.Retrieve(context.Background(), "premium club", 4, 0.2)
	require.NoError(t, err)

	require.Len(t, evidence, 2)
	for _, ev := range evidence {
		assert.GreaterOrEqual(t, float64(ev.Score), 0.2)
	}
	assert.Equal(t, "strong match", evidence[0].Chunk.Text)
	assert.Equal(t, "weak match", evidence[1].Chunk.Text)
}

func TestRetrieveKeepsScoreDescendingOrder(t *testing.T) {
	idx := &scriptedIndex{results: models.Evidence{
		scored("second", 0.5),
		scored("first", 0.8),
		scored("third", 0.3),
	}}
	r := NewRetriever(&fakeEmbedder{}, idx)

	evidence, err := r.Retrieve(context.Background(), "query", 4, 0.2)
	require.NoError(t, err)

	require.Len(t, evidence, 3)
	assert.Equal(t, "first", evidence[0].Chunk.Text)
	assert.Equal(t, "second", evidence[1].Chunk.Text)
	assert.Equal(t, "third", evidence[2].Chunk.Text)
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	idx := &scriptedIndex{results: models.Evidence{scored("noise", 0.05)}}
	r := NewRetriever(&fakeEmbedder{}, idx)

	evidence, err := r.Retrieve(context.Background(), "query", 4, 0.2)
	require.NoError(t, err)
	assert.Empty(t, evidence)
}

func TestRetrieveDefaultsK(t *testing.T) {
	idx := &scriptedIndex{}
	r := NewRetriever(&fakeEmbedder{}, idx)

	_, err := r.Retrieve(context.Background(), "query", 0, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.lastK)
}

func TestRetrievePropagatesEmbedderError(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{err: models.ErrProviderUnavailable}, &scriptedIndex{})

	_, err := r.Retrieve(context.Background(), "query", 4, 0.2)
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}

func TestRetrievePropagatesIndexError(t *testing.T) {
	idx := &scriptedIndex{err: errors.New("connection refused")}
	r := NewRetriever(&fakeEmbedder{}, idx)

	_, err := r.Retrieve(context.Background(), "query", 4, 0.2)
	assert.Error(t, err)
}
