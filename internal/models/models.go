package models

import "fmt"

// Chunk represents a bounded unit of normalized document text with metadata.
// Chunks are created once during ingestion and never mutated.
type Chunk struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
	ChunkID int    `json:"chunk_id"`
}

// IndexEntry pairs a chunk with its embedding vector under a stable key.
// The key is derived from source, page, chunk id and content, so
// re-ingesting unchanged documents overwrites instead of duplicating.
type IndexEntry struct {
	Key       string
	Chunk     Chunk
	Embedding []float32
}

// ScoredChunk is a chunk returned from a similarity search.
// Score is a similarity: higher means more similar, compared as
// score >= threshold on both index backends.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// Evidence is the relevance-filtered, score-descending result of one query.
// An empty slice is a valid result meaning "no relevant evidence".
type Evidence []ScoredChunk

// SourceRef identifies a surfaced source document page.
type SourceRef struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

func (s SourceRef) String() string {
	return fmt.Sprintf("%s (Page %d)", s.Source, s.Page)
}

// Answer is the composed response plus the deduplicated sources it cites.
type Answer struct {
	Content string      `json:"content"`
	Sources []SourceRef `json:"sources"`
}
