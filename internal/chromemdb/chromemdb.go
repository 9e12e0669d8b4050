package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"noc-assistant/internal/models"
)

const compress = false

// Manager is the local vector index backend built on chromem-go.
// Scores are cosine similarity: higher means more similar.
type Manager struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// New opens (or creates) the collection. inMemory skips persistence and
// is used by tests.
func New(dbPath, collectionName string, inMemory bool) (*Manager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Manager{
		db:         db,
		collection: collection,
		name:       collectionName,
	}, nil
}

// Upsert persists the entries. chromem keys documents by ID, so stable
// chunk keys make re-ingestion overwrite instead of growing duplicates.
func (m *Manager) Upsert(ctx context.Context, entries []models.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromem.Document{
			ID:      e.Key,
			Content: e.Chunk.Text,
			Metadata: map[string]string{
				"source": e.Chunk.Source,
				"page":   strconv.Itoa(e.Chunk.Page),
				"chunk":  strconv.Itoa(e.Chunk.ChunkID),
			},
			Embedding: e.Embedding,
		})
	}

	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: adding documents: %v", models.ErrProviderUnavailable, err)
	}
	return nil
}

// Query performs a similarity search for up to k entries. chromem
// rejects result counts above the collection size, so k is clamped.
func (m *Manager) Query(ctx context.Context, vector []float32, k int) (models.Evidence, error) {
	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection: %v", models.ErrProviderUnavailable, err)
	}

	evidence := make(models.Evidence, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata["page"])
		if page <= 0 {
			page = 1
		}
		chunkID, _ := strconv.Atoi(r.Metadata["chunk"])
		evidence = append(evidence, models.ScoredChunk{
			Chunk: models.Chunk{
				Text:    r.Content,
				Source:  r.Metadata["source"],
				Page:    page,
				ChunkID: chunkID,
			},
			Score: r.Similarity,
		})
	}
	return evidence, nil
}

// DeleteAll drops the collection and recreates it empty.
func (m *Manager) DeleteAll(ctx context.Context) error {
	if err := m.db.DeleteCollection(m.name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	collection, err := m.db.GetOrCreateCollection(m.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %v", err)
	}
	m.collection = collection
	return nil
}

// Count reports the number of indexed entries.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.collection.Count(), nil
}
