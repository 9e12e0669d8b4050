package index

import (
	"context"
	"fmt"

	"noc-assistant/internal/chromemdb"
	"noc-assistant/internal/config"
	"noc-assistant/internal/db"
	"noc-assistant/internal/models"
)

// Index is the vector index capability consumed by the pipeline. Both
// backends report similarity scores where higher means more similar and
// results are ordered score-descending.
type Index interface {
	// Upsert persists entries keyed by their stable chunk key; calling
	// it again with unchanged content overwrites instead of duplicating.
	Upsert(ctx context.Context, entries []models.IndexEntry) error

	// Query returns up to k nearest entries for the vector. Pure read.
	Query(ctx context.Context, vector []float32, k int) (models.Evidence, error)

	// DeleteAll purges the index. Destructive; only ever invoked by an
	// explicit operator command, never by query-path code.
	DeleteAll(ctx context.Context) error

	// Count reports the number of persisted entries, distinguishing an
	// absent or empty index from a populated one.
	Count(ctx context.Context) (int, error)
}

// New selects the configured backend.
func New(ctx context.Context, cfg *config.Config) (Index, error) {
	switch cfg.IndexBackend {
	case config.BackendChromem:
		return chromemdb.New(cfg.ChromemPath, cfg.IndexName, false)
	case config.BackendPostgres:
		return db.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown vector index backend: %s", cfg.IndexBackend)
	}
}
