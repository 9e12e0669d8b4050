package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"noc-assistant/internal/config"
	"noc-assistant/internal/models"
)

// Vector serializes an embedding in the pgvector text format "[x,y,z]".
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String(), nil
}

func (v *Vector) Scan(src interface{}) error {
	var s string
	switch t := src.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return fmt.Errorf("cannot scan %T into Vector", src)
	}
	s = strings.Trim(s, "[]")
	if s == "" {
		*v = nil
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Vector, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		out = append(out, float32(f))
	}
	*v = out
	return nil
}

// Entry is one persisted chunk row. The table name comes from
// VECTOR_INDEX_NAME, substituted per query.
type Entry struct {
	bun.BaseModel `bun:"table:index_entries,alias:e"`
	Key           string  `bun:"chunk_key,pk,type:uuid"`
	Content       string  `bun:"content,notnull"`
	Source        string  `bun:"source,notnull"`
	Page          int     `bun:"page,notnull"`
	Embedding     Vector  `bun:"embedding"`
	Score         float32 `bun:"score,scanonly"`
}

// Store is the hosted vector index backend on Postgres with pgvector.
// Scores are 1 - cosine distance so that, like the chromem backend,
// higher means more similar.
type Store struct {
	db    *bun.DB
	table string
	dim   int
}

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New connects to the database and ensures the pgvector extension and
// the index table exist.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if !tableNameRe.MatchString(cfg.IndexName) {
		return nil, fmt.Errorf("invalid VECTOR_INDEX_NAME %q for postgres backend", cfg.IndexName)
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DatabaseURL)}
	if cfg.DatabasePassword != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.DatabasePassword))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	bdb := bun.NewDB(sqldb, pgdialect.New())
	bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(cfg.Debug)))

	s := &Store{db: bdb, table: cfg.IndexName, dim: cfg.EmbeddingDim}
	if err := s.init(ctx); err != nil {
		return nil, fmt.Errorf("%w: initializing index table: %v", models.ErrProviderUnavailable, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		chunk_key uuid PRIMARY KEY,
		content text NOT NULL,
		source text NOT NULL,
		page integer NOT NULL,
		embedding vector(%d) NOT NULL
	)`, s.table, s.dim)
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Upsert inserts the entries, overwriting rows with the same chunk key.
func (s *Store) Upsert(ctx context.Context, entries []models.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]Entry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Entry{
			Key:       e.Key,
			Content:   e.Chunk.Text,
			Source:    e.Chunk.Source,
			Page:      e.Chunk.Page,
			Embedding: Vector(e.Embedding),
		})
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		ModelTableExpr("? AS e", bun.Ident(s.table)).
		On("CONFLICT (chunk_key) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("source = EXCLUDED.source").
		Set("page = EXCLUDED.page").
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: storing entries: %v", models.ErrProviderUnavailable, err)
	}
	return nil
}

// Query returns the k nearest entries by cosine distance.
func (s *Store) Query(ctx context.Context, vector []float32, k int) (models.Evidence, error) {
	vec := Vector(vector)
	var rows []Entry
	err := s.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS e", bun.Ident(s.table)).
		Column("chunk_key", "content", "source", "page").
		ColumnExpr("1 - (embedding <=> ?) AS score", vec).
		OrderExpr("embedding <=> ?", vec).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: searching entries: %v", models.ErrProviderUnavailable, err)
	}

	evidence := make(models.Evidence, 0, len(rows))
	for _, row := range rows {
		evidence = append(evidence, models.ScoredChunk{
			Chunk: models.Chunk{
				Text:   row.Content,
				Source: row.Source,
				Page:   row.Page,
			},
			Score: row.Score,
		})
	}
	return evidence, nil
}

// DeleteAll truncates the index table.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "TRUNCATE TABLE ?", bun.Ident(s.table)); err != nil {
		return fmt.Errorf("%w: truncating index table: %v", models.ErrProviderUnavailable, err)
	}
	return nil
}

// Count reports the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().
		ModelTableExpr("? AS e", bun.Ident(s.table)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: counting entries: %v", models.ErrProviderUnavailable, err)
	}
	return count, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
