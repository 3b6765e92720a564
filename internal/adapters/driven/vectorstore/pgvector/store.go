// Package pgvector provides a PostgreSQL vector store using the pgvector
// extension. All partitions share one table keyed by (partition, id);
// metadata is stored as JSONB so filters run in SQL.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultDimensions matches nomic-embed-text.
const DefaultDimensions = 768

// Store is a driven.VectorStore over PostgreSQL.
type Store struct {
	db         *sqlx.DB
	dimensions int
}

// New connects to dsn and ensures the schema exists.
func New(ctx context.Context, dsn string, dimensions int) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := NewWithDB(db, dimensions)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection without touching the schema.
func NewWithDB(db *sqlx.DB, dimensions int) *Store {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Store{db: db, dimensions: dimensions}
}

func (s *Store) schema() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS vector_partitions (
			name       TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunk_vectors (
			partition TEXT NOT NULL REFERENCES vector_partitions(name),
			id        TEXT NOT NULL,
			content   TEXT NOT NULL,
			metadata  JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (partition, id)
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS chunk_vectors_metadata_idx ON chunk_vectors USING GIN (metadata)`,
	}
}

// Migrate creates the extension, tables and indexes if missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate pgvector schema: %w", err)
		}
	}
	logger.Debug("pgvector: schema ready (dimensions=%d)", s.dimensions)
	return nil
}

const upsertSQL = `INSERT INTO chunk_vectors (partition, id, content, metadata, embedding)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (partition, id) DO UPDATE
SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding`

// Upsert writes the whole batch in one transaction.
func (s *Store) Upsert(ctx context.Context, partition domain.Partition, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vector_partitions (name) VALUES ($1) ON CONFLICT DO NOTHING`, partition.String()); err != nil {
		return fmt.Errorf("register partition %s: %w", partition, err)
	}

	for _, r := range records {
		if len(r.Embedding) != s.dimensions {
			return fmt.Errorf("record %s has %d dimensions, want %d", r.ID, len(r.Embedding), s.dimensions)
		}
		meta, err := json.Marshal(nonNil(r.Metadata))
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertSQL,
			partition.String(), r.ID, r.Text, meta, pgvector.NewVector(r.Embedding)); err != nil {
			return fmt.Errorf("upsert %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

type matchRow struct {
	ID       string  `db:"id"`
	Content  string  `db:"content"`
	Metadata []byte  `db:"metadata"`
	Distance float64 `db:"distance"`
}

// Query orders by cosine distance (<=>) with the filter applied in SQL.
func (s *Store) Query(
	ctx context.Context, partition domain.Partition, vector []float32, k int, filter domain.Filter,
) ([]driven.VectorMatch, error) {
	if k <= 0 {
		return []driven.VectorMatch{}, nil
	}

	where, args := filterClause(filter, 3)
	query := `SELECT id, content, metadata, embedding <=> $1 AS distance
FROM chunk_vectors
WHERE partition = $2` + where + fmt.Sprintf(`
ORDER BY distance, id
LIMIT $%d`, len(args)+3)

	params := append([]any{pgvector.NewVector(vector), partition.String()}, args...)
	params = append(params, k)

	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, query, params...); err != nil {
		return nil, fmt.Errorf("query %s: %w", partition, err)
	}

	out := make([]driven.VectorMatch, 0, len(rows))
	for _, r := range rows {
		meta := map[string]string{}
		if len(r.Metadata) > 0 {
			if err := json.Unmarshal(r.Metadata, &meta); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", r.ID, err)
			}
		}
		out = append(out, driven.VectorMatch{ID: r.ID, Text: r.Content, Metadata: meta, Distance: r.Distance})
	}
	return out, nil
}

// filterClause renders a disjunction of conjunctions over JSONB keys.
// Placeholders start at $first.
func filterClause(filter domain.Filter, first int) (string, []any) {
	if filter.IsEmpty() {
		return "", nil
	}

	var args []any
	n := first
	ors := make([]string, 0, len(filter.AnyOf))
	for _, set := range filter.AnyOf {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ands := make([]string, 0, len(keys))
		for _, k := range keys {
			ands = append(ands, fmt.Sprintf("metadata->>$%d = $%d", n, n+1))
			args = append(args, k, set[k])
			n += 2
		}
		ors = append(ors, "("+strings.Join(ands, " AND ")+")")
	}
	return "\n  AND (" + strings.Join(ors, " OR ") + ")", args
}

// PartitionExists reports whether the partition was ever written.
func (s *Store) PartitionExists(ctx context.Context, partition domain.Partition) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM vector_partitions WHERE name = $1)`, partition.String())
	if err != nil {
		return false, fmt.Errorf("check partition %s: %w", partition, err)
	}
	return exists, nil
}

// Count returns the number of records in the partition.
func (s *Store) Count(ctx context.Context, partition domain.Partition) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM chunk_vectors WHERE partition = $1`, partition.String())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", partition, err)
	}
	return n, nil
}

// Delete removes records by ID. Unknown IDs are ignored.
func (s *Store) Delete(ctx context.Context, partition domain.Partition, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chunk_vectors WHERE partition = $1 AND id = ANY($2)`, partition.String(), pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete from %s: %w", partition, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
