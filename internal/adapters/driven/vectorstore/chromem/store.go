// Package chromem provides an embedded vector store backed by chromem-go.
//
// Each partition is a cosine-space collection. With a path set the data is
// persisted to disk on every write; without one it lives in memory.
//
// chromem has no transactions: a failed Upsert may leave part of the batch
// written. Re-ingesting the document repairs it.
package chromem

import (
	"context"
	"fmt"
	"sort"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

var collectionMetadata = map[string]string{"hnsw:space": "cosine"}

// Store is a driven.VectorStore over a chromem.DB.
type Store struct {
	db *chromem.DB
}

// New opens a persistent DB at path, or an in-memory DB when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		return &Store{db: chromem.NewDB()}, nil
	}
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", path, err)
	}
	logger.Debug("chromem: opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) collection(partition domain.Partition) *chromem.Collection {
	return s.db.GetCollection(partition.String(), nil)
}

// Upsert adds records, replacing any with the same ID.
func (s *Store) Upsert(ctx context.Context, partition domain.Partition, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	col, err := s.db.GetOrCreateCollection(partition.String(), collectionMetadata, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", partition, err)
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	metadatas := make([]map[string]string, len(records))
	contents := make([]string, len(records))
	for i, r := range records {
		if len(r.Embedding) == 0 {
			return fmt.Errorf("record %s has no embedding", r.ID)
		}
		ids[i] = r.ID
		embeddings[i] = r.Embedding
		metadatas[i] = r.Metadata
		contents[i] = r.Text
	}

	if err := col.Add(ctx, ids, embeddings, metadatas, contents); err != nil {
		return fmt.Errorf("add to %s: %w", partition, err)
	}
	return nil
}

// Query returns up to k nearest records. A disjunctive filter runs one
// query per alternative and merges the results.
func (s *Store) Query(
	ctx context.Context, partition domain.Partition, vector []float32, k int, filter domain.Filter,
) ([]driven.VectorMatch, error) {
	col := s.collection(partition)
	if col == nil || k <= 0 {
		return []driven.VectorMatch{}, nil
	}
	n := min(k, col.Count())
	if n == 0 {
		return []driven.VectorMatch{}, nil
	}

	wheres := filter.AnyOf
	if filter.IsEmpty() {
		wheres = []map[string]string{nil}
	}

	best := make(map[string]driven.VectorMatch)
	for _, where := range wheres {
		results, err := col.QueryEmbedding(ctx, vector, n, where, nil)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", partition, err)
		}
		for _, r := range results {
			m := driven.VectorMatch{
				ID:       r.ID,
				Text:     r.Content,
				Metadata: r.Metadata,
				Distance: 1 - float64(r.Similarity),
			}
			if prev, ok := best[r.ID]; !ok || m.Distance < prev.Distance {
				best[r.ID] = m
			}
		}
	}

	out := make([]driven.VectorMatch, 0, len(best))
	for _, m := range best {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// PartitionExists reports whether the partition's collection was created.
func (s *Store) PartitionExists(_ context.Context, partition domain.Partition) (bool, error) {
	return s.collection(partition) != nil, nil
}

// Count returns the number of records in the partition.
func (s *Store) Count(_ context.Context, partition domain.Partition) (int, error) {
	col := s.collection(partition)
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}

// Delete removes records by ID. Unknown IDs are skipped.
func (s *Store) Delete(ctx context.Context, partition domain.Partition, ids []string) error {
	col := s.collection(partition)
	if col == nil || len(ids) == 0 {
		return nil
	}

	present := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := col.GetByID(ctx, id); err == nil {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := col.Delete(ctx, nil, nil, present...); err != nil {
		return fmt.Errorf("delete from %s: %w", partition, err)
	}
	return nil
}

// Close is a no-op; writes are persisted as they happen.
func (s *Store) Close() error {
	return nil
}
