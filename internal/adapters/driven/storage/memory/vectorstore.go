package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory driven.VectorStore using brute-force cosine distance.
// A partition exists once it has received its first upsert.
type VectorStore struct {
	mu         sync.RWMutex
	partitions map[domain.Partition]map[string]driven.VectorRecord
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		partitions: make(map[domain.Partition]map[string]driven.VectorRecord),
	}
}

// Upsert stores records, replacing any with the same ID.
// The whole batch is applied under one lock.
func (s *VectorStore) Upsert(_ context.Context, partition domain.Partition, records []driven.VectorRecord) error {
	for i := range records {
		if len(records[i].Embedding) == 0 {
			return fmt.Errorf("record %s has no embedding", records[i].ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	part, ok := s.partitions[partition]
	if !ok {
		part = make(map[string]driven.VectorRecord, len(records))
		s.partitions[partition] = part
	}
	for _, r := range records {
		r.Embedding = append([]float32(nil), r.Embedding...)
		r.Metadata = copyMeta(r.Metadata)
		part[r.ID] = r
	}
	return nil
}

// Query returns up to k matches ordered by ascending cosine distance.
func (s *VectorStore) Query(
	_ context.Context, partition domain.Partition, vector []float32, k int, filter domain.Filter,
) ([]driven.VectorMatch, error) {
	if k <= 0 {
		return []driven.VectorMatch{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]driven.VectorMatch, 0, len(s.partitions[partition]))
	for _, r := range s.partitions[partition] {
		if !filter.Matches(r.Metadata) {
			continue
		}
		if len(r.Embedding) != len(vector) {
			return nil, fmt.Errorf("dimension mismatch: query %d, record %s has %d",
				len(vector), r.ID, len(r.Embedding))
		}
		matches = append(matches, driven.VectorMatch{
			ID:       r.ID,
			Text:     r.Text,
			Metadata: copyMeta(r.Metadata),
			Distance: CosineDistance(vector, r.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// PartitionExists reports whether the partition has been written to.
func (s *VectorStore) PartitionExists(_ context.Context, partition domain.Partition) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.partitions[partition]
	return ok, nil
}

// Count returns the number of records in the partition.
func (s *VectorStore) Count(_ context.Context, partition domain.Partition) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partitions[partition]), nil
}

// Delete removes records by ID. Unknown IDs are ignored.
func (s *VectorStore) Delete(_ context.Context, partition domain.Partition, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.partitions[partition], id)
	}
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

// CosineDistance returns 1 - cos(a, b). Zero vectors are at distance 1.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func copyMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
