package driven

import (
	"context"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// VectorRecord is one chunk ready for storage.
type VectorRecord struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

// VectorMatch is one nearest-neighbour result.
// Distance is cosine distance: 0 for identical direction, up to 2 for opposite.
type VectorMatch struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// VectorStore persists chunk vectors in per-partition collections.
type VectorStore interface {
	// Upsert inserts or replaces records by ID. Implementations should apply
	// the whole batch atomically; those that cannot must document it.
	Upsert(ctx context.Context, partition domain.Partition, records []VectorRecord) error

	// Query returns up to k records nearest to vector that satisfy filter,
	// ordered by ascending distance. An empty partition yields an empty slice.
	Query(
		ctx context.Context, partition domain.Partition, vector []float32, k int, filter domain.Filter,
	) ([]VectorMatch, error)

	// PartitionExists reports whether anything was ever written to the partition.
	PartitionExists(ctx context.Context, partition domain.Partition) (bool, error)

	// Count returns the number of records in the partition.
	Count(ctx context.Context, partition domain.Partition) (int, error)

	// Delete removes records by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, partition domain.Partition, ids []string) error

	// Close releases resources.
	Close() error
}
