package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.DocumentCatalog = (*Catalog)(nil)

// Catalog is an in-memory implementation of driven.DocumentCatalog.
type Catalog struct {
	mu      sync.RWMutex
	records map[domain.Partition]map[string]domain.DocumentRecord
}

// NewCatalog creates a new in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		records: make(map[domain.Partition]map[string]domain.DocumentRecord),
	}
}

// Save stores or replaces a record.
func (c *Catalog) Save(_ context.Context, record *domain.DocumentRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	part, ok := c.records[record.Partition]
	if !ok {
		part = make(map[string]domain.DocumentRecord)
		c.records[record.Partition] = part
	}
	part[record.ID] = cloneRecord(*record)
	return nil
}

// Get returns a record or domain.ErrNotFound.
func (c *Catalog) Get(_ context.Context, partition domain.Partition, id string) (*domain.DocumentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[partition][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRecord(rec)
	return &out, nil
}

// List returns the partition's records ordered by title.
func (c *Catalog) List(_ context.Context, partition domain.Partition) ([]domain.DocumentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.DocumentRecord, 0, len(c.records[partition]))
	for _, rec := range c.records[partition] {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a record. Returns domain.ErrNotFound if absent.
func (c *Catalog) Delete(_ context.Context, partition domain.Partition, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[partition][id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.records[partition], id)
	return nil
}

// Close is a no-op.
func (c *Catalog) Close() error {
	return nil
}

func cloneRecord(r domain.DocumentRecord) domain.DocumentRecord {
	r.ChunkIDs = append([]string(nil), r.ChunkIDs...)
	r.Payload = append([]byte(nil), r.Payload...)
	return r
}
