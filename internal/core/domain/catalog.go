package domain

import "time"

// DocumentRecord tracks an ingested document and the chunks it produced.
// The catalog uses ChunkIDs to remove stale chunks on re-ingestion and
// to delete a document's chunks without querying the vector store.
type DocumentRecord struct {
	ID         string    `json:"id"`
	Partition  Partition `json:"partition"`
	Title      string    `json:"title"`
	ChunkIDs   []string  `json:"chunk_ids"`
	Payload    []byte    `json:"-"`
	IngestedAt time.Time `json:"ingested_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChunkCount returns the number of chunks the document produced.
func (r *DocumentRecord) ChunkCount() int {
	return len(r.ChunkIDs)
}

// IngestResult reports the outcome of ingesting one document.
type IngestResult struct {
	DocumentID    string    `json:"document_id"`
	Partition     Partition `json:"partition"`
	ChunksCreated int       `json:"chunks_created"`
	StaleRemoved  int       `json:"stale_removed,omitempty"`
}
