// Package chunker decomposes structured documents into per-section chunks.
//
// Granularity is per concept rather than per document: each code example,
// solution approach or guidance block becomes its own chunk so that it can
// be retrieved independently of the rest of the document.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// DefaultNamespace seeds deterministic document IDs when a document has none.
var DefaultNamespace = uuid.MustParse("6f1c2a0e-7d5b-4c2e-9a43-1d2b7e0c5a91")

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor renders Topic and Problem documents into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	namespace uuid.UUID
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithNamespace sets the UUID namespace used to derive missing document IDs.
func WithNamespace(ns uuid.UUID) Option {
	return func(p *Processor) {
		if ns != uuid.Nil {
			p.namespace = ns
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		namespace: DefaultNamespace,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process renders the document into chunks.
// Input chunks are ignored; this processor creates new chunks from the document.
func (p *Processor) Process(_ context.Context, doc domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return p.Chunk(doc)
}

// Chunk renders the document into an ordered chunk sequence.
// A valid document always yields at least one chunk.
func (p *Processor) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	id := p.DocumentID(doc)

	switch d := doc.(type) {
	case *domain.Topic:
		return topicChunks(d, id), nil
	case *domain.Problem:
		return problemChunks(d, id), nil
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedDocument, doc)
	}
}

// DocumentID returns the document's own ID, or a UUIDv5 derived from its
// partition and normalised title so that re-ingestion yields the same chunk IDs.
func (p *Processor) DocumentID(doc domain.Document) string {
	if id := strings.TrimSpace(doc.DocumentID()); id != "" {
		return id
	}
	name := string(doc.Partition()) + ":" + strings.ToLower(strings.TrimSpace(doc.DocumentTitle()))
	return uuid.NewSHA1(p.namespace, []byte(name)).String()
}

// newChunk assembles a chunk, copying base metadata and adding the section's own keys.
func newChunk(
	docID, tag string, chunkType domain.ChunkType, text string, base map[string]string, extra ...string,
) domain.Chunk {
	meta := make(map[string]string, len(base)+1+len(extra)/2)
	for k, v := range base {
		meta[k] = v
	}
	meta[domain.MetaChunkType] = string(chunkType)
	for i := 0; i+1 < len(extra); i += 2 {
		meta[extra[i]] = extra[i+1]
	}

	return domain.Chunk{
		ID:         docID + "_" + tag,
		DocumentID: docID,
		Type:       chunkType,
		Text:       text,
		Metadata:   meta,
	}
}
