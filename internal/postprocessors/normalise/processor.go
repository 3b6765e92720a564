// Package normalise provides a whitespace-tidying chunk processor.
package normalise

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
)

// DefaultMaxBlankLines is the longest run of blank lines kept inside a chunk.
const DefaultMaxBlankLines = 1

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor trims trailing whitespace, collapses blank-line runs and
// rejects chunks whose text ends up empty.
type Processor struct {
	maxBlankLines int
}

// Option configures the normalise processor.
type Option func(*Processor)

// WithMaxBlankLines sets how many consecutive blank lines are preserved.
func WithMaxBlankLines(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.maxBlankLines = n
		}
	}
}

// New creates a new normalise processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxBlankLines: DefaultMaxBlankLines}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "normalise"
}

// Process rewrites chunk text in place and returns the same chunks.
func (p *Processor) Process(_ context.Context, _ domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		chunks[i].Text = p.normalise(chunks[i].Text)
		if chunks[i].Text == "" {
			return nil, fmt.Errorf("%w: chunk %s has no text", domain.ErrInvalidInput, chunks[i].ID)
		}
	}
	return chunks, nil
}

func (p *Processor) normalise(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > p.maxBlankLines {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
