package mcp

import (
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Search is required.
	Search driving.SearchService

	// Answer backs the ask tool. Optional.
	Answer driving.AnswerService

	// Problems backs the problem tools. Optional.
	Problems driving.ProblemService

	// Ingest backs the catalog resources. Optional.
	Ingest driving.IngestService

	// Retrieval fills limit and threshold when a tool call omits them.
	Retrieval domain.RetrievalSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
