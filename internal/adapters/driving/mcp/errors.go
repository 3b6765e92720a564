// Package mcp serves the knowledge base to AI assistants over the Model
// Context Protocol: retrieval, grounded answers and problem hints as tools,
// and the document catalog as resources.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
