package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

const uriScheme = "dailybit://"

// registerResources exposes the document catalog when an ingest port is present.
func (s *Server) registerResources() {
	if s.ports.Ingest == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "partitions",
		Name:        "partitions",
		Description: "Chunk counts of the topics and problems partitions",
		MIMEType:    "application/json",
	}, s.handlePartitionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{partition}/documents",
		Name:        "partition-documents",
		Description: "Documents ingested into a partition",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{partition}/documents/{documentId}",
		Name:        "document",
		Description: "The stored source of one topic or problem",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

func (s *Server) handlePartitionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Ingest.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading partition stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	partition, id, ok := parseDocumentURI(req.Params.URI)
	if !ok || id != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Ingest.List(ctx, partition)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Chunks int    `json:"chunks"`
		URI    string `json:"uri"`
	}
	infos := make([]docInfo, len(records))
	for i := range records {
		infos[i] = docInfo{
			ID:     records[i].ID,
			Title:  records[i].Title,
			Chunks: records[i].ChunkCount(),
			URI:    documentURI(partition, records[i].ID),
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	partition, id, ok := parseDocumentURI(req.Params.URI)
	if !ok || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Ingest.Get(ctx, partition, id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if len(record.Payload) == 0 {
		return jsonResource(req.Params.URI, record)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(record.Payload),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func documentURI(p domain.Partition, id string) string {
	return uriScheme + p.String() + "/documents/" + id
}

// parseDocumentURI splits dailybit://{partition}/documents[/{id}].
func parseDocumentURI(uri string) (partition domain.Partition, id string, ok bool) {
	rest, found := strings.CutPrefix(uri, uriScheme)
	if !found {
		return "", "", false
	}
	name, rest, found := strings.Cut(rest, "/")
	if !found {
		return "", "", false
	}
	partition, ok = domain.ParsePartition(name)
	if !ok {
		return "", "", false
	}
	switch {
	case rest == "documents":
		return partition, "", true
	case strings.HasPrefix(rest, "documents/"):
		id = strings.TrimPrefix(rest, "documents/")
		if id == "" || strings.Contains(id, "/") {
			return "", "", false
		}
		return partition, id, true
	default:
		return "", "", false
	}
}
