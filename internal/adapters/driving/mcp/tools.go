package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the question or keywords to look up"`
	Context   string   `json:"context,omitempty" jsonschema:"optional routing hint: topic:<title>, problem:<id> or a bare title"`
	Limit     int      `json:"limit,omitempty" jsonschema:"number of chunks to retrieve (default 5, max 50)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"similarity threshold in [0,1] (default 0.7)"`
}

func (in SearchInput) options(defaults domain.RetrievalSettings) domain.SearchOptions {
	o := domain.SearchOptions{ContextHint: in.Context, Limit: in.Limit, Threshold: in.Threshold}
	return o.WithDefaults(defaults.NResults, defaults.SimilarityThreshold)
}

// ChunkOutput is one retrieved chunk.
type ChunkOutput struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	ChunkType  string  `json:"chunk_type,omitempty"`
	Similarity float64 `json:"similarity"`
	Relevant   bool    `json:"relevant"`
	Content    string  `json:"content"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Partition     string        `json:"partition"`
	Successful    bool          `json:"successful"`
	TopSimilarity float64       `json:"top_similarity"`
	Chunks        []ChunkOutput `json:"chunks"`
	Count         int           `json:"count"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Answer   string        `json:"answer"`
	Grounded bool          `json:"grounded"`
	Model    string        `json:"model,omitempty"`
	Sources  []ChunkOutput `json:"sources"`
}

// HintsInput is the input schema for the problem_hints tool.
type HintsInput struct {
	ProblemID string `json:"problem_id" jsonschema:"identifier of the problem, e.g. two-sum"`
	Limit     int    `json:"limit,omitempty" jsonschema:"number of hints to return (default 3)"`
}

// HintsOutput is the output schema for the problem_hints tool.
type HintsOutput struct {
	ProblemID string        `json:"problem_id"`
	Hints     []ChunkOutput `json:"hints"`
}

// ProblemSearchInput is the input schema for the search_problems tool.
type ProblemSearchInput struct {
	Query      string `json:"query" jsonschema:"description of the problem to find"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"easy, medium or hard"`
	Topic      string `json:"topic,omitempty" jsonschema:"restrict to problems tagged with this topic"`
	Limit      int    `json:"limit,omitempty" jsonschema:"number of results (default 3)"`
}

// registerTools registers the tool handlers whose ports are present.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve knowledge-base chunks about programming topics or coding problems",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a programming question, grounded in the knowledge base when it has relevant content",
		}, s.handleAsk)
	}

	if s.ports.Problems != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "problem_hints",
			Description: "Get progressive hints for a coding problem without revealing the full solution",
		}, s.handleHints)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_problems",
			Description: "Find coding problems similar to a description, optionally by difficulty or topic",
		}, s.handleSearchProblems)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Search.Search(ctx, input.Query, input.options(s.ports.Retrieval))
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(result), nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, AskOutput, error) {
	r := s.ports.Answer.Answer(ctx, input.Query, input.options(s.ports.Retrieval))
	return nil, AskOutput{
		Success:  r.Success,
		Error:    r.Error,
		Answer:   r.Response,
		Grounded: r.Grounded,
		Model:    r.LLM.Model,
		Sources:  chunkOutputs(r.Sources),
	}, nil
}

func (s *Server) handleHints(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HintsInput,
) (*mcp.CallToolResult, HintsOutput, error) {
	hints, err := s.ports.Problems.Hints(ctx, input.ProblemID, input.Limit)
	if err != nil {
		return nil, HintsOutput{}, err
	}
	return nil, HintsOutput{ProblemID: input.ProblemID, Hints: chunkOutputs(hints)}, nil
}

func (s *Server) handleSearchProblems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProblemSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Problems.SearchProblems(ctx, input.Query, domain.ProblemFilter{
		Difficulty: domain.ProblemDifficulty(input.Difficulty),
		Topic:      input.Topic,
	}, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(result), nil
}

func searchOutput(r *domain.SearchResult) SearchOutput {
	chunks := chunkOutputs(r.Chunks)
	return SearchOutput{
		Partition:     r.Partition.String(),
		Successful:    r.Successful,
		TopSimilarity: r.TopSimilarity,
		Chunks:        chunks,
		Count:         len(chunks),
	}
}

func chunkOutputs(chunks []domain.RetrievedChunk) []ChunkOutput {
	out := make([]ChunkOutput, len(chunks))
	for i, c := range chunks {
		out[i] = ChunkOutput{
			ID:         c.ID,
			DocumentID: c.Metadata[domain.MetaDocumentID],
			Title:      c.Metadata[domain.MetaTitle],
			ChunkType:  c.Metadata[domain.MetaChunkType],
			Similarity: c.SimilarityScore,
			Relevant:   c.IsRelevant,
			Content:    c.Content,
		}
	}
	return out
}
