package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

// snippetLength bounds chunk text in table output.
const snippetLength = 160

var (
	searchContext   string
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
	searchLegacy    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested topics and problems",
	Long: `Embeds the query and retrieves the most similar chunks.

--context routes the query: "topic:<name>" searches topics, "problem:<name>"
searches hints for a problem, anything else searches both the general way.
With --legacy the partition is chosen from the query wording instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchContext, "context", "c", "", "context hint, e.g. topic:Heap or problem:two-sum")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of chunks (default from settings)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "similarity threshold in [0,1] (default from settings)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchLegacy, "legacy", false, "pick the partition from the query text")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := queryOptions(cmd, searchContext, searchLimit, searchThreshold)
	search := searchService.Search
	if searchLegacy {
		search = searchService.SearchLegacy
	}

	result, err := search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if wantJSON(cmd, searchJSON) {
		return outputJSON(cmd, result)
	}
	outputSearchTable(cmd, result)
	return nil
}

// queryOptions builds search options from flags, applying configured
// retrieval defaults for anything not given on the command line.
func queryOptions(cmd *cobra.Command, hint string, limit int, threshold float64) domain.SearchOptions {
	opts := domain.SearchOptions{ContextHint: hint, Limit: limit}
	if cmd.Flags().Changed("threshold") {
		t := threshold
		opts.Threshold = &t
	}
	return opts.WithDefaults(retrieval.NResults, retrieval.SimilarityThreshold)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, r *domain.SearchResult) {
	cmd.Printf("Partition: %s", r.Partition)
	if r.ContextUsed != "" {
		cmd.Printf("  Context: %s", r.ContextUsed)
	}
	cmd.Println()

	if len(r.Chunks) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Printf("Found %d chunks, %d relevant (top similarity %.3f, threshold %.2f)\n",
		r.TotalChunks, r.RelevantChunks, r.TopSimilarity, r.SimilarityThreshold)
	cmd.Println()
	cmd.Println("Results:")
	printChunks(cmd, r.Chunks)
}

// printChunks lists chunks with their score. Relevant chunks are starred.
func printChunks(cmd *cobra.Command, chunks []domain.RetrievedChunk) {
	for i := range chunks {
		c := &chunks[i]
		mark := " "
		if c.IsRelevant {
			mark = "*"
		}
		title := c.Metadata[domain.MetaTitle]
		if title == "" {
			title = c.ID
		}
		cmd.Printf("  [%d]%s %s (%.3f)\n", i+1, mark, title, c.SimilarityScore)
		if ct := c.Metadata[domain.MetaChunkType]; ct != "" {
			cmd.Printf("      Section: %s\n", ct)
		}
		if s := snippet(c.Content); s != "" {
			cmd.Printf("      %s\n", s)
		}
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len([]rune(text)) <= snippetLength {
		return text
	}
	return string([]rune(text)[:snippetLength]) + "..."
}
