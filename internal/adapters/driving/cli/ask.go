package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

var (
	askContext   string
	askLimit     int
	askThreshold float64
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from ingested content",
	Long: `Retrieves relevant chunks and asks the configured LLM to answer from them.
When nothing relevant is found the model answers from general knowledge and
the result says so.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askContext, "context", "c", "", "context hint, e.g. topic:Heap or problem:two-sum")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "maximum number of chunks (default from settings)")
	askCmd.Flags().Float64VarP(&askThreshold, "threshold", "t", 0, "similarity threshold in [0,1] (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	opts := queryOptions(cmd, askContext, askLimit, askThreshold)
	result := answerService.Answer(cmd.Context(), args[0], opts)

	if wantJSON(cmd, askJSON) {
		if err := outputJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputAnswer(cmd, result)
	}

	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

func outputAnswer(cmd *cobra.Command, r *domain.AnswerResult) {
	if !r.Success {
		return
	}
	cmd.Println(r.Response)
	cmd.Println()

	if r.Search.Fallback {
		cmd.Println("(No relevant material found; answered from general knowledge.)")
	}
	cmd.Printf("Context quality: %s, %d of %d chunks relevant", r.Search.ContextQuality,
		r.Search.RelevantChunks, r.Search.ChunksFound)
	if r.LLM.Model != "" {
		cmd.Printf(", model %s/%s", r.LLM.Provider, r.LLM.Model)
	}
	cmd.Println()

	var relevant []domain.RetrievedChunk
	for _, c := range r.Sources {
		if c.IsRelevant {
			relevant = append(relevant, c)
		}
	}
	if len(relevant) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		printChunks(cmd, relevant)
	}
}
