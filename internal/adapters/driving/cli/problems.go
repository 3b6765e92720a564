package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

var (
	problemDifficulty string
	problemTopic      string
	problemLimit      int
	problemJSON       bool
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Find problems and their hints",
}

var problemsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search coding problems",
	Long: `Searches the problems partition. --difficulty restricts results to one
difficulty and --topic keeps only problems tagged with that topic.`,
	Args: cobra.ExactArgs(1),
	RunE: runProblemsSearch,
}

var problemsHintsCmd = &cobra.Command{
	Use:   "hints [problem-id]",
	Short: "Show hints for a problem",
	Args:  cobra.ExactArgs(1),
	RunE:  runProblemsHints,
}

func init() {
	problemsCmd.PersistentFlags().IntVarP(&problemLimit, "limit", "n", 0, "maximum number of results (default from settings)")
	problemsCmd.PersistentFlags().BoolVar(&problemJSON, "json", false, "output as JSON")
	problemsSearchCmd.Flags().StringVarP(&problemDifficulty, "difficulty", "d", "", "easy, medium or hard")
	problemsSearchCmd.Flags().StringVar(&problemTopic, "topic", "", "only problems tagged with this topic")

	problemsCmd.AddCommand(problemsSearchCmd)
	problemsCmd.AddCommand(problemsHintsCmd)
	rootCmd.AddCommand(problemsCmd)
}

func problemsLimit() int {
	if problemLimit > 0 {
		return problemLimit
	}
	return retrieval.NResults
}

func runProblemsSearch(cmd *cobra.Command, args []string) error {
	if problemService == nil {
		return errors.New("problem service not configured")
	}

	filter := domain.ProblemFilter{
		Difficulty: domain.ProblemDifficulty(problemDifficulty),
		Topic:      problemTopic,
	}
	if filter.Difficulty != "" && !filter.Difficulty.IsValid() {
		return fmt.Errorf("invalid difficulty %q (want easy, medium or hard)", problemDifficulty)
	}

	result, err := problemService.SearchProblems(cmd.Context(), args[0], filter, problemsLimit())
	if err != nil {
		return fmt.Errorf("problem search failed: %w", err)
	}

	if wantJSON(cmd, problemJSON) {
		return outputJSON(cmd, result)
	}
	outputSearchTable(cmd, result)
	return nil
}

func runProblemsHints(cmd *cobra.Command, args []string) error {
	if problemService == nil {
		return errors.New("problem service not configured")
	}

	hints, err := problemService.Hints(cmd.Context(), args[0], problemsLimit())
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no hints found for problem: %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get hints: %w", err)
	}

	if wantJSON(cmd, problemJSON) {
		return outputJSON(cmd, hints)
	}

	cmd.Printf("Hints for %s:\n", args[0])
	printChunks(cmd, hints)
	return nil
}
