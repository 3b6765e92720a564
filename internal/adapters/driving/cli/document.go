package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

var documentJSON bool

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view and delete ingested topics and problems.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [partition]",
	Short: "List documents in a partition",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [partition] [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [partition] [doc-id]",
	Short: "Print the document as it was ingested",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [partition] [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentDelete,
}

var documentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk counts per partition",
	Args:  cobra.NoArgs,
	RunE:  runDocumentStats,
}

func init() {
	documentCmd.PersistentFlags().BoolVar(&documentJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentStatsCmd)
	rootCmd.AddCommand(documentCmd)
}

func parsePartitionArg(s string) (domain.Partition, error) {
	p, ok := domain.ParsePartition(s)
	if !ok {
		return "", fmt.Errorf("unknown partition %q (want topics or problems)", s)
	}
	return p, nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	partition, err := parsePartitionArg(args[0])
	if err != nil {
		return err
	}

	docs, err := ingestService.List(cmd.Context(), partition)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if wantJSON(cmd, documentJSON) {
		if docs == nil {
			docs = []domain.DocumentRecord{}
		}
		return outputJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found in %s\n", partition)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", partition)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount())
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	rec, err := getDocument(cmd, args)
	if err != nil {
		return err
	}

	if wantJSON(cmd, documentJSON) {
		return outputJSON(cmd, rec)
	}

	cmd.Printf("ID: %s\n", rec.ID)
	cmd.Printf("Partition: %s\n", rec.Partition)
	cmd.Printf("Title: %s\n", rec.Title)
	cmd.Printf("Chunks: %d\n", rec.ChunkCount())
	cmd.Printf("Ingested: %s\n", rec.IngestedAt.Format(time.RFC3339))
	cmd.Printf("Updated: %s\n", rec.UpdatedAt.Format(time.RFC3339))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	rec, err := getDocument(cmd, args)
	if err != nil {
		return err
	}
	if len(rec.Payload) == 0 {
		return fmt.Errorf("no stored content for %s", rec.ID)
	}
	cmd.Println(string(rec.Payload))
	return nil
}

func getDocument(cmd *cobra.Command, args []string) (*domain.DocumentRecord, error) {
	if ingestService == nil {
		return nil, errors.New("ingest service not configured")
	}
	partition, err := parsePartitionArg(args[0])
	if err != nil {
		return nil, err
	}

	rec, err := ingestService.Get(cmd.Context(), partition, args[1])
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("document not found: %s", args[1])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return rec, nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	partition, err := parsePartitionArg(args[0])
	if err != nil {
		return err
	}

	err = ingestService.Delete(cmd.Context(), partition, args[1])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document not found: %s", args[1])
	}
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s from %s\n", args[1], partition)
	return nil
}

func runDocumentStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	if wantJSON(cmd, documentJSON) {
		return outputJSON(cmd, stats)
	}

	partitions := make([]string, 0, len(stats))
	for p := range stats {
		partitions = append(partitions, string(p))
	}
	sort.Strings(partitions)
	for _, p := range partitions {
		cmd.Printf("%-10s %d chunks\n", p, stats[domain.Partition(p)])
	}
	return nil
}
