package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/connectors/filesystem"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
	"github.com/custodia-labs/dailybit/internal/logger"
)

var (
	ingestKind     string
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Ingest topic and problem files",
	Long: `Ingest JSON or YAML content files into the vector store.

Each file holds a single topic or problem, or a list of them. Directories are
walked recursively and hidden entries are skipped. Unless --kind is given, each
entry is classified by its fields; an explicit "kind" field always wins.

With --watch, the command keeps running and re-ingests files as they change.
Deleting a file removes the documents it contained.

Examples:
  dailybit ingest content/
  dailybit ingest --kind problem problems/two-sum.yaml
  dailybit ingest --watch content/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestKind, "kind", "k", "", "document kind: topic, problem or auto")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch paths and re-ingest on change")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", filesystem.DefaultDebounce, "settle time before a change is ingested")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	kind, err := filesystem.ParseKind(ingestKind)
	if err != nil {
		return err
	}

	files, err := filesystem.Discover(args)
	if err != nil {
		return err
	}
	if len(files) == 0 && !ingestWatch {
		cmd.Println("No content files found.")
		return nil
	}

	ing := newIngester(cmd, ingestService, kind)
	failed := 0
	for _, f := range files {
		if !ing.ingestFile(cmd.Context(), f) {
			failed++
		}
	}
	cmd.Printf("Ingested %d documents from %d files", ing.documents, len(files)-failed)
	if failed > 0 {
		cmd.Printf(" (%d files failed)", failed)
	}
	cmd.Println()

	if !ingestWatch {
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(files))
		}
		return nil
	}

	w, err := filesystem.NewWatcher(args, ingestDebounce)
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	return w.Run(ctx, func(ch filesystem.Change) {
		ing.apply(ctx, ch)
	})
}

// docRef locates an ingested document.
type docRef struct {
	partition domain.Partition
	id        string
}

// ingester remembers which documents each file produced so edits and
// deletions can remove documents that are gone.
type ingester struct {
	cmd       *cobra.Command
	svc       driving.IngestService
	kind      filesystem.Kind
	refs      map[string][]docRef
	documents int
}

func newIngester(cmd *cobra.Command, svc driving.IngestService, kind filesystem.Kind) *ingester {
	return &ingester{
		cmd:  cmd,
		svc:  svc,
		kind: kind,
		refs: make(map[string][]docRef),
	}
}

// ingestFile loads and ingests every document in path. It reports false
// when the file could not be decoded or any of its documents failed.
func (g *ingester) ingestFile(ctx context.Context, path string) bool {
	path = filepath.Clean(path)
	docs, err := filesystem.LoadFile(path, g.kind)
	if err != nil {
		g.cmd.PrintErrf("  ✗ %v\n", err)
		return false
	}

	ok := true
	var refs []docRef
	for _, doc := range docs {
		res, err := g.svc.Ingest(ctx, doc)
		if err != nil {
			g.cmd.PrintErrf("  ✗ %s: %q: %v\n", path, doc.DocumentTitle(), err)
			ok = false
			continue
		}
		g.documents++
		refs = append(refs, docRef{partition: res.Partition, id: res.DocumentID})
		g.cmd.Printf("  ✓ %s %q (%d chunks", res.Partition, doc.DocumentTitle(), res.ChunksCreated)
		if res.StaleRemoved > 0 {
			g.cmd.Printf(", %d stale removed", res.StaleRemoved)
		}
		g.cmd.Println(")")
	}

	g.forgetMissing(ctx, path, refs)
	g.refs[path] = refs
	return ok
}

// forgetMissing deletes documents path used to contain but no longer does.
func (g *ingester) forgetMissing(ctx context.Context, path string, current []docRef) {
	keep := make(map[docRef]struct{}, len(current))
	for _, r := range current {
		keep[r] = struct{}{}
	}
	for _, r := range g.refs[path] {
		if _, ok := keep[r]; ok {
			continue
		}
		g.delete(ctx, r)
	}
}

func (g *ingester) delete(ctx context.Context, r docRef) {
	err := g.svc.Delete(ctx, r.partition, r.id)
	switch {
	case err == nil:
		g.cmd.Printf("  - removed %s %q\n", r.partition, r.id)
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("Document %s/%s already gone", r.partition, r.id)
	default:
		g.cmd.PrintErrf("  ✗ removing %s %q: %v\n", r.partition, r.id, err)
	}
}

func (g *ingester) apply(ctx context.Context, ch filesystem.Change) {
	path := filepath.Clean(ch.Path)
	switch ch.Type {
	case filesystem.ChangeDeleted:
		for _, r := range g.refs[path] {
			g.delete(ctx, r)
		}
		delete(g.refs, path)
	case filesystem.ChangeUpdated:
		g.ingestFile(ctx, path)
	}
}
