// Package cli implements the dailybit command line.
//
// Commands share package-level service handles built once per invocation by
// the root command's PersistentPreRunE. Tests swap the handles for mocks.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/metrics"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
)

// Annotation controlling how much of the application a command needs.
const (
	annotationInit = "dailybit.init"
	initNone       = "none"
	initSettings   = "settings"
)

var (
	version   = "dev"
	configDir string
	verbose   bool

	settingsService driving.SettingsService
	ingestService   driving.IngestService
	searchService   driving.SearchService
	answerService   driving.AnswerService
	problemService  driving.ProblemService
	metricsRecorder *metrics.Recorder

	retrieval      = domain.DefaultAppSettings().Retrieval
	serverSettings = domain.DefaultAppSettings().Server

	closers []func() error
)

// initServices builds the services a command needs. Replaced in tests.
var initServices = buildServices

var rootCmd = &cobra.Command{
	Use:   "dailybit",
	Short: "Study assistant for data structures and algorithms",
	Long: `dailybit ingests programming topics and coding problems, embeds them into a
vector store and answers questions with retrieval-augmented generation.

Run 'dailybit serve' for the HTTP API or 'dailybit mcp serve' for AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if initMode(cmd) == initNone {
			return nil
		}
		return initServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.dailybit)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by 'dailybit version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and releases services afterwards.
func ExecuteContext(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// initMode returns the nearest init annotation on cmd or its parents.
func initMode(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if mode, ok := c.Annotations[annotationInit]; ok {
			return mode
		}
	}
	return ""
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
	closers = nil
}

// wantJSON reports whether output should be JSON: when asked for, or when
// stdout is redirected away from a terminal.
func wantJSON(cmd *cobra.Command, flag bool) bool {
	if flag {
		return true
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && !term.IsTerminal(int(f.Fd()))
}
