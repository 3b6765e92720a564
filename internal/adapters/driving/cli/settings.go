package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml in the configuration directory.

Environment variables (DAILYBIT_*, GROQ_API_KEY, DATABASE_URL and friends)
override stored values.`,
	Annotations: map[string]string{annotationInit: initSettings},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a dotted key such as llm.provider, retrieval.similarity_threshold or
server.cors_origins. Comma-separated values are stored as lists for list keys.
API keys are read from the terminal without echo when the value is omitted.

Examples:
  dailybit settings set llm.provider groq
  dailybit settings set retrieval.n_results 8
  dailybit settings set llm.api_key`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration",
	RunE:  runSettingsValidate,
}

// listKeys hold string lists.
var listKeys = map[string]bool{
	"server.cors_origins": true,
	"ingest.pipeline":     true,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Request timeout: %ds\n", settings.Server.RequestTimeoutSeconds)
	if len(settings.Server.CORSOrigins) > 0 {
		cmd.Printf("  CORS origins: %s\n", strings.Join(settings.Server.CORSOrigins, ", "))
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider.RequiresAPIKey(), settings.Embedding.APIKey)
	cmd.Printf("  Cache: %s\n", settings.Embedding.Cache)
	printStatus(cmd, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider.RequiresAPIKey(), settings.LLM.APIKey)
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Backend: %s\n", settings.VectorStore.Backend)
	if settings.VectorStore.Path != "" {
		cmd.Printf("  Path: %s\n", settings.VectorStore.Path)
	}
	if settings.VectorStore.DSN != "" {
		cmd.Printf("  DSN: %s\n", maskAPIKey(settings.VectorStore.DSN))
	}
	cmd.Printf("  Dimensions: %d\n", settings.VectorStore.Dimensions)
	cmd.Printf("  Catalog: %s\n", settings.Catalog.Backend)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Results per query: %d\n", settings.Retrieval.NResults)
	cmd.Printf("  Similarity threshold: %.2f\n", settings.Retrieval.SimilarityThreshold)
	cmd.Printf("  Pipeline: %s\n", strings.Join(settings.Pipeline.Processors, " -> "))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'dailybit settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := strings.TrimSpace(args[0])
	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else {
		if !strings.HasSuffix(key, "api_key") && !strings.HasSuffix(key, "password") {
			return fmt.Errorf("a value is required for %s", key)
		}
		cmd.Printf("Enter value for %s: ", key)
		raw = readPassword(cmd.InOrStdin())
		cmd.Println()
		if raw == "" {
			return errors.New("empty value")
		}
	}

	if err := settingsService.Set(key, parseValue(key, raw)); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	shown := raw
	if strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "password") {
		shown = maskAPIKey(raw)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// parseValue converts a command line value to the type stored in TOML.
func parseValue(key, raw string) any {
	raw = strings.TrimSpace(raw)
	if listKeys[key] {
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func printAPIKey(cmd *cobra.Command, required bool, key string) {
	if !required {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
