package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/dailybit/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the REST API under /api/v1 together with /health and /metrics.
The listen address defaults to server.addr from settings (":8000").`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := apiServices()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = serverSettings.Addr
	}

	server := httpapi.NewServer(svc, httpapi.Config{
		Addr:           addr,
		RequestTimeout: time.Duration(serverSettings.RequestTimeoutSeconds) * time.Second,
		CORSOrigins:    serverSettings.CORSOrigins,
		Retrieval:      retrieval,
	}, logger.Zap())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("dailybit API listening on %s\n", addr)
	return server.ListenAndServe(ctx)
}

func apiServices() (httpapi.Services, error) {
	if ingestService == nil || searchService == nil || answerService == nil || problemService == nil {
		return httpapi.Services{}, errors.New("services not configured")
	}
	svc := httpapi.Services{
		Ingest:   ingestService,
		Search:   searchService,
		Answer:   answerService,
		Problems: problemService,
	}
	if metricsRecorder != nil {
		svc.Metrics = metricsRecorder
	}
	return svc, nil
}
