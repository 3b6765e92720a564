package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailybit/internal/adapters/driven/ai"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/embedding/cache"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/metrics"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/validation"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/vectorstore/chromem"
	"github.com/custodia-labs/dailybit/internal/adapters/driven/vectorstore/pgvector"
	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/core/services"
	"github.com/custodia-labs/dailybit/internal/logger"
	"github.com/custodia-labs/dailybit/internal/postprocessors"
)

// buildServices wires adapters into services. Commands annotated with
// initSettings only get the settings service, so a broken provider
// configuration can still be inspected and fixed.
func buildServices(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	dir := configDir
	if dir == "" {
		d, err := file.DefaultConfigDir()
		if err != nil {
			return err
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	st, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	logger.SetFormat(st.Log.Format)
	logger.SetVerbose(verbose || st.Log.Verbose)
	retrieval = st.Retrieval
	serverSettings = st.Server

	if initMode(cmd) == initSettings {
		return nil
	}
	return buildCore(ctx, st, dir)
}

func buildCore(ctx context.Context, st *domain.AppSettings, dir string) error {
	aiServices, err := ai.Build(ctx, st, false)
	if err != nil {
		return fmt.Errorf("creating AI services: %w", err)
	}
	closers = append(closers, func() error {
		aiServices.Close()
		return nil
	})

	var embedder driven.EmbeddingService = aiServices.Embedding
	if st.Embedding.Cache == domain.EmbeddingCacheRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     st.Redis.Addr,
			Password: st.Redis.Password,
			DB:       st.Redis.DB,
		})
		closers = append(closers, rdb.Close)
		embedder = cache.New(embedder, rdb, time.Duration(st.Embedding.CacheTTLSeconds)*time.Second)
		logger.Debug("Embedding cache: redis at %s", st.Redis.Addr)
	}

	vectors, err := openVectorStore(ctx, st.VectorStore, dir)
	if err != nil {
		return err
	}
	closers = append(closers, vectors.Close)

	catalog, err := openCatalog(st.Catalog, dir)
	if err != nil {
		return err
	}
	closers = append(closers, catalog.Close)

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, st.Pipeline)
	if err != nil {
		return fmt.Errorf("building ingest pipeline: %w", err)
	}

	metricsRecorder = metrics.New()
	resolver := services.NewContextResolver(services.NewKeywordClassifier())
	retriever := services.NewRetriever(embedder, vectors)

	ingestService = services.NewIngestService(validation.New(), pipeline, embedder, vectors, catalog, metricsRecorder)
	searchService = services.NewSearchService(resolver, retriever, metricsRecorder)
	answerService = services.NewAnswerService(resolver, retriever, aiServices.LLM, prompts,
		services.WithChatOptions(driven.ChatOptions{
			MaxTokens:   st.LLM.MaxTokens,
			Temperature: st.LLM.Temperature,
		}),
		services.WithAnswerMetrics(metricsRecorder),
	)
	problemService = services.NewProblemService(retriever, st.Retrieval.SimilarityThreshold)
	return nil
}

func openVectorStore(ctx context.Context, cfg domain.VectorStoreSettings, dir string) (driven.VectorStore, error) {
	switch cfg.Backend {
	case domain.VectorBackendMemory:
		logger.Warn("Using in-memory vector store; ingested content is lost on exit")
		return memory.NewVectorStore(), nil
	case domain.VectorBackendPgvector:
		store, err := pgvector.New(ctx, cfg.DSN, cfg.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("opening pgvector: %w", err)
		}
		return store, nil
	case domain.VectorBackendChromem, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dir, "vectors")
		}
		store, err := chromem.New(path)
		if err != nil {
			return nil, fmt.Errorf("opening chromem store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown vector store backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

func openCatalog(cfg domain.CatalogSettings, dir string) (driven.DocumentCatalog, error) {
	switch cfg.Backend {
	case domain.CatalogBackendMemory:
		return memory.NewCatalog(), nil
	case domain.CatalogBackendSQLite, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dir, "data")
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown catalog backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
