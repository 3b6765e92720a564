package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/dailybit/internal/core/domain"
	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerAddr      = "server.addr"
	keyServerTimeout   = "server.request_timeout"
	keyServerCORS      = "server.cors_origins"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedCache      = "embedding.cache"
	keyEmbedCacheTTL   = "embedding.cache_ttl"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyVectorBackend   = "vectorstore.backend"
	keyVectorPath      = "vectorstore.path"
	keyVectorDSN       = "vectorstore.dsn"
	keyVectorDims      = "vectorstore.dimensions"
	keyCatalogBackend  = "catalog.backend"
	keyCatalogPath     = "catalog.path"
	keyRedisAddr       = "redis.addr"
	keyRedisPassword   = "redis.password"
	keyRedisDB         = "redis.db"
	keyRetrievalN      = "retrieval.n_results"
	keyRetrievalThresh = "retrieval.similarity_threshold"
	keyIngestPipeline  = "ingest.pipeline"
	keyLogFormat       = "log.format"
)

// SettingsService assembles application settings from defaults, the
// config store and environment overrides, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			Addr:                  s.getString(keyServerAddr, d.Server.Addr),
			RequestTimeoutSeconds: s.getInt(keyServerTimeout, d.Server.RequestTimeoutSeconds),
			CORSOrigins:           s.configStore.GetStringSlice(keyServerCORS),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:        s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:           s.configStore.GetString(keyEmbedModel),
			BaseURL:         s.configStore.GetString(keyEmbedBaseURL),
			APIKey:          s.configStore.GetString(keyEmbedAPIKey),
			Cache:           domain.EmbeddingCache(s.getString(keyEmbedCache, string(d.Embedding.Cache))),
			CacheTTLSeconds: s.configStore.GetInt(keyEmbedCacheTTL),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:       s.configStore.GetString(keyLLMModel),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend:    domain.VectorBackend(s.getString(keyVectorBackend, string(d.VectorStore.Backend))),
			Path:       s.configStore.GetString(keyVectorPath),
			DSN:        s.configStore.GetString(keyVectorDSN),
			Dimensions: s.configStore.GetInt(keyVectorDims),
		},
		Catalog: domain.CatalogSettings{
			Backend: domain.CatalogBackend(s.getString(keyCatalogBackend, string(d.Catalog.Backend))),
			Path:    s.configStore.GetString(keyCatalogPath),
		},
		Redis: domain.RedisSettings{
			Addr:     s.getString(keyRedisAddr, d.Redis.Addr),
			Password: s.configStore.GetString(keyRedisPassword),
			DB:       s.configStore.GetInt(keyRedisDB),
		},
		Retrieval: domain.RetrievalSettings{
			NResults:            s.getInt(keyRetrievalN, d.Retrieval.NResults),
			SimilarityThreshold: s.getFloat(keyRetrievalThresh, d.Retrieval.SimilarityThreshold),
		},
		Pipeline: d.Pipeline,
		Log: domain.LogSettings{
			Format: s.getString(keyLogFormat, d.Log.Format),
		},
	}

	if names := s.configStore.GetStringSlice(keyIngestPipeline); len(names) > 0 {
		settings.Pipeline.Processors = names
	}

	s.applyEnv(settings)
	applyModelDefaults(settings)

	return settings, nil
}

// Set stores a single config value and persists the file.
func (s *SettingsService) Set(key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty settings key", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Validate checks that the configured collaborators can be constructed.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: embedding provider %q", domain.ErrNotConfigured, settings.Embedding.Provider))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: llm provider %q needs an API key", domain.ErrNotConfigured, settings.LLM.Provider))
	}
	if !settings.VectorStore.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown vector store backend %q", domain.ErrInvalidInput, settings.VectorStore.Backend))
	}
	if settings.VectorStore.Backend == domain.VectorBackendPgvector && settings.VectorStore.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: pgvector requires vectorstore.dsn", domain.ErrNotConfigured))
	}
	switch settings.Catalog.Backend {
	case domain.CatalogBackendSQLite, domain.CatalogBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown catalog backend %q", domain.ErrInvalidInput, settings.Catalog.Backend))
	}
	switch settings.Embedding.Cache {
	case domain.EmbeddingCacheNone, domain.EmbeddingCacheRedis:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown embedding cache %q", domain.ErrInvalidInput, settings.Embedding.Cache))
	}
	if t := settings.Retrieval.SimilarityThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("%w: similarity threshold %.2f outside [0,1]", domain.ErrInvalidInput, t))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// applyEnv overrides settings from the environment. The first variable
// set in each list wins.
func (s *SettingsService) applyEnv(st *domain.AppSettings) {
	if v, ok := s.env("DAILYBIT_SERVER_ADDR"); ok {
		st.Server.Addr = v
	} else if port, ok := s.env("API_PORT"); ok {
		host, _ := s.env("API_HOST")
		st.Server.Addr = host + ":" + port
	}

	if v, ok := s.env("DAILYBIT_LLM_PROVIDER"); ok && domain.AIProvider(v).IsValid() {
		st.LLM.Provider = domain.AIProvider(v)
	}
	if v, ok := s.env("DAILYBIT_LLM_MODEL", "MODEL_NAME"); ok {
		st.LLM.Model = v
	}
	if v, ok := s.env("DAILYBIT_LLM_API_KEY"); ok {
		st.LLM.APIKey = v
	} else if v, ok := s.env(providerKeyEnv(st.LLM.Provider)); ok {
		st.LLM.APIKey = v
	}

	if v, ok := s.env("DAILYBIT_EMBEDDING_PROVIDER"); ok && domain.AIProvider(v).IsValid() {
		st.Embedding.Provider = domain.AIProvider(v)
	}
	if v, ok := s.env("DAILYBIT_EMBEDDING_MODEL", "EMBEDDING_MODEL"); ok {
		st.Embedding.Model = v
	}
	if v, ok := s.env("DAILYBIT_EMBEDDING_API_KEY"); ok {
		st.Embedding.APIKey = v
	} else if v, ok := s.env(providerKeyEnv(st.Embedding.Provider)); ok {
		st.Embedding.APIKey = v
	}

	if v, ok := s.env("DAILYBIT_VECTORSTORE_BACKEND"); ok {
		st.VectorStore.Backend = domain.VectorBackend(v)
	}
	if v, ok := s.env("DAILYBIT_VECTORSTORE_PATH", "CHROMA_DB_PATH"); ok {
		st.VectorStore.Path = v
	}
	if v, ok := s.env("DAILYBIT_VECTORSTORE_DSN", "DATABASE_URL"); ok {
		st.VectorStore.DSN = v
	}
	if v, ok := s.env("DAILYBIT_REDIS_ADDR", "REDIS_ADDR"); ok {
		st.Redis.Addr = v
	}
	if v, ok := s.env("DAILYBIT_RETRIEVAL_THRESHOLD"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			st.Retrieval.SimilarityThreshold = f
		}
	}
	if v, ok := s.env("LOG_LEVEL"); ok && strings.EqualFold(v, "debug") {
		st.Log.Verbose = true
	}
}

// env returns the first non-empty variable among names.
func (s *SettingsService) env(names ...string) (string, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v, ok := s.getenv(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// providerKeyEnv names the conventional API key variable for a provider.
func providerKeyEnv(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderGroq:
		return "GROQ_API_KEY"
	case domain.AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case domain.AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case domain.AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// applyModelDefaults fills models and dimensions left empty after all layers.
func applyModelDefaults(st *domain.AppSettings) {
	if st.Embedding.Model == "" {
		st.Embedding.Model = domain.DefaultEmbeddingModels()[st.Embedding.Provider]
	}
	if st.LLM.Model == "" {
		st.LLM.Model = domain.DefaultLLMModels()[st.LLM.Provider]
	}
	if st.VectorStore.Dimensions == 0 {
		if d, ok := domain.EmbeddingDimensions()[st.Embedding.Model]; ok {
			st.VectorStore.Dimensions = d
		} else {
			st.VectorStore.Dimensions = domain.DefaultAppSettings().VectorStore.Dimensions
		}
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
