package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama && p.IsValid()
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud, OpenAI-compatible)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend selects the vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendChromem is an embedded, file-persisted store.
	VectorBackendChromem VectorBackend = "chromem"

	// VectorBackendPgvector is PostgreSQL with the pgvector extension.
	VectorBackendPgvector VectorBackend = "pgvector"

	// VectorBackendMemory is a process-local store, lost on exit.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendChromem, VectorBackendPgvector, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// CatalogBackend selects the document catalog implementation.
type CatalogBackend string

// Available catalog backends.
const (
	CatalogBackendSQLite CatalogBackend = "sqlite"
	CatalogBackendMemory CatalogBackend = "memory"
)

// EmbeddingCache selects an optional embedding cache.
type EmbeddingCache string

// Available embedding caches.
const (
	EmbeddingCacheNone  EmbeddingCache = "none"
	EmbeddingCacheRedis EmbeddingCache = "redis"
)

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RequestTimeoutSeconds bounds a single request.
	RequestTimeoutSeconds int

	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Cache selects an optional embedding cache.
	Cache EmbeddingCache

	// CacheTTLSeconds is how long cached vectors live. Zero keeps them forever.
	CacheTTLSeconds int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens bounds the generated answer.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Backend selects the implementation.
	Backend VectorBackend

	// Path is the chromem persistence directory.
	Path string

	// DSN is the PostgreSQL connection string for pgvector.
	DSN string

	// Dimensions is the embedding vector size (pgvector column type).
	Dimensions int
}

// CatalogSettings holds document catalog configuration.
type CatalogSettings struct {
	Backend CatalogBackend
	Path    string
}

// RedisSettings holds Redis connection configuration.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

// RetrievalSettings holds query defaults.
type RetrievalSettings struct {
	// NResults is the default number of chunks per query.
	NResults int

	// SimilarityThreshold is the default relevance and success cutoff.
	SimilarityThreshold float64
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Format is "console" or "json".
	Format string

	// Verbose enables debug output.
	Verbose bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server      ServerSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Catalog     CatalogSettings
	Redis       RedisSettings
	Retrieval   RetrievalSettings
	Pipeline    PipelineConfig
	Log         LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM defaults to Groq and needs an API key before answers can be generated.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Addr:                  ":8000",
			RequestTimeoutSeconds: 60,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			Cache:    EmbeddingCacheNone,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGroq,
			Model:       DefaultLLMModels()[AIProviderGroq],
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		VectorStore: VectorStoreSettings{
			Backend:    VectorBackendChromem,
			Dimensions: 768, // nomic-embed-text default
		},
		Catalog: CatalogSettings{
			Backend: CatalogBackendSQLite,
		},
		Redis: RedisSettings{
			Addr: "localhost:6379",
		},
		Retrieval: RetrievalSettings{
			NResults:            DefaultResultLimit,
			SimilarityThreshold: DefaultSimilarityThreshold,
		},
		Pipeline: DefaultPipelineConfig(),
		Log: LogSettings{
			Format: "console",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:      "openai/gpt-oss-120b",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default ingestion pipeline.
// The structured chunker must run first; normalise tidies its output.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "normalise"},
		ProcessorConfigs: map[string]map[string]any{
			"normalise": {
				"max_blank_lines": 1,
			},
		},
	}
}
