package config

// Config is the top-level folio configuration, corresponding to folio.yml.
// It is loaded once at process start and injected explicitly into each
// component; nothing reads ambient environment state after startup.
type Config struct {
	// AWS region hosting Bedrock and the S3 vector bucket.
	Region string `yaml:"region" koanf:"region"`

	// Bedrock model identifiers. The embedding model must be the same at
	// index-build time and query time: similarity search over vectors of
	// mixed provenance is meaningless.
	EmbeddingModel      string `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	GenerationModel     string `yaml:"generation_model" koanf:"generation_model"`

	// S3 Vectors bucket and index holding the passage embeddings.
	VectorBucket string `yaml:"vector_bucket" koanf:"vector_bucket"`
	VectorIndex  string `yaml:"vector_index" koanf:"vector_index"`

	// Number of nearest neighbours requested per query.
	TopK int `yaml:"top_k" koanf:"top_k"`

	// Chunking parameters for the index builder.
	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`

	// MaxChunkChars guards the embedding model's input limit. Chunks above
	// this size are rejected with an error rather than silently truncated.
	MaxChunkChars int `yaml:"max_chunk_chars" koanf:"max_chunk_chars"`

	// PromptBudgetChars caps the assembled generation prompt. Retrieved
	// passages are dropped lowest-ranked-first to stay under it.
	PromptBudgetChars int `yaml:"prompt_budget_chars" koanf:"prompt_budget_chars"`

	// MaxConcurrency bounds parallel embedding calls during index builds.
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`

	// CallTimeoutSeconds bounds each outbound model or index call.
	CallTimeoutSeconds int `yaml:"call_timeout_seconds" koanf:"call_timeout_seconds"`

	// RetryMax is the number of additional attempts for retryable
	// (throttling) upstream failures. Zero disables retries.
	RetryMax int `yaml:"retry_max" koanf:"retry_max"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`

	// APIKey enables local x-api-key enforcement when folio runs without a
	// gateway in front. Empty means the gateway is the sole validator.
	// Loaded from FOLIO_SERVER_API_KEY; never written to folio.yml.
	APIKey string `yaml:"-" koanf:"api_key"`

	// RequestTimeoutSeconds is the whole-request budget; outbound call
	// timeouts must fit inside it.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`

	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
