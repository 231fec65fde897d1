package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FOLIO_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: FOLIO_REGION -> region,
	// FOLIO_SERVER_API_KEY -> server.api_key, etc.
	if err := k.Load(env.Provider("FOLIO_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "FOLIO_"))
		if rest, ok := strings.CutPrefix(s, "server_"); ok {
			return "server." + rest
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path. The server
// API key is deliberately excluded: it is a secret and lives only in the
// gateway or the FOLIO_SERVER_API_KEY environment variable.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding_dimensions must be positive")
	}
	if c.GenerationModel == "" {
		return fmt.Errorf("generation_model is required")
	}
	if c.VectorBucket == "" {
		return fmt.Errorf("vector_bucket is required")
	}
	if c.VectorIndex == "" {
		return fmt.Errorf("vector_index is required")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be non-negative and smaller than chunk_size")
	}
	if c.MaxChunkChars < c.ChunkSize {
		return fmt.Errorf("max_chunk_chars must be at least chunk_size")
	}
	if c.PromptBudgetChars < 1 {
		return fmt.Errorf("prompt_budget_chars must be positive")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}
	if c.CallTimeoutSeconds < 1 {
		return fmt.Errorf("call_timeout_seconds must be positive")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	// Outbound calls must fail inside the request budget, not after it.
	if c.CallTimeoutSeconds > c.Server.RequestTimeoutSeconds {
		return fmt.Errorf("call_timeout_seconds (%d) exceeds server request_timeout_seconds (%d)",
			c.CallTimeoutSeconds, c.Server.RequestTimeoutSeconds)
	}
	return nil
}
