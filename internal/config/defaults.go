package config

// Model identifiers for the managed Bedrock collaborators. Titan embed v2
// produces 1024-dimension vectors; the index must be created with the same
// dimensionality.
const (
	DefaultEmbeddingModel  = "amazon.titan-embed-text-v2:0"
	DefaultGenerationModel = "amazon.titan-text-premier-v1:0"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Region:              "us-east-1",
		EmbeddingModel:      DefaultEmbeddingModel,
		EmbeddingDimensions: 1024,
		GenerationModel:     DefaultGenerationModel,
		VectorBucket:        "shakespeare-rag-vector-bucket",
		VectorIndex:         "hamlet-shakespeare-index",
		TopK:                3,
		ChunkSize:           1000,
		ChunkOverlap:        200,
		MaxChunkChars:       8000,
		PromptBudgetChars:   12000,
		MaxConcurrency:      5,
		CallTimeoutSeconds:  30,
		RetryMax:            3,
		Server: ServerConfig{
			Port:                  8080,
			RequestTimeoutSeconds: 120,
		},
	}
}
