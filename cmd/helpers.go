package cmd

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"

	"github.com/calswann/folio/internal/config"
	"github.com/calswann/folio/internal/embeddings"
	"github.com/calswann/folio/internal/llm"
	"github.com/calswann/folio/internal/vectorstore"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `folio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// awsClients holds the service clients every command shares.
type awsClients struct {
	bedrock *bedrockruntime.Client
	vectors *s3vectors.Client
}

func newAWSClients(ctx context.Context, cfg *config.Config) (*awsClients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &awsClients{
		bedrock: bedrockruntime.NewFromConfig(awsCfg),
		vectors: s3vectors.NewFromConfig(awsCfg),
	}, nil
}

func newEmbedder(clients *awsClients, cfg *config.Config) embeddings.Embedder {
	return embeddings.NewTitanEmbedder(
		clients.bedrock,
		cfg.EmbeddingModel,
		cfg.EmbeddingDimensions,
		time.Duration(cfg.CallTimeoutSeconds)*time.Second,
	)
}

func newGenerator(clients *awsClients, cfg *config.Config) llm.Generator {
	return llm.NewTitanGenerator(
		clients.bedrock,
		cfg.GenerationModel,
		time.Duration(cfg.CallTimeoutSeconds)*time.Second,
	)
}

func newVectorStore(clients *awsClients, cfg *config.Config) vectorstore.Store {
	return vectorstore.NewS3VectorsStore(
		clients.vectors,
		cfg.VectorBucket,
		cfg.VectorIndex,
		time.Duration(cfg.CallTimeoutSeconds)*time.Second,
	)
}
