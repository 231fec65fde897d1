package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to folio.yml.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to folio! Let's configure your deployment.")
	fmt.Println()

	cfg := DefaultConfig()

	regionPrompt := promptui.Select{
		Label: "Select AWS region",
		Items: []string{"us-east-1", "us-west-2", "eu-west-1", "eu-central-1", "ap-northeast-1"},
	}
	_, region, err := regionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("region selection: %w", err)
	}
	cfg.Region = region

	bucketPrompt := promptui.Prompt{
		Label:   "Vector bucket name",
		Default: cfg.VectorBucket,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("bucket name is required")
			}
			return nil
		},
	}
	bucket, err := bucketPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("bucket prompt: %w", err)
	}
	cfg.VectorBucket = bucket

	indexPrompt := promptui.Prompt{
		Label:   "Vector index name",
		Default: cfg.VectorIndex,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("index name is required")
			}
			return nil
		},
	}
	index, err := indexPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("index prompt: %w", err)
	}
	cfg.VectorIndex = index

	topKPrompt := promptui.Prompt{
		Label:   "Neighbours per query (top-k)",
		Default: strconv.Itoa(cfg.TopK),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	topK, err := topKPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("top-k prompt: %w", err)
	}
	cfg.TopK, _ = strconv.Atoi(topK)

	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("must be a valid port")
			}
			return nil
		},
	}
	port, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", path)
	return cfg, nil
}
