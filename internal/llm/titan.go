package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockInvoker is the slice of the Bedrock runtime client used here,
// narrowed for testability.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// titanTextRequest is the request body for Titan text generation models.
type titanTextRequest struct {
	InputText            string          `json:"inputText"`
	TextGenerationConfig titanTextConfig `json:"textGenerationConfig"`
}

type titanTextConfig struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
	MaxTokenCount int     `json:"maxTokenCount"`
}

// titanTextResponse is the response body from Titan text generation models.
type titanTextResponse struct {
	Results []titanTextResult `json:"results"`
}

type titanTextResult struct {
	OutputText       string `json:"outputText"`
	CompletionReason string `json:"completionReason"`
	TokenCount       int    `json:"tokenCount"`
}

// TitanGenerator produces text with an Amazon Titan model on Bedrock.
type TitanGenerator struct {
	client      BedrockInvoker
	modelID     string
	temperature float64
	topP        float64
	maxTokens   int
	callTimeout time.Duration
}

// NewTitanGenerator creates a generator for the given Titan text model.
func NewTitanGenerator(client BedrockInvoker, modelID string, callTimeout time.Duration) *TitanGenerator {
	return &TitanGenerator{
		client:      client,
		modelID:     modelID,
		temperature: 0.3,
		topP:        0.9,
		maxTokens:   1000,
		callTimeout: callTimeout,
	}
}

func (g *TitanGenerator) Name() string { return g.modelID }

// Generate sends the prompt to the model and returns the generated text.
func (g *TitanGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("cannot generate from empty prompt")
	}

	body, err := json.Marshal(titanTextRequest{
		InputText: prompt,
		TextGenerationConfig: titanTextConfig{
			Temperature:   g.temperature,
			TopP:          g.topP,
			MaxTokenCount: g.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshalling generation request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	output, err := g.client.InvokeModel(callCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoking %s: %w", g.modelID, err)
	}

	var resp titanTextResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("parsing generation response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("model %s returned no results", g.modelID)
	}

	return strings.TrimSpace(resp.Results[0].OutputText), nil
}
