package embeddings

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

// titanEmbedRequest is the request body for Titan embedding models.
type titanEmbedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

// titanEmbedResponse is the response body from Titan embedding models.
type titanEmbedResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// TitanEmbedder generates embeddings with an Amazon Titan model on Bedrock.
type TitanEmbedder struct {
	client      BedrockInvoker
	modelID     string
	dimensions  int
	callTimeout time.Duration
}

// NewTitanEmbedder creates an embedder for the given Titan model. Every
// InvokeModel call is bounded by callTimeout.
func NewTitanEmbedder(client BedrockInvoker, modelID string, dimensions int, callTimeout time.Duration) *TitanEmbedder {
	return &TitanEmbedder{
		client:      client,
		modelID:     modelID,
		dimensions:  dimensions,
		callTimeout: callTimeout,
	}
}

func (e *TitanEmbedder) Name() string { return e.modelID }

func (e *TitanEmbedder) Dimensions() int { return e.dimensions }

// Embed generates one embedding per input text. Titan models accept a
// single input per call, so texts are embedded sequentially; callers that
// need throughput run multiple Embed calls concurrently.
func (e *TitanEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("cannot embed empty text")
		}

		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (e *TitanEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanEmbedRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling embed request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	output, err := e.client.InvokeModel(callCtx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking %s: %w", e.modelID, err)
	}

	var resp titanEmbedResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("parsing embed response: %w", err)
	}

	// A vector of unexpected dimensionality would silently poison
	// similarity search; fail loudly instead.
	if len(resp.Embedding) != e.dimensions {
		return nil, fmt.Errorf("model %s returned %d dimensions, expected %d",
			e.modelID, len(resp.Embedding), e.dimensions)
	}

	return resp.Embedding, nil
}
