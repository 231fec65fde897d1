package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	calls     int
	lastInput *bedrockruntime.InvokeModelInput
	respond   func(input *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	f.lastInput = params
	return f.respond(params)
}

func embedResponse(dims int) *bedrockruntime.InvokeModelOutput {
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	body, _ := json.Marshal(titanEmbedResponse{Embedding: vec, InputTextTokenCount: 7})
	return &bedrockruntime.InvokeModelOutput{Body: body}
}

func TestEmbedReturnsVectorPerText(t *testing.T) {
	fake := &fakeInvoker{respond: func(*bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return embedResponse(1024), nil
	}}
	e := NewTitanEmbedder(fake, "amazon.titan-embed-text-v2:0", 1024, 10*time.Second)

	vecs, err := e.Embed(context.Background(), []string{"to be", "or not to be"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if len(vecs[0]) != 1024 {
		t.Errorf("expected 1024 dims, got %d", len(vecs[0]))
	}
	if fake.calls != 2 {
		t.Errorf("expected one InvokeModel call per text, got %d", fake.calls)
	}
}

func TestEmbedRequestShape(t *testing.T) {
	fake := &fakeInvoker{respond: func(*bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return embedResponse(1024), nil
	}}
	e := NewTitanEmbedder(fake, "amazon.titan-embed-text-v2:0", 1024, 10*time.Second)

	if _, err := e.Embed(context.Background(), []string{"alas poor Yorick"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if got := *fake.lastInput.ModelId; got != "amazon.titan-embed-text-v2:0" {
		t.Errorf("model id = %q", got)
	}
	var req titanEmbedRequest
	if err := json.Unmarshal(fake.lastInput.Body, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.InputText != "alas poor Yorick" {
		t.Errorf("inputText = %q", req.InputText)
	}
	if req.Dimensions != 1024 {
		t.Errorf("dimensions = %d, want 1024", req.Dimensions)
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	fake := &fakeInvoker{respond: func(*bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return embedResponse(512), nil
	}}
	e := NewTitanEmbedder(fake, "amazon.titan-embed-text-v2:0", 1024, 10*time.Second)

	if _, err := e.Embed(context.Background(), []string{"something rotten"}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	fake := &fakeInvoker{respond: func(*bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return embedResponse(1024), nil
	}}
	e := NewTitanEmbedder(fake, "amazon.titan-embed-text-v2:0", 1024, 10*time.Second)

	if _, err := e.Embed(context.Background(), []string{"  \n\t "}); err == nil {
		t.Fatal("expected error for blank text")
	}
	if fake.calls != 0 {
		t.Errorf("expected no upstream calls, got %d", fake.calls)
	}
}

func TestEmbedPropagatesModelError(t *testing.T) {
	fake := &fakeInvoker{respond: func(*bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
		return nil, fmt.Errorf("throttled")
	}}
	e := NewTitanEmbedder(fake, "amazon.titan-embed-text-v2:0", 1024, 10*time.Second)

	if _, err := e.Embed(context.Background(), []string{"speak the speech"}); err == nil {
		t.Fatal("expected error")
	}
}

// blockingInvoker never responds until the call's context expires.
type blockingInvoker struct{}

func (blockingInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestEmbedHonoursCallTimeout(t *testing.T) {
	e := NewTitanEmbedder(blockingInvoker{}, "amazon.titan-embed-text-v2:0", 1024, 30*time.Millisecond)

	start := time.Now()
	_, err := e.Embed(context.Background(), []string{"to be"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("call not bounded by the configured timeout, took %v", elapsed)
	}
}
