package vectorstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
)

type fakeS3Vectors struct {
	putInputs  []*s3vectors.PutVectorsInput
	queryInput *s3vectors.QueryVectorsInput
	queryOut   *s3vectors.QueryVectorsOutput
	putErr     error
	queryErr   error
}

func (f *fakeS3Vectors) PutVectors(ctx context.Context, params *s3vectors.PutVectorsInput, optFns ...func(*s3vectors.Options)) (*s3vectors.PutVectorsOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3vectors.PutVectorsOutput{}, nil
}

func (f *fakeS3Vectors) QueryVectors(ctx context.Context, params *s3vectors.QueryVectorsInput, optFns ...func(*s3vectors.Options)) (*s3vectors.QueryVectorsOutput, error) {
	f.queryInput = params
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryOut, nil
}

func TestPutSendsBucketIndexAndMetadata(t *testing.T) {
	fake := &fakeS3Vectors{}
	store := NewS3VectorsStore(fake, "bard-bucket", "hamlet-index", 10*time.Second)

	err := store.Put(context.Background(), []Entry{
		{Key: "k1", Vector: []float32{0.1, 0.2}, Title: "Hamlet", Text: "Act I"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if len(fake.putInputs) != 1 {
		t.Fatalf("expected 1 PutVectors call, got %d", len(fake.putInputs))
	}
	in := fake.putInputs[0]
	if aws.ToString(in.VectorBucketName) != "bard-bucket" || aws.ToString(in.IndexName) != "hamlet-index" {
		t.Errorf("bucket/index = %q/%q", aws.ToString(in.VectorBucketName), aws.ToString(in.IndexName))
	}
	if len(in.Vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(in.Vectors))
	}

	// Metadata must round-trip under lowercase keys: title is the index's
	// filterable field.
	var md map[string]interface{}
	if err := in.Vectors[0].Metadata.UnmarshalSmithyDocument(&md); err != nil {
		t.Fatalf("metadata decode: %v", err)
	}
	if md["title"] != "Hamlet" || md["text"] != "Act I" {
		t.Errorf("metadata = %+v", md)
	}
}

func TestPutBatchesAtServiceLimit(t *testing.T) {
	fake := &fakeS3Vectors{}
	store := NewS3VectorsStore(fake, "b", "i", 10*time.Second)

	entries := make([]Entry, putVectorsMax+1)
	for i := range entries {
		entries[i] = Entry{Key: fmt.Sprintf("k%d", i), Vector: []float32{1}}
	}

	if err := store.Put(context.Background(), entries); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(fake.putInputs) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(fake.putInputs))
	}
	if n := len(fake.putInputs[0].Vectors); n != putVectorsMax {
		t.Errorf("first batch size = %d", n)
	}
	if n := len(fake.putInputs[1].Vectors); n != 1 {
		t.Errorf("second batch size = %d", n)
	}
}

func TestPutRejectsEmptyKey(t *testing.T) {
	fake := &fakeS3Vectors{}
	store := NewS3VectorsStore(fake, "b", "i", 10*time.Second)

	if err := store.Put(context.Background(), []Entry{{Vector: []float32{1}}}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestQueryMapsResultsInOrder(t *testing.T) {
	fake := &fakeS3Vectors{queryOut: &s3vectors.QueryVectorsOutput{
		Vectors: []types.QueryOutputVector{
			{
				Key:      aws.String("a"),
				Distance: aws.Float32(0.12),
				Metadata: document.NewLazyDocument(map[string]interface{}{"title": "Hamlet", "text": "the ghost"}),
			},
			{
				Key:      aws.String("b"),
				Distance: aws.Float32(0.48),
				Metadata: document.NewLazyDocument(map[string]interface{}{"title": "Hamlet", "text": "the duel"}),
			},
		},
	}}
	store := NewS3VectorsStore(fake, "b", "i", 10*time.Second)

	matches, err := store.Query(context.Background(), []float32{0.5, 0.5}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Key != "a" || matches[1].Key != "b" {
		t.Errorf("order not preserved: %+v", matches)
	}
	if matches[0].Distance != 0.12 || matches[1].Distance != 0.48 {
		t.Errorf("distances altered: %+v", matches)
	}
	if matches[0].Text != "the ghost" || matches[0].Title != "Hamlet" {
		t.Errorf("metadata lost: %+v", matches[0])
	}

	if got := aws.ToInt32(fake.queryInput.TopK); got != 3 {
		t.Errorf("topK = %d, want 3", got)
	}
	if !fake.queryInput.ReturnDistance || !fake.queryInput.ReturnMetadata {
		t.Error("expected ReturnDistance and ReturnMetadata to be set")
	}
}

func TestQueryEmptyResultIsNotAnError(t *testing.T) {
	fake := &fakeS3Vectors{queryOut: &s3vectors.QueryVectorsOutput{}}
	store := NewS3VectorsStore(fake, "b", "i", 10*time.Second)

	matches, err := store.Query(context.Background(), []float32{1}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestQueryPropagatesServiceError(t *testing.T) {
	fake := &fakeS3Vectors{queryErr: fmt.Errorf("index unavailable")}
	store := NewS3VectorsStore(fake, "b", "i", 10*time.Second)

	if _, err := store.Query(context.Background(), []float32{1}, 3); err == nil {
		t.Fatal("expected error")
	}
}
