package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
)

// putVectorsMax is the S3 Vectors per-request limit for PutVectors.
const putVectorsMax = 500

// S3VectorsAPI is the slice of the S3 Vectors client used here, narrowed
// for testability.
type S3VectorsAPI interface {
	PutVectors(ctx context.Context, params *s3vectors.PutVectorsInput, optFns ...func(*s3vectors.Options)) (*s3vectors.PutVectorsOutput, error)
	QueryVectors(ctx context.Context, params *s3vectors.QueryVectorsInput, optFns ...func(*s3vectors.Options)) (*s3vectors.QueryVectorsOutput, error)
}

// Metadata key names attached to each vector. Lowercase so title stays
// usable as a filter field on the index.
const (
	metadataTitle = "title"
	metadataText  = "text"
)

// S3VectorsStore is a Store backed by an Amazon S3 Vectors index.
type S3VectorsStore struct {
	client      S3VectorsAPI
	bucket      string
	index       string
	callTimeout time.Duration
}

// NewS3VectorsStore creates a store for the given vector bucket and index.
func NewS3VectorsStore(client S3VectorsAPI, bucket, index string, callTimeout time.Duration) *S3VectorsStore {
	return &S3VectorsStore{
		client:      client,
		bucket:      bucket,
		index:       index,
		callTimeout: callTimeout,
	}
}

// Put writes entries to the index, batching to the service's per-request
// limit. Keys are stable, so re-running a build overwrites rather than
// duplicates.
func (s *S3VectorsStore) Put(ctx context.Context, entries []Entry) error {
	for start := 0; start < len(entries); start += putVectorsMax {
		end := start + putVectorsMax
		if end > len(entries) {
			end = len(entries)
		}

		vectors := make([]types.PutInputVector, 0, end-start)
		for _, e := range entries[start:end] {
			if e.Key == "" {
				return fmt.Errorf("entry with empty key")
			}
			vectors = append(vectors, types.PutInputVector{
				Key:  aws.String(e.Key),
				Data: &types.VectorDataMemberFloat32{Value: e.Vector},
				Metadata: document.NewLazyDocument(map[string]interface{}{
					metadataTitle: e.Title,
					metadataText:  e.Text,
				}),
			})
		}

		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		_, err := s.client.PutVectors(callCtx, &s3vectors.PutVectorsInput{
			VectorBucketName: aws.String(s.bucket),
			IndexName:        aws.String(s.index),
			Vectors:          vectors,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("putting vectors %d-%d into %s/%s: %w", start, end-1, s.bucket, s.index, err)
		}
	}
	return nil
}

// Query sends the caller's vector to the index and maps the ranked
// results back, distances untouched.
func (s *S3VectorsStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	out, err := s.client.QueryVectors(callCtx, &s3vectors.QueryVectorsInput{
		VectorBucketName: aws.String(s.bucket),
		IndexName:        aws.String(s.index),
		QueryVector:      &types.VectorDataMemberFloat32{Value: vector},
		TopK:             aws.Int32(int32(topK)),
		ReturnDistance:   true,
		ReturnMetadata:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s/%s: %w", s.bucket, s.index, err)
	}

	matches := make([]Match, 0, len(out.Vectors))
	for _, v := range out.Vectors {
		m := Match{Key: aws.ToString(v.Key)}
		if v.Distance != nil {
			m.Distance = *v.Distance
		}
		if v.Metadata != nil {
			var md map[string]interface{}
			if err := v.Metadata.UnmarshalSmithyDocument(&md); err != nil {
				return nil, fmt.Errorf("decoding metadata for %s: %w", m.Key, err)
			}
			if title, ok := md[metadataTitle].(string); ok {
				m.Title = title
			}
			if text, ok := md[metadataText].(string); ok {
				m.Text = text
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}
