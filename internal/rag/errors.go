package rag

import (
	"errors"
	"fmt"
)

// ValidationError reports a caller mistake: missing, too-short, or
// too-long question. It maps to a 4xx response.
type ValidationError struct {
	Reason string
	// Usage is an optional hint appended to the client response.
	Usage string
}

func (e *ValidationError) Error() string { return e.Reason }

// EmbeddingError reports a failure of the embedding model call.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding question: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError reports a failure of the vector index query. An empty
// result set is not a RetrievalError.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("querying vector index: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a failure of the generation model call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generating answer: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// IsClientError reports whether err is caused by the caller's input
// rather than an upstream dependency.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
