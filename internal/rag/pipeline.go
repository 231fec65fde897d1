// Package rag orchestrates the question-answering pipeline: validate the
// question, embed it, query the vector index for nearest passages, build
// a prompt, call the generation model, and shape the response. All of the
// heavy lifting happens in external managed services; this package only
// sequences the calls and classifies their failures.
package rag

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calswann/folio/internal/embeddings"
	"github.com/calswann/folio/internal/llm"
	"github.com/calswann/folio/internal/retry"
	"github.com/calswann/folio/internal/vectorstore"
)

// Question length bounds, applied to the trimmed question before any
// upstream call is made.
const (
	minQuestionLen = 3
	maxQuestionLen = 500
)

// Options tunes a Pipeline.
type Options struct {
	// TopK nearest neighbours requested per query.
	TopK int
	// PromptBudgetChars caps the assembled generation prompt.
	PromptBudgetChars int
	// RetryMax bounds retries of throttled embed/generate calls.
	RetryMax int
}

// Pipeline answers questions over the indexed corpus.
type Pipeline struct {
	embedder  embeddings.Embedder
	store     vectorstore.Store
	generator llm.Generator
	opts      Options
	log       zerolog.Logger

	// Overridable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// New creates a Pipeline. The embedder must be the same model the index
// was built with; the pipeline trusts but verifies via the embedder's
// declared dimensionality.
func New(embedder embeddings.Embedder, store vectorstore.Store, generator llm.Generator, opts Options, log zerolog.Logger) *Pipeline {
	if opts.TopK < 1 {
		opts.TopK = 3
	}
	if opts.PromptBudgetChars < 1 {
		opts.PromptBudgetChars = 12000
	}
	return &Pipeline{
		embedder:  embedder,
		store:     store,
		generator: generator,
		opts:      opts,
		log:       log,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Answer runs the full pipeline for one question. Validation failures
// return *ValidationError; upstream failures return *EmbeddingError,
// *RetrievalError, or *GenerationError. An empty retrieval is not a
// failure: generation still runs and Sources comes back empty.
func (p *Pipeline) Answer(ctx context.Context, question string) (*Response, error) {
	requestID := p.newID()
	log := p.log.With().Str("request_id", requestID).Logger()

	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	log.Debug().Int("question_length", len(question)).Msg("processing question")

	// Embed the question.
	var vector []float32
	err := retry.Do(ctx, p.opts.RetryMax, func() error {
		vecs, err := p.embedder.Embed(ctx, []string{question})
		if err != nil {
			return err
		}
		if len(vecs) != 1 {
			return fmt.Errorf("embedder returned %d vectors for one text", len(vecs))
		}
		vector = vecs[0]
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("embedding call failed")
		return nil, &EmbeddingError{Err: err}
	}

	// Retrieve nearest passages. No retry here: the index is not a
	// throttling-prone model endpoint, and its own SDK retries cover
	// transient transport errors.
	matches, err := p.store.Query(ctx, vector, p.opts.TopK)
	if err != nil {
		log.Error().Err(err).Msg("vector query failed")
		return nil, &RetrievalError{Err: err}
	}
	log.Debug().Int("matches", len(matches)).Msg("retrieved context")

	// Generate, with whatever context was found (possibly none).
	prompt := BuildPrompt(question, matches, p.opts.PromptBudgetChars)
	var answer string
	err = retry.Do(ctx, p.opts.RetryMax, func() error {
		var err error
		answer, err = p.generator.Generate(ctx, prompt)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("generation call failed")
		return nil, &GenerationError{Err: err}
	}

	// Sources mirror the index's ranking exactly; distances pass through
	// unmodified.
	sources := make([]Source, 0, len(matches))
	for _, m := range matches {
		d := float64(m.Distance)
		sources = append(sources, Source{
			Title:          m.Title,
			Distance:       d,
			RelevanceScore: math.Round((1-d)*1000) / 1000,
		})
	}

	return &Response{
		Answer:  answer,
		Sources: sources,
		Metadata: Metadata{
			QuestionLength:       len(question),
			SourcesFound:         len(matches),
			ProcessingSuccessful: true,
			RequestID:            requestID,
			Timestamp:            p.now().UTC(),
		},
	}, nil
}

func validateQuestion(question string) error {
	// A missing question and a present-but-short one are distinct caller
	// mistakes: only the former gets the usage hint. Whitespace-only
	// input counts as present.
	if question == "" {
		return &ValidationError{
			Reason: "question parameter is required",
			Usage:  "send a POST request with a JSON body containing a 'question' field",
		}
	}
	if len(strings.TrimSpace(question)) < minQuestionLen {
		return &ValidationError{Reason: "question must be at least 3 characters long"}
	}
	if len(question) > maxQuestionLen {
		return &ValidationError{Reason: "question must be less than 500 characters"}
	}
	return nil
}
