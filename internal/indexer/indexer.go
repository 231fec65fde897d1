// Package indexer builds the vector index: it chunks source texts, embeds
// each chunk with bounded parallelism, and writes the vectors to the
// managed index. It runs offline, never on the request path.
package indexer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calswann/folio/internal/corpus"
	"github.com/calswann/folio/internal/embeddings"
	"github.com/calswann/folio/internal/retry"
	"github.com/calswann/folio/internal/splitter"
	"github.com/calswann/folio/internal/vectorstore"
)

// keyNamespace scopes the deterministic chunk keys.
var keyNamespace = uuid.MustParse("8c1f3f52-9a62-4a6e-bd1d-5c7a1c2de9a4")

// ProgressFunc is called after each chunk is embedded (or fails).
type ProgressFunc func(done, total int)

// Options tunes a Builder.
type Options struct {
	// ChunkSize and ChunkOverlap parameterize the splitter.
	ChunkSize    int
	ChunkOverlap int
	// MaxChunkChars guards the embedding model's input limit.
	MaxChunkChars int
	// Concurrency bounds parallel embedding calls.
	Concurrency int
	// RetryMax bounds retries of throttled embedding calls. Parallel
	// workers make this the most throttle-prone path in the system.
	RetryMax int
}

// Result summarizes one index build.
type Result struct {
	ChunksTotal   int
	ChunksIndexed int
	Errors        []error
}

// Builder turns source documents into vector index entries.
type Builder struct {
	embedder   embeddings.Embedder
	store      vectorstore.Store
	split      *splitter.Splitter
	opts       Options
	log        zerolog.Logger
	onProgress ProgressFunc
}

// New creates a Builder. onProgress may be nil.
func New(embedder embeddings.Embedder, store vectorstore.Store, opts Options, log zerolog.Logger, onProgress ProgressFunc) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Builder{
		embedder:   embedder,
		store:      store,
		split:      splitter.New(opts.ChunkSize, opts.ChunkOverlap),
		opts:       opts,
		log:        log,
		onProgress: onProgress,
	}
}

type chunk struct {
	key   string
	title string
	text  string
}

// Build chunks every document, embeds all chunks, and writes the entries
// to the store. Per-chunk embedding failures are collected in the Result
// rather than aborting the whole build; a store write failure aborts.
//
// Chunk keys are deterministic (UUIDv5 over title, position, and content),
// so re-running a build over the same sources overwrites entries in place
// instead of duplicating them.
func (b *Builder) Build(ctx context.Context, docs []corpus.SourceDoc) (*Result, error) {
	var chunks []chunk
	for _, doc := range docs {
		pieces := b.split.Split(doc.Text)
		if len(pieces) == 0 {
			return nil, fmt.Errorf("document %q produced no chunks", doc.Title)
		}
		for i, text := range pieces {
			chunks = append(chunks, chunk{
				key:   chunkKey(doc.Title, i, text),
				title: doc.Title,
				text:  text,
			})
		}
		b.log.Info().Str("title", doc.Title).Int("chunks", len(pieces)).Msg("split document")
	}

	result := &Result{ChunksTotal: len(chunks)}

	type indexed struct {
		pos   int
		entry vectorstore.Entry
	}

	sem := make(chan struct{}, b.opts.Concurrency)
	var mu sync.Mutex
	var done int64
	var wg sync.WaitGroup
	var entries []indexed

	for pos, c := range chunks {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			result.Errors = append(result.Errors, err)
			mu.Unlock()
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(pos int, c chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			err := b.validateChunk(c)
			var vecs [][]float32
			if err == nil {
				err = retry.Do(ctx, b.opts.RetryMax, func() error {
					var embedErr error
					vecs, embedErr = b.embedder.Embed(ctx, []string{c.text})
					return embedErr
				})
				if err == nil && len(vecs) != 1 {
					err = fmt.Errorf("embedder returned %d vectors for one text", len(vecs))
				}
			}

			mu.Lock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("chunk %d of %q: %w", pos, c.title, err))
			} else {
				entries = append(entries, indexed{pos: pos, entry: vectorstore.Entry{
					Key:    c.key,
					Vector: vecs[0],
					Title:  c.title,
					Text:   c.text,
				}})
			}
			mu.Unlock()

			count := atomic.AddInt64(&done, 1)
			if b.onProgress != nil {
				b.onProgress(int(count), len(chunks))
			}
		}(pos, c)
	}
	wg.Wait()

	if len(entries) == 0 {
		return result, fmt.Errorf("no chunks were embedded successfully")
	}

	// Restore document order before writing; the pool completes out of
	// order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	toPut := make([]vectorstore.Entry, len(entries))
	for i, e := range entries {
		toPut[i] = e.entry
	}

	if err := b.store.Put(ctx, toPut); err != nil {
		return result, fmt.Errorf("writing vectors: %w", err)
	}
	result.ChunksIndexed = len(toPut)

	b.log.Info().
		Int("indexed", result.ChunksIndexed).
		Int("failed", len(result.Errors)).
		Msg("index build complete")
	return result, nil
}

func (b *Builder) validateChunk(c chunk) error {
	if strings.TrimSpace(c.text) == "" {
		return fmt.Errorf("empty chunk text")
	}
	if b.opts.MaxChunkChars > 0 && len(c.text) > b.opts.MaxChunkChars {
		return fmt.Errorf("chunk is %d chars, above the embedding input limit of %d",
			len(c.text), b.opts.MaxChunkChars)
	}
	return nil
}

// chunkKey derives a stable key for a chunk from its document title,
// position, and content.
func chunkKey(title string, index int, text string) string {
	return uuid.NewSHA1(keyNamespace, []byte(fmt.Sprintf("%s\x00%d\x00%s", title, index, text))).String()
}
