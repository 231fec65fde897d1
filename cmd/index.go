package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/calswann/folio/internal/corpus"
	"github.com/calswann/folio/internal/indexer"
	"github.com/calswann/folio/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index [glob...]",
	Short: "Split, embed, and upload texts into the vector index",
	Long: `Reads markdown texts matched by the given glob patterns (e.g.
'texts/**/*.md'), splits them into overlapping chunks, embeds each chunk,
and uploads the vectors to the configured S3 Vectors index. Re-running
with the same texts overwrites the same vector keys, so rebuilds are safe.

With --sample, indexes the bundled Hamlet text instead of files.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("sample", false, "index the bundled sample text")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	log := newLogger()

	useSample, _ := cmd.Flags().GetBool("sample")
	if !useSample && len(args) == 0 {
		return fmt.Errorf("provide at least one glob pattern, or use --sample")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var docs []corpus.SourceDoc
	if useSample {
		docs = []corpus.SourceDoc{corpus.Sample()}
	} else {
		docs, err = corpus.LoadGlobs(args)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}

	// onProgress is called from concurrent embedding workers.
	reporter := progress.NewReporter()
	var startOnce sync.Once
	started := false
	onProgress := func(done, total int) {
		startOnce.Do(func() {
			reporter.Start(total)
			started = true
		})
		reporter.Update(done, "")
	}

	builder := indexer.New(
		newEmbedder(clients, cfg),
		newVectorStore(clients, cfg),
		indexer.Options{
			ChunkSize:     cfg.ChunkSize,
			ChunkOverlap:  cfg.ChunkOverlap,
			MaxChunkChars: cfg.MaxChunkChars,
			Concurrency:   cfg.MaxConcurrency,
			RetryMax:      cfg.RetryMax,
		},
		log,
		onProgress,
	)

	result, err := builder.Build(ctx, docs)
	if started {
		reporter.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d of %d chunks from %d document(s) into %s/%s\n",
		result.ChunksIndexed, result.ChunksTotal, len(docs), cfg.VectorBucket, cfg.VectorIndex)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
	return nil
}
