package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calswann/folio/internal/rag"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question from the command line",
	Long: `Runs the full retrieval and generation pipeline for a single question
and prints the answer with its sources. Useful for smoke-testing the
index and models without starting the server.

--retrieve-only skips generation and prints the ranked matches.
--embed-only prints only the question embedding stats.`,
	Args: cobra.ExactArgs(1),
	RunE: runCLIQuery,
}

func init() {
	queryCmd.Flags().Int("top-k", 0, "override the number of passages retrieved")
	queryCmd.Flags().Bool("retrieve-only", false, "skip generation, print ranked matches")
	queryCmd.Flags().Bool("embed-only", false, "only embed the question, print vector stats")
	queryCmd.Flags().Bool("json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runCLIQuery(cmd *cobra.Command, args []string) error {
	log := newLogger()
	question := args[0]

	topK, _ := cmd.Flags().GetInt("top-k")
	retrieveOnly, _ := cmd.Flags().GetBool("retrieve-only")
	embedOnly, _ := cmd.Flags().GetBool("embed-only")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if topK > 0 {
		cfg.TopK = topK
	}

	ctx := cmd.Context()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}
	embedder := newEmbedder(clients, cfg)

	if embedOnly {
		vecs, err := embedder.Embed(ctx, []string{question})
		if err != nil {
			return fmt.Errorf("embedding question: %w", err)
		}
		fmt.Printf("Embedded question with %s: %d dimensions\n", embedder.Name(), len(vecs[0]))
		return nil
	}

	store := newVectorStore(clients, cfg)

	if retrieveOnly {
		vecs, err := embedder.Embed(ctx, []string{question})
		if err != nil {
			return fmt.Errorf("embedding question: %w", err)
		}
		matches, err := store.Query(ctx, vecs[0], cfg.TopK)
		if err != nil {
			return fmt.Errorf("querying vector index: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("No matches found.")
			return nil
		}
		var sum float64
		for i, m := range matches {
			fmt.Printf("%d. %s (distance %.4f)\n", i+1, m.Title, m.Distance)
			fmt.Printf("   %s\n", firstLine(m.Text))
			sum += float64(m.Distance)
		}
		fmt.Printf("\n%d match(es), best distance %.4f, mean %.4f\n",
			len(matches), matches[0].Distance, sum/float64(len(matches)))
		return nil
	}

	pipeline := rag.New(embedder, store, newGenerator(clients, cfg), rag.Options{
		TopK:              cfg.TopK,
		PromptBudgetChars: cfg.PromptBudgetChars,
		RetryMax:          cfg.RetryMax,
	}, log)

	resp, err := pipeline.Answer(ctx, question)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, s := range resp.Sources {
			fmt.Printf("  %d. %s (relevance %.3f)\n", i+1, s.Title, s.RelevanceScore)
		}
	}
	return nil
}

// firstLine returns the first line of s, truncated for display.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || i >= 120 {
			return s[:i] + "..."
		}
	}
	return s
}
