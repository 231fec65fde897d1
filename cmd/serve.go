package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calswann/folio/internal/apikey"
	"github.com/calswann/folio/internal/rag"
	"github.com/calswann/folio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the question-answering HTTP server",
	Long: `Starts the folio HTTP server. POST /query accepts a JSON question,
retrieves the most relevant indexed passages, and returns a generated
answer with its sources. If an API key is configured (FOLIO_SERVER_API_KEY
or server.api_key), requests must carry it in the x-api-key header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		clients, err := newAWSClients(ctx, cfg)
		if err != nil {
			return err
		}

		pipeline := rag.New(
			newEmbedder(clients, cfg),
			newVectorStore(clients, cfg),
			newGenerator(clients, cfg),
			rag.Options{
				TopK:              cfg.TopK,
				PromptBudgetChars: cfg.PromptBudgetChars,
				RetryMax:          cfg.RetryMax,
			},
			log,
		)

		srv := server.New(cfg.Server, pipeline, log)

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		if cfg.Server.APIKey == "" {
			log.Warn().Msg("no API key configured, /query is open")
		} else {
			log.Info().Str("api_key", apikey.Mask(cfg.Server.APIKey)).Msg("API key auth enabled")
		}

		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
