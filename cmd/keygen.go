package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calswann/folio/internal/apikey"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an API key for the query endpoint",
	Long: `Generates a random API key and prints it to stdout. Store it somewhere
safe and export it as FOLIO_SERVER_API_KEY for both the server and its
clients. The key is printed once and is not persisted anywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")

		key, err := apikey.Generate(length)
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}

		// Full value to stdout only. Anything that may end up in a log
		// gets the masked form.
		fmt.Println(key)
		fmt.Fprintf(os.Stderr, "Generated API key %s (%d characters)\n", apikey.Mask(key), len(key))
		return nil
	},
}

func init() {
	keygenCmd.Flags().Int("length", apikey.DefaultLength, "key length in characters")
	rootCmd.AddCommand(keygenCmd)
}
