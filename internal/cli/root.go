// Package cli implements the tenderctl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tenderly/internal/client"
)

// Environment variables read for flag defaults
const (
	EnvAPIURL = "TENDERLY_API_URL"
	EnvToken  = "TENDERLY_TOKEN"

	defaultAPIURL = "http://localhost:8080"
)

// options are the persistent flags shared by every command
type options struct {
	apiURL string
	token  string
	json   bool
}

func (o *options) client() *client.Client {
	var opts []client.Option
	if o.token != "" {
		opts = append(opts, client.WithToken(o.token))
	}
	return client.New(o.apiURL, opts...)
}

// NewRootCommand builds the tenderctl command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tenderctl",
		Short: "Browse tenders, draft proposals and submit them",
		Long: `tenderctl talks to a Tenderly API server.

Proposals can be edited in any text editor: "tenderctl proposals edit <id> --file draft.md"
watches the file and autosaves two seconds after you stop typing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr(EnvAPIURL, defaultAPIURL), "API base URL (env "+EnvAPIURL+")")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(EnvToken), "Bearer token (env "+EnvToken+")")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Print raw JSON instead of formatted output")

	root.AddCommand(
		newTendersCommand(opts),
		newProposalsCommand(opts),
		newAttestationsCommand(opts),
		newCompanyCommand(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
