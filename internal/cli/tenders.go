package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tenderly/internal/domain/models"
)

func newTendersCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenders",
		Aliases: []string{"tender", "t"},
		Short:   "Browse open tenders and ask the assistant about them",
	}

	var raw bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List open tenders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenders, err := opts.client().ListTenders(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), tenders)
			}
			if len(tenders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No open tenders."))
				return nil
			}
			rows := make([][]string, 0, len(tenders))
			for _, t := range tenders {
				title := t.Title
				if t.IsNew {
					title += " " + successStyle.Render("NEW")
				}
				rows = append(rows, []string{t.ID, title, t.Agency, t.Category, t.ClosingDate})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "TITLE", "AGENCY", "CATEGORY", "CLOSES"}, rows))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <tender-id>",
		Short: "Show a tender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tender, err := opts.client().GetTender(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), tender)
			}
			fmt.Fprint(cmd.OutOrStdout(), markdownOrRaw(cmd.OutOrStdout(), tenderMarkdown(tender), raw))
			return nil
		},
	}
	showCmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")

	summarizeCmd := &cobra.Command{
		Use:   "summarize <tender-id>",
		Short: "Summarize a tender with the AI assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := opts.client().Summarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]string{"summary": summary})
			}
			fmt.Fprint(cmd.OutOrStdout(), markdownOrRaw(cmd.OutOrStdout(), summary, raw))
			return nil
		},
	}
	summarizeCmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")

	eligibilityCmd := &cobra.Command{
		Use:     "eligibility <tender-id>",
		Aliases: []string{"check"},
		Short:   "Check the company profile against a tender's requirements",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().CheckEligibility(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderEligibility(items))
			return nil
		},
	}

	voiceCmd := &cobra.Command{
		Use:   "voice <tender-id>",
		Short: "Request a spoken summary of a tender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voice, err := opts.client().VoiceSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), voice)
			}
			if voice.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), voice.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), voice.URL)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, summarizeCmd, eligibilityCmd, voiceCmd)
	return cmd
}

func tenderMarkdown(t *models.Tender) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "**Agency:** %s  \n", t.Agency)
	fmt.Fprintf(&b, "**Category:** %s  \n", t.Category)
	fmt.Fprintf(&b, "**Closes:** %s\n\n", t.ClosingDate)
	b.WriteString(t.Description)
	b.WriteString("\n")
	return b.String()
}

// markdownOrRaw styles markdown only for a terminal unless raw is set
func markdownOrRaw(w io.Writer, md string, raw bool) string {
	if raw || !isTerminal(w) {
		if !strings.HasSuffix(md, "\n") {
			md += "\n"
		}
		return md
	}
	return renderMarkdown(md)
}
