package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tenderly/internal/client"
	"tenderly/internal/editor"
)

func newProposalsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"proposal", "p"},
		Short:   "Draft, edit and submit proposals",
	}

	cmd.AddCommand(
		newProposalNewCommand(opts),
		newProposalGenerateCommand(opts),
		newProposalShowCommand(opts),
		newProposalEditCommand(opts),
		newProposalSaveCommand(opts),
		newProposalVersionsCommand(opts),
		newProposalRestoreCommand(opts),
		newProposalSubmitCommand(opts),
	)
	return cmd
}

func newProposalNewCommand(opts *options) *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "new <tender-id>",
		Short: "Start a draft proposal, optionally from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := ""
			if file != "" {
				data, err := readInput(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				content = data
			}
			id, err := opts.client().CreateProposal(cmd.Context(), args[0], content)
			if err != nil {
				return err
			}
			return printProposalID(cmd, opts, id, "Created draft")
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Initial content file (- for stdin)")
	return c
}

func newProposalGenerateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <tender-id>",
		Short: "Draft a proposal with the AI assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := opts.client().GenerateProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProposalID(cmd, opts, id, "Generated draft")
		},
	}
}

func printProposalID(cmd *cobra.Command, opts *options, id, msg string) error {
	if opts.json {
		return printJSON(cmd.OutOrStdout(), map[string]string{"proposalId": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", successStyle.Render("✓"), msg, titleStyle.Render(id))
	return nil
}

func newProposalShowCommand(opts *options) *cobra.Command {
	var raw bool
	c := &cobra.Command{
		Use:   "show <proposal-id>",
		Short: "Show a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client().GetProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), p)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(p.TenderTitle), renderStatus(p))
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("version %d, %d words, updated %s", p.Version, editor.WordCount(p.Content), p.UpdatedAt.Format(time.RFC822))))
			fmt.Fprintln(out)
			fmt.Fprint(out, markdownOrRaw(out, p.Content, raw))
			return nil
		},
	}
	c.Flags().BoolVar(&raw, "raw", false, "Print content without terminal styling")
	return c
}

func newProposalSaveCommand(opts *options) *cobra.Command {
	var (
		file        string
		baseVersion int
	)
	c := &cobra.Command{
		Use:   "save <proposal-id>",
		Short: "Replace a draft's content from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			var base *int
			if cmd.Flags().Changed("base-version") {
				base = &baseVersion
			}
			version, err := opts.client().SaveDraft(cmd.Context(), args[0], content, base)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"success": true, "version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved version %d\n", successStyle.Render("✓"), version)
			return nil
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "-", "Content file (- for stdin)")
	c.Flags().IntVar(&baseVersion, "base-version", 0, "Reject the save if the draft moved past this version")
	return c
}

func newProposalVersionsCommand(opts *options) *cobra.Command {
	var show int
	c := &cobra.Command{
		Use:   "versions <proposal-id>",
		Short: "List the saved versions of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history := editor.NewHistory(opts.client(), args[0])
			out := cmd.OutOrStdout()

			if show > 0 {
				snapshot, err := history.Preview(cmd.Context(), show)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(out, snapshot)
				}
				fmt.Fprint(out, markdownOrRaw(out, snapshot.Content, true))
				return nil
			}

			versions, err := history.List(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(out, versions)
			}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, []string{
					strconv.Itoa(v.Version),
					v.CreatedAt.Format(time.RFC822),
					strconv.Itoa(editor.WordCount(v.Content)),
					v.ContentHash[:min(12, len(v.ContentHash))],
				})
			}
			fmt.Fprintln(out, renderTable([]string{"VERSION", "SAVED", "WORDS", "HASH"}, rows))
			return nil
		},
	}
	c.Flags().IntVar(&show, "show", 0, "Print the content of one version instead of the list")
	return c
}

func newProposalRestoreCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <proposal-id> <version>",
		Short: "Restore an earlier version as the current draft",
		Long:  "Restore copies the content of an earlier version into the draft and saves it as a new version.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[1])
			if err != nil || version < 1 {
				return fmt.Errorf("invalid version %q", args[1])
			}
			c := opts.client()
			p, err := c.GetProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			session := editor.NewSession(p.ID, p.Content, p.Version, p.IsSubmitted(), c, editor.Config{CheckVersion: true})
			defer session.Abandon()

			if _, err := editor.NewHistory(c, p.ID).Restore(cmd.Context(), session, version); err != nil {
				return err
			}
			if err := session.SaveNow(cmd.Context()); err != nil {
				return err
			}
			st := session.Status()
			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"success": true, "version": st.Version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored version %d as version %d\n", successStyle.Render("✓"), version, st.Version)
			return nil
		},
	}
}

func newProposalSubmitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <proposal-id>",
		Short: "Submit a proposal and record its attestation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client().Submit(cmd.Context(), args[0])
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.TxID != "" {
					return fmt.Errorf("%s (transaction %s)", apiErr.Message, apiErr.TxID)
				}
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Submitted. Transaction %s\n", successStyle.Render("✓"), titleStyle.Render(result.TxID))
			return nil
		},
	}
}

// readInput reads a whole file, or stdin for "-"
func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
