package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"tenderly/internal/editor"
)

func newProposalEditCommand(opts *options) *cobra.Command {
	var (
		file     string
		debounce time.Duration
	)
	c := &cobra.Command{
		Use:   "edit <proposal-id>",
		Short: "Watch a local file and autosave it to a draft",
		Long: `Edit writes the draft to a local file and watches it. Open the file in any
editor; changes are saved once you stop typing for the debounce interval.

Press Ctrl+C to stop. With unsaved changes the first Ctrl+C only warns;
a second Ctrl+C exits and discards them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c := opts.client()

			p, err := c.GetProposal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p.IsSubmitted() {
				return fmt.Errorf("proposal %s was submitted and is read-only", p.ID)
			}

			if file == "" {
				file = p.ID + ".md"
			}
			path, err := filepath.Abs(file)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", file, err)
			}

			session := editor.NewSession(p.ID, p.Content, p.Version, false, c, editor.Config{
				Debounce:     debounce,
				CheckVersion: true,
				OnStatus: func(st editor.State) {
					fmt.Fprintln(out, renderAutosave(st))
				},
			})

			// An existing file is picked up as pending edits
			existing, err := os.ReadFile(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				if err := os.WriteFile(path, []byte(p.Content), 0o644); err != nil {
					session.Abandon()
					return fmt.Errorf("write %s: %w", path, err)
				}
			case err != nil:
				session.Abandon()
				return fmt.Errorf("read %s: %w", path, err)
			case string(existing) != p.Content:
				if err := session.Edit(string(existing)); err != nil {
					session.Abandon()
					return err
				}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				session.Abandon()
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Editors often replace the file on save, so the directory is watched
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				session.Abandon()
				return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			fmt.Fprintf(out, "Editing %s (version %d) in %s\n", titleStyle.Render(p.TenderTitle), p.Version, path)
			fmt.Fprintln(out, mutedStyle.Render("Press Ctrl+C to stop."))

			return runEditLoop(cmd.Context(), session, path, watcher.Events, watcher.Errors, sigCh, out)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Local file to edit (default <proposal-id>.md)")
	c.Flags().DurationVar(&debounce, "debounce", editor.DefaultDebounce, "Quiet period before an autosave")
	return c
}

// runEditLoop feeds file changes into the session until interrupted.
// It owns the session and always ends it.
func runEditLoop(ctx context.Context, session *editor.Session, path string, events <-chan fsnotify.Event, errs <-chan error, interrupts <-chan os.Signal, out io.Writer) error {
	warned := false
	for {
		select {
		case <-ctx.Done():
			session.Abandon()
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return finishSession(ctx, session, out)
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				// Mid-replace by the editor; the following Create carries the content
				continue
			}
			if string(data) == session.Content() {
				continue
			}
			if remote := session.Status().RemoteVersion; session.Rebase() {
				fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("Overwriting version %d with the local file.", remote)))
			}
			if err := session.Edit(string(data)); err != nil {
				session.Abandon()
				return err
			}
			warned = false

		case err, ok := <-errs:
			if !ok {
				continue
			}
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("watch error: %v", err)))

		case <-interrupts:
			if !session.Dirty() {
				return finishSession(ctx, session, out)
			}
			if warned {
				session.Abandon()
				fmt.Fprintln(out, warningStyle.Render("Exited with unsaved changes."))
				return nil
			}
			warned = true
			fmt.Fprintln(out, warningStyle.Render("Unsaved changes. Press Ctrl+C again to discard them and exit."))
		}
	}
}

func finishSession(ctx context.Context, session *editor.Session, out io.Writer) error {
	if err := session.Close(); err != nil {
		if !errors.Is(err, editor.ErrUnsavedChanges) {
			return err
		}
		if err := session.SaveNow(ctx); err != nil {
			session.Abandon()
			return fmt.Errorf("unsaved changes could not be saved: %w", err)
		}
		if err := session.Close(); err != nil {
			session.Abandon()
			return err
		}
	}
	fmt.Fprintln(out, mutedStyle.Render("Done."))
	return nil
}
