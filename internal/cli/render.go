package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"tenderly/internal/domain/models"
	"tenderly/internal/editor"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorMuted   = lipgloss.Color("#7a8599")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38")).Background(colorSuccess).Padding(0, 1)
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderMarkdown renders for the terminal, falling back to the raw text
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		String()
}

func renderEligibility(items []models.EligibilityItem) string {
	var b strings.Builder
	met := 0
	for _, item := range items {
		if item.Eligible {
			met++
			fmt.Fprintf(&b, "%s %s\n", successStyle.Render("✓"), item.Requirement)
		} else {
			fmt.Fprintf(&b, "%s %s\n", errorStyle.Render("✗"), item.Requirement)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", mutedStyle.Render(fmt.Sprintf("%d of %d requirements met", met, len(items))))
	return b.String()
}

func renderStatus(p *models.Proposal) string {
	if p.IsSubmitted() {
		tx := ""
		if p.TxID != nil {
			tx = " " + *p.TxID
		}
		return badgeStyle.Render("submitted") + mutedStyle.Render(tx)
	}
	return warningStyle.Render("draft")
}

// renderAutosave is the one-line autosave indicator
func renderAutosave(st editor.State) string {
	switch st.Status {
	case editor.StatusPending:
		return warningStyle.Render("● unsaved changes")
	case editor.StatusSaving:
		return infoStyle.Render("… saving")
	case editor.StatusSaved:
		return successStyle.Render(fmt.Sprintf("✓ saved v%d at %s", st.Version, st.LastSaved.Format("15:04:05")))
	case editor.StatusError:
		return errorStyle.Render(fmt.Sprintf("✗ save failed: %v", st.Err))
	case editor.StatusConflict:
		return errorStyle.Render(fmt.Sprintf("✗ draft changed elsewhere (now v%d); save the file again to overwrite it", st.RemoteVersion))
	default:
		return mutedStyle.Render("idle")
	}
}
