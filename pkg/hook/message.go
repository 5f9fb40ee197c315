package hook

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/krmcbride/remote-guard/pkg/guard"
)

var (
	colorDanger  = lipgloss.Color("#FF5555")
	colorWarning = lipgloss.Color("#FFD700")
	colorMuted   = lipgloss.Color("#8787AF")
)

// WriteBlockMessage explains a blocked push and suggests where to push
// instead. Colour is only used when w is a terminal that supports it.
func WriteBlockMessage(w io.Writer, result guard.Result, suggestRemote string) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(colorDanger)
	label := r.NewStyle().Foreground(colorMuted)
	hint := r.NewStyle().Foreground(colorWarning)

	lines := []string{
		header.Render(fmt.Sprintf("🚫 BLOCKED: push to %q refused", result.RemoteName)),
		"Issue: " + result.Reason,
		label.Render("  Remote:  ") + result.RemoteName,
		label.Render("  URL:     ") + result.RemoteURL,
		label.Render("  Pattern: ") + result.Pattern,
	}

	switch {
	case suggestRemote == "" || suggestRemote == result.RemoteName:
		lines = append(lines,
			hint.Render("This remote is an upstream repository. Add a remote for your fork and push there:"),
			"  git remote add <name> <fork-url>",
			"  git push <name> <branch>",
		)
	default:
		lines = append(lines,
			hint.Render("Push to your fork instead:"),
			fmt.Sprintf("  git push %s <branch>", suggestRemote),
		)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
