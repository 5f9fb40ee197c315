package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/krmcbride/remote-guard/internal/config"
	"github.com/krmcbride/remote-guard/pkg/audit"
	"github.com/krmcbride/remote-guard/pkg/guard"
	"github.com/krmcbride/remote-guard/pkg/hook"
)

func (a *app) newCheckCommand() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "check <remote-name> <remote-url>",
		Short: "Evaluate a push (pre-push hook entry point)",
		Long: `Evaluate a push the way git's pre-push hook does. Ref updates are read
from stdin and ignored by the decision.

Exit status: 0 allows the push, 1 blocks it, 2 reports a usage or
configuration error.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args, explain)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the normalized URL and every pattern's verdict to stdout")
	return cmd
}

func (a *app) runCheck(args []string, explain bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(a.stderr, cfg.LogLevel)

	input, err := hook.ReadPrePushInput(args, a.stdin)
	if errors.Is(err, hook.ErrMissingArgs) {
		return usageError{err}
	}
	if err != nil {
		return err
	}

	if cfg.Disabled {
		log.Debug("guard_disabled", "remote", input.RemoteName)
		return nil
	}

	g := guard.New(cfg.Patterns)
	req := guard.Request{RemoteName: input.RemoteName, RemoteURL: input.RemoteURL}
	if explain {
		a.writeExplain(g, req)
	}

	result := g.Evaluate(req)
	log.Debug("push_evaluated",
		"remote", input.RemoteName,
		"url", input.RemoteURL,
		"decision", result.Decision.String(),
		"pattern", result.Pattern,
		"refs", len(input.Updates),
		"skipped_lines", input.Skipped,
		"config", cfg.File,
	)

	a.writeAudit(log, cfg, input, result)

	if result.IsBlocked() {
		if err := hook.WriteBlockMessage(a.stderr, result, cfg.SuggestRemote); err != nil {
			log.Warn("block_message_error", "error", err.Error())
		}
		a.exitCode = hook.ExitBlock
	}
	return nil
}

func (a *app) writeAudit(log *slog.Logger, cfg *config.Config, input *hook.PrePushInput, result guard.Result) {
	if cfg.AuditLog == "" {
		return
	}
	l, err := audit.New(cfg.AuditLog)
	if err == nil {
		err = l.Append(audit.NewRecord(input, result, time.Now()))
	}
	if err != nil {
		log.Warn("audit_log_error", "path", cfg.AuditLog, "error", err.Error())
	}
}

func (a *app) writeExplain(g *guard.Guard, req guard.Request) {
	fmt.Fprintf(a.stdout, "remote:     %s\n", req.RemoteName)
	fmt.Fprintf(a.stdout, "url:        %s\n", req.RemoteURL)
	fmt.Fprintf(a.stdout, "normalized: %s\n", guard.NormalizeRemoteURL(req.RemoteURL))

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, m := range g.Explain(req) {
		verdict := "no match"
		if m.Matched {
			verdict = "MATCH"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Pattern.String(), m.Pattern.Normalized(), verdict)
	}
	_ = tw.Flush()
}
