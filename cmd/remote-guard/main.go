// Package main implements a git pre-push hook that refuses pushes to upstream
// remotes.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/krmcbride/remote-guard/internal/config"
	"github.com/krmcbride/remote-guard/pkg/githook"
	"github.com/krmcbride/remote-guard/pkg/hook"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks errors that should print command usage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// app carries per-invocation state shared by the subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configFile string
	logLevel   string
	exitCode   int
}

// run executes the CLI and returns the process exit status. When the binary
// is invoked as "pre-push" (a symlinked hook) it behaves like "check".
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	cmdArgs := args[1:]
	if invokedAs := strings.TrimSuffix(filepath.Base(args[0]), ".exe"); invokedAs == githook.HookName {
		cmdArgs = append([]string{"check", "--"}, cmdArgs...)
	}

	root := a.newRootCommand()
	root.SetArgs(cmdArgs)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err != nil {
		fmt.Fprintf(stderr, "remote-guard: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return hook.ExitUsage
	}
	return a.exitCode
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "remote-guard [remote-name remote-url]",
		Short: "Refuse git pushes to upstream remotes",
		Long: `remote-guard is a git pre-push hook. It blocks a push when the remote URL
matches a configured upstream pattern and stays silent otherwise.

Run with the two arguments git passes to a pre-push hook it behaves like
"remote-guard check". Hooks should call "remote-guard check -- \"$@\""
rather than the bare command, since a remote named like a subcommand (for
example "install") would otherwise run that subcommand.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError{hook.ErrMissingArgs}
			}
			return a.runCheck(args, false)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .remote-guard.yaml, then the user config dir)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.newCheckCommand(),
		a.newInstallCommand(),
		a.newUninstallCommand(),
		a.newConfigCommand(),
		a.newPatternsCommand(),
	)
	return root
}

// loadConfig resolves the effective configuration for this invocation.
func (a *app) loadConfig() (*config.Config, error) {
	if err := config.LoadDotenv("."); err != nil {
		return nil, err
	}
	v := viper.New()
	if a.logLevel != "" {
		v.Set(config.KeyLogLevel, a.logLevel)
	}
	return config.Load(v, config.Options{ConfigFile: a.configFile})
}
