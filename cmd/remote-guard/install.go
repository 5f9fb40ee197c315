package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krmcbride/remote-guard/pkg/githook"
)

func (a *app) newInstallCommand() *cobra.Command {
	var (
		hooksDir string
		binary   string
		symlink  bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install remote-guard as the repository's pre-push hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveHooksDir(hooksDir)
			if err != nil {
				return err
			}
			if binary, err = resolveBinary(binary); err != nil {
				return err
			}

			opts := githook.InstallOptions{
				HooksDir: dir,
				Binary:   binary,
				Symlink:  symlink,
				Force:    force,
			}
			if a.configFile != "" {
				configPath, err := filepath.Abs(a.configFile)
				if err != nil {
					return err
				}
				opts.Args = []string{"--config", configPath}
			}

			result, err := githook.Install(opts)
			if err != nil {
				return err
			}
			switch {
			case result.AlreadyInstalled:
				fmt.Fprintf(a.stdout, "remote-guard is already installed at %s (use --force to rewrite it)\n", result.Path)
			case result.Backup != "":
				fmt.Fprintf(a.stdout, "Installed %s (previous hook saved as %s)\n", result.Path, result.Backup)
			default:
				fmt.Fprintf(a.stdout, "Installed %s\n", result.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hooksDir, "hooks-dir", "", "hooks directory (default: the current repository's)")
	cmd.Flags().StringVar(&binary, "binary", "", "remote-guard binary the hook runs (default: this executable)")
	cmd.Flags().BoolVar(&symlink, "symlink", false, "symlink the binary as the hook instead of writing a script")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing pre-push hook, backing up a foreign one")
	return cmd
}

func (a *app) newUninstallCommand() *cobra.Command {
	var hooksDir, binary string
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the remote-guard pre-push hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveHooksDir(hooksDir)
			if err != nil {
				return err
			}
			if binary, err = resolveBinary(binary); err != nil {
				return err
			}
			removed, err := githook.Uninstall(dir, binary)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(a.stdout, "Removed %s\n", filepath.Join(dir, githook.HookName))
			} else {
				fmt.Fprintln(a.stdout, "No pre-push hook installed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hooksDir, "hooks-dir", "", "hooks directory (default: the current repository's)")
	cmd.Flags().StringVar(&binary, "binary", "", "binary the hook was installed with (default: this executable)")
	return cmd
}

func resolveBinary(flagValue string) (string, error) {
	if flagValue == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("cannot locate the remote-guard binary: %w", err)
		}
		flagValue = exe
	}
	return filepath.Abs(flagValue)
}

func resolveHooksDir(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	gitDir, err := githook.FindGitDir(".")
	if err != nil {
		return "", err
	}
	return githook.HooksDir(gitDir), nil
}
