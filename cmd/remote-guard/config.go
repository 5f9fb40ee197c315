package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/krmcbride/remote-guard/internal/config"
	"github.com/krmcbride/remote-guard/pkg/guard"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the remote-guard configuration",
	}
	cmd.AddCommand(a.newConfigShowCommand(), a.newConfigInitCommand())
	return cmd
}

func (a *app) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out, err := config.MarshalYAML(cfg.FileConfig())
			if err != nil {
				return err
			}
			if cfg.File != "" {
				fmt.Fprintf(a.stdout, "# loaded from %s\n", cfg.File)
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
}

func (a *app) newConfigInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			out, err := config.MarshalYAML(config.DefaultFile())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", config.LocalFile, "where to write the config file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (a *app) newPatternsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the effective blocked patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			patterns := guard.New(cfg.Patterns).Patterns()
			if len(patterns) == 0 {
				fmt.Fprintln(a.stdout, "No patterns configured: every push is allowed")
				return nil
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tMATCHES")
			for _, p := range patterns {
				fmt.Fprintf(tw, "%s\t%s\n", p.String(), p.Normalized())
			}
			return tw.Flush()
		},
	}
}
