package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/scalebench/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the scalebench configuration",
	}

	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file",
		Long: `Write a YAML config file. Without --defaults the file holds the resolved
configuration (config file, .env and SCALEBENCH_* overrides applied).`,
		Example: `  scalebench config init scalebench.yaml --defaults`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scalebench.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			defaults, _ := cmd.Flags().GetBool("defaults")
			force, _ := cmd.Flags().GetBool("force")

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			cfg := a.cfg
			if defaults {
				cfg = config.Default()
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			a.log.Info("config written", "path", path, "defaults", defaults)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().Bool("defaults", false, "Write built-in defaults instead of the resolved config")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
