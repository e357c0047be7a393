package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/qagen/internal/projectconfig"
	"github.com/spboyer/qagen/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration as YAML.

Values come from flags, then QAGEN_* environment variables, then the
` + projectconfig.FileName + ` file found by walking up from the working
directory, then built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			if err := enc.Close(); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}

			w := cmd.OutOrStdout()
			if cfg.Path != "" {
				fmt.Fprintf(w, "# source: %s\n", cfg.Path) //nolint:errcheck
			} else {
				fmt.Fprintln(w, "# source: defaults") //nolint:errcheck
			}
			_, err = w.Write(buf.Bytes())
			return err
		},
	}

	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := projectconfig.FileName
			if len(args) == 1 {
				path = args[0]
			} else if p, _ := cmd.Flags().GetString("config"); p != "" {
				path = p
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("config file not found: %s", path)
			}
			if err := validation.ValidateConfigFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", filepath.Clean(path)) //nolint:errcheck
			return nil
		},
	}
}
