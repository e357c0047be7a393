package main

import (
	"context"
	"fmt"

	"github.com/spboyer/qagen/internal/artifact"
	"github.com/spf13/cobra"
)

// saveOptions resolves the output directory and overwrite policy from
// the --out and --overwrite flags, falling back to configuration.
func (s *session) saveOptions(cmd *cobra.Command) artifact.SaveOptions {
	opts := artifact.SaveOptions{Dir: s.cfg.Output.Dir}
	if s.cfg.Output.Overwrite != nil {
		opts.Overwrite = *s.cfg.Output.Overwrite
	}
	if dir, _ := cmd.Flags().GetString("out"); dir != "" {
		opts.Dir = dir
	}
	if cmd.Flags().Changed("overwrite") {
		opts.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	}
	return opts
}

func (s *session) save(ctx context.Context, cmd *cobra.Command, files ...artifact.File) error {
	paths, err := artifact.SaveAll(ctx, files, s.saveOptions(cmd))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(s.errOut, "Saved %s\n", p) //nolint:errcheck
	}
	return nil
}

// copy puts content on the clipboard. A clipboard failure is reported but
// does not fail the command.
func (s *session) copy(content string) {
	if err := artifact.Copy(content); err != nil {
		fmt.Fprintf(s.errOut, "Failed to copy: %v\n", err) //nolint:errcheck
		return
	}
	fmt.Fprintln(s.errOut, "Copied to clipboard") //nolint:errcheck
}

func addSaveFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "Output directory (default: output.dir from config)")
	cmd.Flags().Bool("overwrite", false, "Replace existing files (default: output.overwrite from config)")
}
