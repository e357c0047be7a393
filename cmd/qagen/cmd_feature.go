package main

import (
	"fmt"

	"github.com/spboyer/qagen/internal/artifact"
	"github.com/spboyer/qagen/internal/controller"
	"github.com/spboyer/qagen/internal/wizard"
	"github.com/spf13/cobra"
)

func newFeatureCommand() *cobra.Command {
	var (
		save        bool
		copyText    bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "feature [testcase-id]",
		Aliases: []string{"feature-file"},
		Short:   "Generate a Gherkin feature file from a Spira test case",
		Long: `Generate a Gherkin feature file from a Spira test case.

The feature file is printed to stdout. With --save it is also written to
the output directory, named after its tag or scenario title.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			if interactive || (id == "" && s.interactive()) {
				if id, err = wizard.RunFeatureWizard(s.in, s.out, id); err != nil {
					return err
				}
			}

			ctl := controller.NewFeatureController(s.backend, s.controllerOptions("Generating..."))
			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			feature, err := ctl.Generate(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(s.out, ctl.Output()) //nolint:errcheck
			if copyText {
				s.copy(feature.Text)
			}
			if save {
				return s.save(cmd.Context(), cmd, artifact.File{Name: feature.FileName, Content: feature.Text})
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&save, "save", "s", false, "Write the feature file to the output directory")
	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the feature file to the clipboard")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for the test case ID with a form")
	addSaveFlags(cmd)

	return cmd
}
