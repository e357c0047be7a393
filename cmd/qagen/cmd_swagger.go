package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spboyer/qagen/internal/artifact"
	"github.com/spboyer/qagen/internal/controller"
	"github.com/spboyer/qagen/internal/skills"
	"github.com/spboyer/qagen/internal/swaggerdoc"
	"github.com/spboyer/qagen/internal/wizard"
	"github.com/spf13/cobra"
)

func newSwaggerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Swagger to RestAssured test generation",
		Long: `Generate RestAssured API tests from a Swagger/OpenAPI document.

The backend first parses the document into plain text API details, then
generates a feature file, an API class, POJOs and step definitions for the
selected test types (positive, negative, edge).`,
	}

	cmd.AddCommand(newSwaggerParseCommand())
	cmd.AddCommand(newSwaggerGenerateCommand())
	cmd.AddCommand(newSwaggerRunCommand())
	cmd.AddCommand(newSwaggerInspectCommand())

	return cmd
}

func newSwaggerParseCommand() *cobra.Command {
	var (
		url        string
		validate   bool
		detailsOut string
	)

	cmd := &cobra.Command{
		Use:   "parse [swagger-file]",
		Short: "Upload a Swagger document and print the API details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			src := controller.SwaggerSource{URL: url}
			if len(args) == 1 {
				src.File = args[0]
			}

			ctl := controller.NewSwaggerController(s.backend, s.controllerOptions("Parsing..."))
			ctl.Inspect = validate

			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			details, err := ctl.Parse(ctx, src)
			if err != nil {
				return err
			}

			if detailsOut != "" {
				if err := os.WriteFile(detailsOut, []byte(details), 0o644); err != nil {
					return fmt.Errorf("writing API details: %w", err)
				}
				fmt.Fprintf(s.errOut, "Saved %s\n", detailsOut) //nolint:errcheck
				return nil
			}
			fmt.Fprintln(s.out, details) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Swagger URL (not supported by the backend; upload a file instead)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Check the document locally with kin-openapi before uploading")
	cmd.Flags().StringVarP(&detailsOut, "details-out", "o", "", "Write the API details to this file instead of stdout")

	return cmd
}

func newSwaggerGenerateCommand() *cobra.Command {
	var (
		detailsPath string
		types       string
		printOnly   bool
		copyKind    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate RestAssured artifacts from API details",
		Long: `Generate RestAssured artifacts from API details produced by "swagger parse".

The details are read from --details (use - for stdin) and may be edited
before generating. Artifacts are written to the output directory, named
after the feature or class they contain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			testTypes, err := parseTestTypes(types)
			if err != nil {
				return err
			}
			if err := checkArtifactKind(copyKind); err != nil {
				return err
			}
			details, err := readDetails(s.in, detailsPath)
			if err != nil {
				return err
			}

			ctl := controller.NewSwaggerController(s.backend, s.controllerOptions("Generating..."))
			ctl.SetAPIDetails(details)

			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			arts, err := ctl.Generate(ctx, testTypes)
			if err != nil {
				return err
			}
			return s.deliverArtifacts(cmd, arts, printOnly, copyKind)
		},
	}

	cmd.Flags().StringVarP(&detailsPath, "details", "d", "", "File holding the API details (- for stdin)")
	addArtifactFlags(cmd, &types, &printOnly, &copyKind)
	addSaveFlags(cmd)

	return cmd
}

func newSwaggerRunCommand() *cobra.Command {
	var (
		url         string
		validate    bool
		types       string
		printOnly   bool
		copyKind    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "run [swagger-file]",
		Short: "Parse a Swagger document and generate artifacts in one step",
		Long: `Parse a Swagger document and generate RestAssured artifacts in one step.

Without a file (or with --interactive) a form asks for the document and the
test types.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			testTypes, err := parseTestTypes(types)
			if err != nil {
				return err
			}
			if err := checkArtifactKind(copyKind); err != nil {
				return err
			}
			src := controller.SwaggerSource{URL: url}
			if len(args) == 1 {
				src.File = args[0]
			}

			if interactive || (src.File == "" && src.URL == "" && s.interactive()) {
				answers, err := wizard.RunSwaggerWizard(s.in, s.out, wizard.SwaggerAnswers{
					File:      src.File,
					TestTypes: testTypes.Values(),
				})
				if err != nil {
					return err
				}
				src.File = answers.File
				if testTypes, err = answers.TestTypeSet(); err != nil {
					return err
				}
			}

			ctl := controller.NewSwaggerController(s.backend, s.controllerOptions("Working..."))
			ctl.Inspect = validate

			parseCtx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			if _, err := ctl.Parse(parseCtx, src); err != nil {
				return err
			}

			genCtx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			arts, err := ctl.Generate(genCtx, testTypes)
			if err != nil {
				return err
			}
			return s.deliverArtifacts(cmd, arts, printOnly, copyKind)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Swagger URL (not supported by the backend; upload a file instead)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Check the document locally with kin-openapi before uploading")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for the inputs with a form")
	addArtifactFlags(cmd, &types, &printOnly, &copyKind)
	addSaveFlags(cmd)

	return cmd
}

func newSwaggerInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <swagger-file>",
		Short: "List the title, version and operations of a Swagger document",
		Long: `Inspect a Swagger 2.0 or OpenAPI 3 document locally.

Nothing is sent to the backend. Swagger 2.0 documents are converted to
OpenAPI 3 before validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			summary, err := swaggerdoc.Inspect(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("inspecting %s: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.Text()) //nolint:errcheck
			return nil
		},
	}
}

func addArtifactFlags(cmd *cobra.Command, types *string, printOnly *bool, copyKind *string) {
	cmd.Flags().StringVarP(types, "types", "t", "", "Comma-separated test types: positive, negative, edge")
	cmd.Flags().BoolVarP(printOnly, "print", "p", false, "Print the artifacts instead of saving them")
	cmd.Flags().StringVar(copyKind, "copy", "", "Copy one artifact to the clipboard: "+strings.Join(artifactKinds(), ", "))
}

func artifactKinds() []string {
	return []string{
		controller.KindFeatureFile,
		controller.KindAPIClass,
		controller.KindPojos,
		controller.KindStepDefinition,
	}
}

func checkArtifactKind(kind string) error {
	if kind == "" || slices.Contains(artifactKinds(), kind) {
		return nil
	}
	return fmt.Errorf("unknown artifact %q for --copy (want %s)", kind, strings.Join(artifactKinds(), ", "))
}

func parseTestTypes(raw string) (*skills.Set[skills.TestType], error) {
	set, err := skills.NewTestTypeSet()
	if err != nil {
		return nil, err
	}
	if err := set.Parse(raw); err != nil {
		return nil, fmt.Errorf("invalid --types: %w", err)
	}
	return set, nil
}

func readDetails(stdin io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading API details from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading API details: %w", err)
		}
		return string(data), nil
	}
}

// deliverArtifacts prints or saves the generated artifacts and optionally
// copies one of them. Artifacts the backend left empty are skipped.
func (s *session) deliverArtifacts(cmd *cobra.Command, arts *controller.Artifacts, printOnly bool, copyKind string) error {
	if copyKind != "" {
		if art, ok := arts.Get(copyKind); ok {
			s.copy(art.Content)
		} else {
			fmt.Fprintf(s.errOut, "Nothing to copy: the backend returned no %s\n", copyKind) //nolint:errcheck
		}
	}

	if printOnly {
		for i, art := range arts.List() {
			if i > 0 {
				fmt.Fprintln(s.out) //nolint:errcheck
			}
			fmt.Fprintf(s.out, "==> %s (%s)\n%s\n", art.Title, art.Name, art.Content) //nolint:errcheck
		}
		return nil
	}

	list := arts.List()
	files := make([]artifact.File, 0, len(list))
	for _, art := range list {
		files = append(files, artifact.File{Name: art.Name, Content: art.Content})
	}
	return s.save(cmd.Context(), cmd, files...)
}
