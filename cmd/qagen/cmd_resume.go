package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spboyer/qagen/internal/artifact"
	"github.com/spboyer/qagen/internal/controller"
	"github.com/spboyer/qagen/internal/export"
	"github.com/spboyer/qagen/internal/filename"
	"github.com/spboyer/qagen/internal/skills"
	"github.com/spboyer/qagen/internal/textnorm"
	"github.com/spboyer/qagen/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newResumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resume",
		Aliases: []string{"resume-review"},
		Short:   "Review a candidate resume",
		Long: `Review a candidate resume against the role applied for.

The backend returns Markdown feedback with an assessment table. It is
rendered in the terminal and can be exported as PDF, HTML or Markdown.`,
	}

	cmd.AddCommand(newResumeReviewCommand())
	cmd.AddCommand(newResumeExportCommand())

	return cmd
}

func newResumeReviewCommand() *cobra.Command {
	var (
		answers     wizard.ResumeAnswers
		frontEnd    string
		backEnd     string
		save        bool
		format      string
		raw         bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Submit a resume for review and show the feedback",
		Long: `Submit a resume for review and show the feedback.

Role and experience take one of the listed values. Missing fields are asked
for with a form when running in a terminal.

Roles:               ` + strings.Join(controller.RoleOptions, ", ") + `
Experience:          ` + strings.Join(controller.ExperienceOptions, ", ") + `
Relevant experience: ` + strings.Join(controller.RelevantExperienceOptions, ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if answers.FrontEndSkills, err = parseSkills(skills.NewFrontEndSet, frontEnd); err != nil {
				return fmt.Errorf("invalid --front-end: %w", err)
			}
			if answers.BackEndSkills, err = parseSkills(skills.NewBackEndSet, backEnd); err != nil {
				return fmt.Errorf("invalid --back-end: %w", err)
			}
			var exportFormat export.Format
			if save {
				if exportFormat, err = s.exportFormat(format); err != nil {
					return err
				}
			}

			if interactive || (!answers.Complete() && s.interactive()) {
				filled, err := wizard.RunResumeWizard(s.in, s.out, answers)
				if err != nil {
					return err
				}
				answers = *filled
			}
			form, err := answers.Form()
			if err != nil {
				return err
			}

			ctl := controller.NewResumeController(s.backend, s.controllerOptions("Reviewing..."))
			ctx, cancel := s.requestContext(cmd.Context())
			defer cancel()
			review, err := ctl.Review(ctx, form)
			if err != nil {
				return err
			}

			fmt.Fprintln(s.out, s.renderFeedback(review.Text, raw)) //nolint:errcheck
			if !save {
				return nil
			}
			var buf bytes.Buffer
			if err := ctl.Export(&buf, exportFormat, s.exportOptions()); err != nil {
				return err
			}
			return s.save(cmd.Context(), cmd, artifact.File{Name: ctl.ExportName(exportFormat), Content: buf.String()})
		},
	}

	cmd.Flags().StringVarP(&answers.Name, "name", "n", "", "Candidate name")
	cmd.Flags().StringVar(&answers.RoleApplied, "role", "", "Role applied for")
	cmd.Flags().StringVar(&answers.PresentExperience, "experience", "", "Overall experience")
	cmd.Flags().StringVar(&answers.RelevantExperience, "relevant-experience", "", "Relevant experience")
	cmd.Flags().StringVar(&frontEnd, "front-end", "", "Comma-separated front-end skills: selenium, playwright")
	cmd.Flags().StringVar(&backEnd, "back-end", "", "Comma-separated back-end skills: postman, restassured")
	cmd.Flags().StringVarP(&answers.ResumeFile, "file", "f", "", "Resume file (PDF, DOC or DOCX)")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Export the feedback to the output directory")
	cmd.Flags().StringVar(&format, "format", "", "Export format: pdf, html or md (default: export.format from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the feedback as plain Markdown")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for every field with a form")
	addSaveFlags(cmd)

	return cmd
}

func newResumeExportCommand() *cobra.Command {
	var (
		name   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <feedback-file>",
		Short: "Export saved review feedback as PDF, HTML or Markdown",
		Long: `Export review feedback saved earlier (for example with "resume review --raw")
as a document. Use - to read the feedback from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s := &session{cfg: cfg, logger: slog.Default(), in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			f, err := s.exportFormat(format)
			if err != nil {
				return err
			}
			raw, err := readFeedback(s.in, args[0])
			if err != nil {
				return err
			}
			text := textnorm.Feedback(raw)
			if strings.TrimSpace(text) == "" {
				return errors.New(controller.MsgNoFeedback)
			}

			opts := s.exportOptions()
			opts.Title = "Resume Review: " + strings.TrimSpace(name)
			opts.PDF.Author = "qagen"
			var buf bytes.Buffer
			if err := export.Write(&buf, f, text, opts); err != nil {
				return fmt.Errorf("exporting feedback: %w", err)
			}
			return s.save(cmd.Context(), cmd, artifact.File{
				Name:    filename.ResumeReview(name, f.Ext()),
				Content: buf.String(),
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Candidate name, used in the title and file name")
	cmd.Flags().StringVar(&format, "format", "", "Export format: pdf, html or md (default: export.format from config)")
	addSaveFlags(cmd)

	return cmd
}

// exportFormat resolves the --format flag, falling back to configuration.
func (s *session) exportFormat(flag string) (export.Format, error) {
	if flag == "" {
		flag = s.cfg.Export.Format
	}
	return export.ParseFormat(flag)
}

func (s *session) exportOptions() export.Options {
	return export.Options{
		PDF: export.PDFOptions{
			PageSize:      s.cfg.Export.PageSize,
			FontSize:      s.cfg.Export.FontSize,
			TableFontSize: s.cfg.Export.TableFontSize,
		},
	}
}

// renderFeedback styles the feedback for a terminal. Anything else gets
// the Markdown unchanged.
func (s *session) renderFeedback(text string, raw bool) string {
	f, ok := s.out.(*os.File)
	if raw || !ok || !term.IsTerminal(int(f.Fd())) {
		return text
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = export.DefaultWrapWidth
	}
	rendered, err := export.RenderTerminal(text, width)
	if err != nil {
		s.logger.Debug("Falling back to plain feedback", "error", err)
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

func parseSkills[T ~string](newSet func(...T) (*skills.Set[T], error), raw string) ([]T, error) {
	set, err := newSet()
	if err != nil {
		return nil, err
	}
	if err := set.Parse(raw); err != nil {
		return nil, err
	}
	return set.Values(), nil
}

func readFeedback(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading feedback: %w", err)
	}
	return string(data), nil
}
