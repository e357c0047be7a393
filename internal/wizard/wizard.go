// Package wizard holds the interactive huh forms of each page. Forms fall
// back to accessible (line-based) mode when input is not a terminal.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/qagen/internal/controller"
	"github.com/spboyer/qagen/internal/skills"
	"golang.org/x/term"
)

// ResumeAnswers holds the fields collected by the resume review form.
type ResumeAnswers struct {
	Name               string
	RoleApplied        string
	PresentExperience  string
	RelevantExperience string
	FrontEndSkills     []skills.FrontEnd
	BackEndSkills      []skills.BackEnd
	ResumeFile         string
}

// Form converts the answers into the controller's form.
func (a *ResumeAnswers) Form() (controller.ResumeForm, error) {
	fe, err := skills.NewFrontEndSet(a.FrontEndSkills...)
	if err != nil {
		return controller.ResumeForm{}, err
	}
	be, err := skills.NewBackEndSet(a.BackEndSkills...)
	if err != nil {
		return controller.ResumeForm{}, err
	}
	return controller.ResumeForm{
		Name:               strings.TrimSpace(a.Name),
		RoleApplied:        a.RoleApplied,
		PresentExperience:  a.PresentExperience,
		RelevantExperience: a.RelevantExperience,
		FrontEndSkills:     fe,
		BackEndSkills:      be,
		ResumeFile:         strings.TrimSpace(a.ResumeFile),
	}, nil
}

// Complete reports whether every required field has a value. Skills are
// optional.
func (a *ResumeAnswers) Complete() bool {
	for _, v := range []string{a.Name, a.RoleApplied, a.PresentExperience, a.RelevantExperience, a.ResumeFile} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// SwaggerAnswers holds the fields collected by the Swagger page form.
type SwaggerAnswers struct {
	File      string
	TestTypes []skills.TestType
}

// TestTypeSet returns the selected test types as a set.
func (a *SwaggerAnswers) TestTypeSet() (*skills.Set[skills.TestType], error) {
	return skills.NewTestTypeSet(a.TestTypes...)
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Path  string
	Title string
}

// RunResumeWizard asks for every resume review field. Values already set
// in initial are used as defaults.
func RunResumeWizard(in io.Reader, out io.Writer, initial ResumeAnswers) (*ResumeAnswers, error) {
	a := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Candidate name").
				Value(&a.Name).
				Validate(required("name")),
			huh.NewSelect[string]().
				Title("Role applied").
				Options(huh.NewOptions(controller.RoleOptions...)...).
				Value(&a.RoleApplied),
			huh.NewSelect[string]().
				Title("Overall experience").
				Options(huh.NewOptions(controller.ExperienceOptions...)...).
				Value(&a.PresentExperience),
			huh.NewSelect[string]().
				Title("Relevant experience").
				Options(huh.NewOptions(controller.RelevantExperienceOptions...)...).
				Value(&a.RelevantExperience),
		),
		huh.NewGroup(
			huh.NewMultiSelect[skills.FrontEnd]().
				Title("Front-end skills").
				Options(skillOptions(skills.FrontEndOptions)...).
				Value(&a.FrontEndSkills),
			huh.NewMultiSelect[skills.BackEnd]().
				Title("Back-end skills").
				Options(skillOptions(skills.BackEndOptions)...).
				Value(&a.BackEndSkills),
			huh.NewInput().
				Title("Resume file").
				Description("PDF, DOC or DOCX").
				Placeholder("resume.pdf").
				Value(&a.ResumeFile).
				Validate(existingFile(controller.ResumeExtensions)),
		),
	)
	if err := run(form, in, out); err != nil {
		return nil, err
	}
	return &a, nil
}

// RunFeatureWizard asks for a Spira test case ID.
func RunFeatureWizard(in io.Reader, out io.Writer, initial string) (string, error) {
	id := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your Spira Testcase ID here").
				Placeholder("e.g., TC12345").
				Value(&id).
				Validate(required("testcase ID")),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return strings.TrimSpace(id), nil
}

// RunSwaggerWizard asks for the Swagger file and the test types to
// generate.
func RunSwaggerWizard(in io.Reader, out io.Writer, initial SwaggerAnswers) (*SwaggerAnswers, error) {
	a := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Upload Swagger File").
				Placeholder("openapi.yaml").
				Value(&a.File).
				Validate(existingFile([]string{".yml", ".yaml", ".json"})),
			huh.NewMultiSelect[skills.TestType]().
				Title("Test types").
				Options(skillOptions(skills.TestTypeOptions)...).
				Value(&a.TestTypes),
		),
	)
	if err := run(form, in, out); err != nil {
		return nil, err
	}
	a.File = strings.TrimSpace(a.File)
	return &a, nil
}

// RunMenu shows the navigation menu and returns the chosen path.
func RunMenu(in io.Reader, out io.Writer, items []MenuItem) (string, error) {
	if len(items) == 0 {
		return "", errors.New("no pages to choose from")
	}
	opts := make([]huh.Option[string], len(items))
	for i, it := range items {
		opts[i] = huh.NewOption(it.Title, it.Path)
	}
	path := items[0].Path
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("GenAI Automation").
				Options(opts...).
				Value(&path),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return path, nil
}

func run(form *huh.Form, in io.Reader, out io.Writer) error {
	form = form.WithInput(in).WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if !isTerminal(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func skillOptions[T ~string](options []skills.Option[T]) []huh.Option[T] {
	out := make([]huh.Option[T], len(options))
	for i, o := range options {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// existingFile accepts a path to a regular file with one of exts.
func existingFile(exts []string) func(string) error {
	return func(s string) error {
		path := strings.TrimSpace(s)
		if path == "" {
			return errors.New("file is required")
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return fmt.Errorf("file must be one of: %s", strings.Join(exts, ", "))
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot open %s", path)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		return nil
	}
}
