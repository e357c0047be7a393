package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spboyer/qagen/internal/apiclient"
	"github.com/spboyer/qagen/internal/export"
	"github.com/spboyer/qagen/internal/filename"
	"github.com/spboyer/qagen/internal/skills"
	"github.com/spboyer/qagen/internal/submission"
	"github.com/spboyer/qagen/internal/textnorm"
)

// Resume page messages.
const (
	MsgResumeFieldsRequired = "Please fill in all the required fields."
	MsgResumeFileRequired   = "Please upload a resume (PDF, DOC, or DOCX)."
	MsgNoFeedback           = "No feedback to download!"
	prefixReviewFailed      = "Review failed: "
	prefixReviewError       = "Error reviewing resume: "
)

var (
	// RoleOptions are the roles a candidate can apply for.
	RoleOptions = []string{
		"QA Automation Engineer",
		"QA Manual Engineer",
		"QA Architect",
	}

	// ExperienceOptions are the overall experience brackets.
	ExperienceOptions = []string{
		"Less than 1 year",
		"1-3 years",
		"3-5 years",
		"More than 5 years",
	}

	// RelevantExperienceOptions are the relevant experience brackets.
	RelevantExperienceOptions = []string{
		"Less than 1 year relevant experience",
		"1-2 years relevant experience",
		"2-5 years relevant experience",
		"More than 5 years relevant experience",
	}

	// ResumeExtensions are the accepted resume file types.
	ResumeExtensions = []string{".pdf", ".doc", ".docx"}
)

// ResumeForm is the resume review form.
type ResumeForm struct {
	Name               string
	RoleApplied        string
	PresentExperience  string
	RelevantExperience string
	FrontEndSkills     *skills.Set[skills.FrontEnd]
	BackEndSkills      *skills.Set[skills.BackEnd]
	ResumeFile         string
}

// Review is the feedback for one candidate.
type Review struct {
	Candidate string
	Raw       string
	// Text is Raw with escapes decoded and any code fence removed.
	Text string
}

// ResumeController is the resume review page.
type ResumeController struct {
	base
	sub submission.Submission[*Review]
}

// NewResumeController creates the resume review page controller.
func NewResumeController(backend Backend, opts Options) *ResumeController {
	c := &ResumeController{base: newBase(backend, opts)}
	c.sub.OnTransition = c.onTransition
	return c
}

// Snapshot returns the state of the last submission.
func (c *ResumeController) Snapshot() submission.Snapshot[*Review] {
	return c.sub.Snapshot()
}

// Busy reports whether a request is in flight.
func (c *ResumeController) Busy() bool {
	return c.sub.Busy()
}

// Validate checks the form without sending anything.
func (c *ResumeController) Validate(form ResumeForm) error {
	if strings.TrimSpace(form.Name) == "" || form.RoleApplied == "" ||
		form.PresentExperience == "" || form.RelevantExperience == "" {
		return c.invalid(MsgResumeFieldsRequired)
	}
	for _, f := range []struct {
		label, value string
		options      []string
	}{
		{"role", form.RoleApplied, RoleOptions},
		{"experience", form.PresentExperience, ExperienceOptions},
		{"relevant experience", form.RelevantExperience, RelevantExperienceOptions},
	} {
		if !slices.Contains(f.options, f.value) {
			return c.invalid(fmt.Sprintf("Unknown %s %q; choose one of: %s", f.label, f.value, strings.Join(f.options, ", ")))
		}
	}
	if form.ResumeFile == "" || !slices.Contains(ResumeExtensions, strings.ToLower(filepath.Ext(form.ResumeFile))) {
		return c.invalid(MsgResumeFileRequired)
	}
	return nil
}

// Review submits the form with the resume and stores the feedback.
func (c *ResumeController) Review(ctx context.Context, form ResumeForm) (*Review, error) {
	if c.sub.Busy() {
		return nil, submission.ErrBusy
	}
	if err := c.Validate(form); err != nil {
		return nil, err
	}

	review, err := c.sub.Run(ctx, func(ctx context.Context) (*Review, string, error) {
		f, err := os.Open(form.ResumeFile)
		if err != nil {
			msg, err := c.settle(c.failed(err, prefixReviewFailed, prefixReviewError))
			return nil, msg, err
		}
		defer f.Close() //nolint:errcheck

		req := apiclient.ResumeReviewRequest{
			Name:               strings.TrimSpace(form.Name),
			RoleApplied:        form.RoleApplied,
			PresentExperience:  form.PresentExperience,
			RelevantExperience: form.RelevantExperience,
			Resume:             apiclient.Upload{Name: filepath.Base(form.ResumeFile), Content: f},
		}
		if form.FrontEndSkills != nil {
			req.FrontEndSkills = form.FrontEndSkills.Strings()
		}
		if form.BackEndSkills != nil {
			req.BackEndSkills = form.BackEndSkills.Strings()
		}

		raw, err := c.backend.ReviewResume(ctx, req)
		if err != nil {
			msg, err := c.settle(c.failed(err, prefixReviewFailed, prefixReviewError))
			return nil, msg, err
		}
		return &Review{Candidate: req.Name, Raw: raw, Text: textnorm.Feedback(raw)}, "", nil
	})
	c.report(err)
	return review, err
}

// Feedback returns the processed feedback of the last successful review.
func (c *ResumeController) Feedback() string {
	if r := c.sub.Snapshot().Result; r != nil {
		return r.Text
	}
	return ""
}

// ExportName is the download name of the feedback in format f.
func (c *ResumeController) ExportName(f export.Format) string {
	candidate := ""
	if r := c.sub.Snapshot().Result; r != nil {
		candidate = r.Candidate
	}
	return filename.ResumeReview(candidate, f.Ext())
}

// Export writes the feedback to w in format f.
func (c *ResumeController) Export(w io.Writer, f export.Format, opts export.Options) error {
	r := c.sub.Snapshot().Result
	if r == nil || strings.TrimSpace(r.Text) == "" {
		return c.invalid(MsgNoFeedback)
	}
	if opts.Title == "" {
		opts.Title = "Resume Review: " + r.Candidate
	}
	if opts.PDF.Author == "" {
		opts.PDF.Author = "qagen"
	}
	if err := export.Write(w, f, r.Text, opts); err != nil {
		return fmt.Errorf("exporting feedback: %w", err)
	}
	return nil
}
