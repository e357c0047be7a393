package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/spboyer/qagen/internal/apiclient"
	"github.com/spboyer/qagen/internal/filename"
	"github.com/spboyer/qagen/internal/submission"
	"github.com/spboyer/qagen/internal/textnorm"
)

// Feature page messages.
const (
	MsgTestcaseRequired     = "Please enter a Spira Testcase ID"
	msgFeatureDefaultFailed = "Failed to generate feature file"
)

// Feature is a generated Gherkin feature file.
type Feature struct {
	TestcaseID string
	Text       string
	FileName   string
}

// FeatureController is the Spira test case to feature file page.
type FeatureController struct {
	base
	sub submission.Submission[*Feature]
}

// NewFeatureController creates the feature file page controller.
func NewFeatureController(backend Backend, opts Options) *FeatureController {
	c := &FeatureController{base: newBase(backend, opts)}
	c.sub.OnTransition = c.onTransition
	return c
}

// Snapshot returns the state of the last submission.
func (c *FeatureController) Snapshot() submission.Snapshot[*Feature] {
	return c.sub.Snapshot()
}

// Busy reports whether a request is in flight.
func (c *FeatureController) Busy() bool {
	return c.sub.Busy()
}

// Output is the text the page displays: the feature file, or the error
// message after a failure.
func (c *FeatureController) Output() string {
	snap := c.sub.Snapshot()
	switch {
	case snap.State == submission.Failed:
		return snap.Message
	case snap.Result != nil:
		return snap.Result.Text
	default:
		return ""
	}
}

// Generate fetches the feature file for a Spira test case.
func (c *FeatureController) Generate(ctx context.Context, testcaseID string) (*Feature, error) {
	if c.sub.Busy() {
		return nil, submission.ErrBusy
	}
	if strings.TrimSpace(testcaseID) == "" {
		return nil, c.invalid(MsgTestcaseRequired)
	}

	f, err := c.sub.Run(ctx, func(ctx context.Context) (*Feature, string, error) {
		raw, err := c.backend.GenerateFeatureFile(ctx, testcaseID)
		if err != nil {
			msg, err := c.settle(c.featureFailure(err))
			return nil, msg, err
		}
		text := textnorm.Normalize(raw)
		return &Feature{
			TestcaseID: testcaseID,
			Text:       text,
			FileName:   filename.TestCaseFile(text, testcaseID),
		}, "", nil
	})
	c.report(err)
	return f, err
}

func (c *FeatureController) featureFailure(err error) *Failure {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		msg := strings.TrimSpace(statusErr.Body)
		if msg == "" {
			msg = msgFeatureDefaultFailed
		}
		return &Failure{Message: "Error: " + msg, Err: err}
	}
	c.logger.Error("Error generating feature file", "error", err)
	return &Failure{Message: "Error: " + err.Error(), Err: err}
}
