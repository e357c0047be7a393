// Package controller holds the page logic of the QA automation client: one
// controller per page, each validating its form, sending exactly one
// backend request per action and keeping the outcome in a submission state
// machine. Controllers report user-facing messages through a Notifier.
package controller

//go:generate go tool mockgen -source=controller.go -destination=mocks_test.go -package=controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spboyer/qagen/internal/apiclient"
	"github.com/spboyer/qagen/internal/submission"
)

// Backend is the set of endpoints the pages call. [*apiclient.Client]
// implements it.
type Backend interface {
	// ParseSwagger maps to [apiclient.Client.ParseSwagger]
	ParseSwagger(ctx context.Context, file apiclient.Upload) (string, error)

	// GenerateCode maps to [apiclient.Client.GenerateCode]
	GenerateCode(ctx context.Context, req apiclient.GenerateCodeRequest) (*apiclient.GenerateCodeResponse, error)

	// GenerateFeatureFile maps to [apiclient.Client.GenerateFeatureFile]
	GenerateFeatureFile(ctx context.Context, testcaseID string) (string, error)

	// ReviewResume maps to [apiclient.Client.ReviewResume]
	ReviewResume(ctx context.Context, req apiclient.ResumeReviewRequest) (string, error)
}

var _ Backend = (*apiclient.Client)(nil)

// Notifier delivers blocking, user-facing messages.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Discard is a Notifier that drops every message.
var Discard Notifier = NotifierFunc(func(string) {})

// ValidationError is a form problem found before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RemoteError is a failure the backend reported inside a successful
// response body.
type RemoteError struct {
	Endpoint string
	Message  string
}

func (e *RemoteError) Error() string { return e.Message }

// Failure is a settled submission failure. Message is the text shown to the
// user, Err the cause.
type Failure struct {
	Message string
	Err     error
}

func (e *Failure) Error() string { return e.Message }

func (e *Failure) Unwrap() error { return e.Err }

// IsRemote reports whether err came from the backend: a non-2xx status or
// an error field in the response.
func IsRemote(err error) bool {
	var statusErr *apiclient.StatusError
	var remoteErr *RemoteError
	return errors.As(err, &statusErr) || errors.As(err, &remoteErr)
}

// Options are shared by every controller.
type Options struct {
	Notifier Notifier
	Logger   *slog.Logger

	// OnTransition is called after every state change of the page's
	// submission.
	OnTransition func(from, to submission.State)
}

type base struct {
	backend      Backend
	notifier     Notifier
	logger       *slog.Logger
	onTransition func(from, to submission.State)
}

func newBase(backend Backend, opts Options) base {
	b := base{
		backend:      backend,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
		onTransition: opts.OnTransition,
	}
	if b.notifier == nil {
		b.notifier = Discard
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// invalid notifies msg and returns it as a *ValidationError.
func (b base) invalid(msg string) error {
	b.notifier.Notify(msg)
	return &ValidationError{Message: msg}
}

// failed builds the failure for err: backend status errors get
// statusPrefix and the body, anything else is logged and gets
// unexpectedPrefix.
func (b base) failed(err error, statusPrefix, unexpectedPrefix string) *Failure {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		return &Failure{Message: statusPrefix + statusErr.Error(), Err: err}
	}
	b.logger.Error("Request failed", "error", err)
	return &Failure{Message: unexpectedPrefix + err.Error(), Err: err}
}

// settle turns fn's error into the (message, error) pair a submission
// records.
func (b base) settle(err error) (string, error) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message, f
	}
	return err.Error(), err
}

// report notifies the user of a settled failure. It runs after the
// submission settles so busy indicators are already cleared.
func (b base) report(err error) {
	var f *Failure
	if errors.As(err, &f) {
		b.notifier.Notify(f.Message)
	}
}
