package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/qagen/internal/controller"
)

// Exit codes for different failure modes
const (
	ExitSuccess       = 0 // Request completed
	ExitRemoteFailure = 1 // The backend rejected or failed the request
	ExitError         = 2 // Validation, configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		if !alreadyReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case controller.IsRemote(err):
		return ExitRemoteFailure
	default:
		return ExitError
	}
}

// alreadyReported reports whether a controller has delivered err to the
// user through its notifier.
func alreadyReported(err error) bool {
	var validationErr *controller.ValidationError
	var failure *controller.Failure
	return errors.As(err, &validationErr) || errors.As(err, &failure)
}
