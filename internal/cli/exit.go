package cli

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/livelayout/pkg/errors"
)

// Process exit statuses returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2   // invalid graph, configuration or parameters
	ExitNoInput     = 66  // a named file does not exist
	ExitInterrupted = 130 // SIGINT or SIGTERM
)

// ExitCode maps the error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidStrategy,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidNodeID:
		return ExitUsage
	case errors.ErrCodeFileNotFound:
		return ExitNoInput
	}
	return ExitFailure
}
