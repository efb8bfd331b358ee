package cli

import (
	"errors"
	"fmt"

	"verigraph/internal/classification"
	"verigraph/internal/config"
	"verigraph/internal/ontology"
	"verigraph/internal/selection"
)

const (
	ExitSuccess           = 0
	ExitSelectionFailure  = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// CLIResult is the outcome of one invocation.
type CLIResult struct {
	ExitCode int
}

// InvocationError carries the exit code an error should map to.
type InvocationError struct {
	ExitCode int
	Message  string
	Err      error
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *InvocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(err error, format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...), Err: err}
}

// ExitCode maps an error to its semantic exit code.
//
// Selection failures (cycles, strict-mode unknown references, replay
// mismatches) and ontology validation findings exit with
// ExitSelectionFailure. Unusable configuration or ontology files exit with
// ExitConfigError, malformed input with ExitInvalidInvocation. Anything else
// is an internal error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	switch {
	case errors.Is(err, selection.ErrCycle),
		errors.Is(err, selection.ErrUnknownTaskReference),
		errors.Is(err, selection.ErrReplayMismatch),
		errors.Is(err, selection.ErrOntologyMismatch),
		errors.Is(err, ontology.ErrCycle),
		errors.Is(err, ontology.ErrUnknownReference):
		return ExitSelectionFailure
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, selection.ErrInvalidConfig),
		errors.Is(err, ontology.ErrInvalidOntology):
		return ExitConfigError
	case errors.Is(err, classification.ErrInvalidClassification):
		return ExitInvalidInvocation
	default:
		return ExitInternalError
	}
}
