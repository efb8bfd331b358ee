package cli

import (
	"errors"
	"fmt"
	"testing"

	"verigraph/internal/classification"
	"verigraph/internal/config"
	"verigraph/internal/ontology"
	"verigraph/internal/selection"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invocation", invalidInvocationf("bad"), ExitInvalidInvocation},
		{"invocation without code", &InvocationError{Message: "x"}, ExitInvalidInvocation},
		{"config wrapper", configErrorf(errors.New("x"), "x"), ExitConfigError},
		{"cycle", &selection.StructuralError{Unresolved: []string{"A"}}, ExitSelectionFailure},
		{"wrapped cycle", fmt.Errorf("classification 3: %w", &selection.StructuralError{}), ExitSelectionFailure},
		{"unknown ref", &selection.UnknownTaskReferenceError{}, ExitSelectionFailure},
		{"replay mismatch", selection.ErrReplayMismatch, ExitSelectionFailure},
		{"ontology mismatch", selection.ErrOntologyMismatch, ExitSelectionFailure},
		{"ontology cycle", ontology.ErrCycle, ExitSelectionFailure},
		{"invalid config", config.ErrInvalid, ExitConfigError},
		{"invalid selection config", selection.ErrInvalidConfig, ExitConfigError},
		{"invalid ontology", ontology.ErrInvalidOntology, ExitConfigError},
		{"invalid classification", classification.ErrInvalidClassification, ExitInvalidInvocation},
		{"other", errors.New("boom"), ExitInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestInvocationError_Unwrap(t *testing.T) {
	err := configErrorf(config.ErrInvalid, "wrapped")
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected errors.Is to see the cause")
	}
	if err.Error() != "wrapped" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
