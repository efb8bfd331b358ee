package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig        = errors.New("invalid selection config")
	ErrCycle                = errors.New("cycle detected in task graph")
	ErrUnknownTaskReference = errors.New("unknown task reference")
	ErrReplayMismatch       = errors.New("replay mismatch")
	ErrOntologyMismatch     = errors.New("ontology mismatch")
)

// StructuralError reports a cycle in the subgraph induced by a selection.
//
// It indicates a defective ontology, never a bad classification, and recurs
// identically on retry.
type StructuralError struct {
	// Unresolved lists every node the orderer could not place, sorted.
	Unresolved []string
	// Cycle is one deterministic witness path through the unresolved nodes,
	// following dependency edges, with the first id repeated at the end.
	Cycle []string
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: unresolved tasks [%s]", ErrCycle.Error(), strings.Join(e.Unresolved, ", "))
	if len(e.Cycle) > 0 {
		msg += " (cycle: " + strings.Join(e.Cycle, " -> ") + ")"
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return ErrCycle }

// Reference is a dependency edge whose target is missing from the ontology.
type Reference struct {
	TaskID  string `json:"task_id"`
	Missing string `json:"missing"`
}

func (r Reference) String() string { return r.TaskID + " -> " + r.Missing }

// UnknownTaskReferenceError is returned in strict mode when the closure
// reaches dependency ids the ontology does not define.
type UnknownTaskReferenceError struct {
	References []Reference
}

func (e *UnknownTaskReferenceError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.References))
	for _, r := range e.References {
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("%s: %s", ErrUnknownTaskReference.Error(), strings.Join(parts, ", "))
}

func (e *UnknownTaskReferenceError) Unwrap() error { return ErrUnknownTaskReference }
