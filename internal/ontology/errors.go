package ontology

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOntology  = errors.New("invalid ontology")
	ErrUnknownReference = errors.New("unknown task reference")
	ErrCycle            = errors.New("cycle detected")
)

// OntologyError wraps deterministic ontology construction and validation failures.
type OntologyError struct {
	Kind error
	Msg  string
}

func (e *OntologyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *OntologyError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &OntologyError{Kind: ErrInvalidOntology, Msg: fmt.Sprintf(format, args...)}
}

func unknownReferencef(format string, args ...any) error {
	return &OntologyError{Kind: ErrUnknownReference, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &OntologyError{Kind: ErrCycle, Msg: msg}
}
