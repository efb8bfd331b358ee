package selection

import (
	"fmt"

	"verigraph/internal/classification"
	"verigraph/internal/trace"
)

// Replay re-derives a recorded selection and proves it reproduces exactly.
//
// The recorded settings are used instead of the engine's own configuration.
// Replay fails with ErrOntologyMismatch when the trace was produced from a
// different ontology, and with ErrReplayMismatch when the re-derived trace
// hash differs from the recorded one. A selection error (for example a cycle)
// is returned as-is. The replayed selection is not reported to the engine's
// observer or trace sink.
func (e *Engine) Replay(recorded trace.SelectionTrace) (Selection, error) {
	if err := recorded.Validate(); err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrReplayMismatch, err)
	}
	if recorded.OntologyHash != e.ont.Hash() {
		return Selection{}, fmt.Errorf("%w: trace ontology %s (version %s), engine ontology %s (version %s)",
			ErrOntologyMismatch, recorded.OntologyHash, recorded.OntologyVersion, e.ont.Hash(), e.ont.Version())
	}

	cfg, err := ConfigFromSettings(recorded.Settings)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrReplayMismatch, err)
	}
	replayer, err := e.replayer(cfg)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrReplayMismatch, err)
	}

	sel, err := replayer.SelectAndExplain(classification.Classification(recorded.Classification))
	if err != nil {
		return Selection{}, err
	}

	want, err := recorded.Hash()
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrReplayMismatch, err)
	}
	got, err := sel.Trace.Hash()
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrReplayMismatch, err)
	}
	if got != want {
		return sel, fmt.Errorf("%w: recorded trace %s, replayed trace %s", ErrReplayMismatch, want, got)
	}
	return sel, nil
}
