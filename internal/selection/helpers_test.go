package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verigraph/internal/ontology"
)

func mustOntology(t *testing.T, nodes ...ontology.TaskNode) *ontology.Ontology {
	t.Helper()
	o, err := ontology.New("test", nodes)
	require.NoError(t, err)
	return o
}

func mustEngine(t *testing.T, o *ontology.Ontology, mutate func(*Config), opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(o, cfg, opts...)
	require.NoError(t, err)
	return e
}

func indexOf(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}
