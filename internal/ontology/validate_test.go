package ontology

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate_Diamond(t *testing.T) {
	o := MustNew("1", []TaskNode{
		{ID: "A"},
		{ID: "B", Dependencies: []string{"A"}},
		{ID: "C", Dependencies: []string{"A"}},
		{ID: "D", Dependencies: []string{"B", "C"}},
	})
	if err := o.Validate(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_UnknownReference(t *testing.T) {
	o := MustNew("1", []TaskNode{{ID: "A", Dependencies: []string{"ghost"}}})
	err := o.Validate()
	if !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected unknown reference error, got %v", err)
	}
}

func TestValidate_SelfLoop(t *testing.T) {
	o := MustNew("1", []TaskNode{{ID: "A", Dependencies: []string{"A"}}})
	err := o.Validate()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if diff := cmp.Diff([]string{"A", "A"}, o.FindCycle(o.AllIDs())); diff != "" {
		t.Fatalf("cycle witness mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCycle_IndirectWitnessIsDeterministic(t *testing.T) {
	o := MustNew("1", []TaskNode{
		{ID: "C", Dependencies: []string{"A"}},
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"C"}},
		{ID: "D", Dependencies: []string{"A"}},
	})
	want := []string{"A", "B", "C", "A"}
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(want, o.FindCycle(o.AllIDs())); diff != "" {
			t.Fatalf("cycle witness mismatch (-want +got):\n%s", diff)
		}
	}
	if err := o.Validate(); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestFindCycle_RestrictedToSubgraph(t *testing.T) {
	o := MustNew("1", []TaskNode{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A"}},
		{ID: "C"},
	})
	if got := o.FindCycle([]string{"A", "C", "unknown"}); got != nil {
		t.Fatalf("expected no cycle in {A, C}, got %v", got)
	}
	if got := o.FindCycle([]string{"A", "B"}); len(got) == 0 {
		t.Fatalf("expected cycle in {A, B}")
	}
}
