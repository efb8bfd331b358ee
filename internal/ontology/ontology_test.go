package ontology

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ResolvesDefaultsOnce(t *testing.T) {
	o, err := New("1.0.0", []TaskNode{
		{ID: "a", Dimensions: []string{"security", "correctness"}},
	})
	require.NoError(t, err)

	n, ok := o.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, DefaultRiskWeight, n.RiskWeight)
	assert.Equal(t, DefaultMinValidators, n.MinValidators)
	assert.Equal(t, DefaultEstimatedMinutes, n.EstimatedMinutes)
	assert.Equal(t, []string{"security", "correctness"}, n.RequiredSkills)

	// Mutating the returned copy must not leak into the ontology.
	n.RequiredSkills[0] = "tampered"
	n.Dimensions = append(n.Dimensions, "extra")
	again, _ := o.Lookup("a")
	assert.Equal(t, []string{"security", "correctness"}, again.RequiredSkills)
	assert.Len(t, again.Dimensions, 2)
}

func TestNew_ExplicitSkillsKept(t *testing.T) {
	o, err := New("1.0.0", []TaskNode{
		{ID: "a", Dimensions: []string{"security"}, RequiredSkills: []string{"auth"}},
		{ID: "b", Dimensions: []string{"security"}, RequiredSkills: []string{}},
	})
	require.NoError(t, err)
	a, _ := o.Lookup("a")
	b, _ := o.Lookup("b")
	assert.Equal(t, []string{"auth"}, a.RequiredSkills)
	assert.Empty(t, b.RequiredSkills)
}

func TestNew_CallerSlicesDoNotAlias(t *testing.T) {
	deps := []string{"b"}
	o, err := New("1.0.0", []TaskNode{{ID: "a", Dependencies: deps}, {ID: "b"}})
	require.NoError(t, err)
	deps[0] = "zzz"
	n, _ := o.Lookup("a")
	assert.Equal(t, []string{"b"}, n.Dependencies)
}

func TestNew_DedupesDeclaredLists(t *testing.T) {
	o, err := New("1.0.0", []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y", "x"}, Dependencies: []string{"b", "b"}},
		{ID: "b"},
	})
	require.NoError(t, err)
	n, _ := o.Lookup("a")
	assert.Equal(t, []string{"x", "y"}, n.Dimensions)
	assert.Equal(t, []string{"b"}, n.Dependencies)
}

func TestNew_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		version string
		nodes   []TaskNode
	}{
		{"empty version", " ", []TaskNode{{ID: "a"}}},
		{"empty id", "1", []TaskNode{{ID: ""}}},
		{"duplicate id", "1", []TaskNode{{ID: "a"}, {ID: "a"}}},
		{"negative risk", "1", []TaskNode{{ID: "a", RiskWeight: -1}}},
		{"nan risk", "1", []TaskNode{{ID: "a", RiskWeight: math.NaN()}}},
		{"inf risk", "1", []TaskNode{{ID: "a", RiskWeight: math.Inf(1)}}},
		{"negative validators", "1", []TaskNode{{ID: "a", MinValidators: -2}}},
		{"negative minutes", "1", []TaskNode{{ID: "a", EstimatedMinutes: -5}}},
		{"empty dependency", "1", []TaskNode{{ID: "a", Dependencies: []string{""}}}},
		{"blank dependency", "1", []TaskNode{{ID: "a", Dependencies: []string{"b", "  "}}, {ID: "b"}}},
		{"empty dimension", "1", []TaskNode{{ID: "a", Dimensions: []string{"security", ""}}}},
		{"blank skill", "1", []TaskNode{{ID: "a", RequiredSkills: []string{" "}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.version, tc.nodes)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidOntology) {
				t.Fatalf("expected invalid ontology error, got %v", err)
			}
		})
	}
}

func TestNew_AcceptsCyclesAndDanglingReferences(t *testing.T) {
	o, err := New("test", []TaskNode{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A", "ghost"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, o.Len())
}

func TestLookup_UnknownIsAbsentNotError(t *testing.T) {
	o := Builtin()
	_, ok := o.Lookup("no_such_task")
	assert.False(t, ok)
	assert.False(t, o.Contains("no_such_task"))
	assert.Equal(t, DefaultRiskWeight, o.RiskWeight("no_such_task"))
}

func TestIndexes_AreSortedAndCopied(t *testing.T) {
	o, err := New("1", []TaskNode{
		{ID: "c", Dimensions: []string{"perf"}},
		{ID: "a", Dimensions: []string{"perf", "sec"}, Mandatory: true},
		{ID: "b", Dimensions: []string{"sec"}, Mandatory: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, o.AllIDs())
	assert.Equal(t, []string{"a", "c"}, o.NodesWithDimension("perf"))
	assert.Equal(t, []string{"a", "b"}, o.NodesWithDimension("sec"))
	assert.Empty(t, o.NodesWithDimension("docs"))
	assert.Equal(t, []string{"a", "b"}, o.MandatoryNodes())
	assert.Equal(t, []string{"perf", "sec"}, o.Dimensions())

	ids := o.AllIDs()
	ids[0] = "mutated"
	assert.Equal(t, "a", o.AllIDs()[0])
}

func TestHash_InvariantToDeclarationOrder(t *testing.T) {
	o1, err := New("1", []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y"}},
		{ID: "b", Dependencies: []string{"a"}},
	})
	require.NoError(t, err)
	o2, err := New("2", []TaskNode{
		{ID: "b", Dependencies: []string{"a"}},
		{ID: "a", Dimensions: []string{"x", "y"}},
	})
	require.NoError(t, err)
	if o1.Hash() != o2.Hash() {
		t.Fatalf("expected equal hashes, got %s vs %s", o1.Hash(), o2.Hash())
	}
}

func TestHash_ChangesWithListOrder(t *testing.T) {
	base := []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y"}, Dependencies: []string{"b", "d"}},
		{ID: "b"},
		{ID: "d"},
	}
	dimsSwapped := []TaskNode{
		{ID: "a", Dimensions: []string{"y", "x"}, Dependencies: []string{"b", "d"}},
		{ID: "b"},
		{ID: "d"},
	}
	depsSwapped := []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y"}, Dependencies: []string{"d", "b"}},
		{ID: "b"},
		{ID: "d"},
	}
	skillsSwapped := []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y"}, Dependencies: []string{"b", "d"}, RequiredSkills: []string{"y", "x"}},
		{ID: "b"},
		{ID: "d"},
	}

	h := MustNew("1", base).Hash()
	assert.NotEqual(t, h, MustNew("1", dimsSwapped).Hash())
	assert.NotEqual(t, h, MustNew("1", depsSwapped).Hash())
	assert.NotEqual(t, h, MustNew("1", skillsSwapped).Hash())

	// Duplicates are collapsed before hashing.
	dupes := []TaskNode{
		{ID: "a", Dimensions: []string{"x", "y", "x"}, Dependencies: []string{"b", "d", "b"}},
		{ID: "b"},
		{ID: "d"},
	}
	assert.Equal(t, h, MustNew("1", dupes).Hash())
}

func TestHash_ChangesWithContent(t *testing.T) {
	o1 := MustNew("1", []TaskNode{{ID: "a", RiskWeight: 1.5}})
	o2 := MustNew("1", []TaskNode{{ID: "a", RiskWeight: 1.6}})
	o3 := MustNew("1", []TaskNode{{ID: "a", RiskWeight: 1.5, Mandatory: true}})
	assert.NotEqual(t, o1.Hash(), o2.Hash())
	assert.NotEqual(t, o1.Hash(), o3.Hash())
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew("", nil) })
}
