package ontology

import (
	"math"
	"sort"
	"strings"
)

// Ontology is an immutable, versioned verification task registry.
//
// It is safe for concurrent read access.
type Ontology struct {
	version string
	nodes   map[string]TaskNode

	ids         []string            // sorted
	byDimension map[string][]string // sorted ids per dimension
	mandatory   []string            // sorted
	dimensions  []string            // sorted union

	hash string
}

// New builds an Ontology from node records.
//
// Validation runs immediately and rejects:
//   - an empty version tag
//   - empty or duplicate node ids
//   - blank dimension, dependency or skill entries
//   - negative, NaN or infinite risk weights
//   - negative validator counts or time estimates
//
// Cycles and dangling dependency references are accepted here; see Validate.
func New(version string, nodes []TaskNode) (*Ontology, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, invalidf("version is required")
	}

	o := &Ontology{
		version:     version,
		nodes:       make(map[string]TaskNode, len(nodes)),
		byDimension: make(map[string][]string),
	}

	for _, in := range nodes {
		if strings.TrimSpace(in.ID) == "" {
			return nil, invalidf("task id is required")
		}
		if _, exists := o.nodes[in.ID]; exists {
			return nil, invalidf("duplicate task id: %q", in.ID)
		}
		n, err := resolve(in)
		if err != nil {
			return nil, err
		}
		o.nodes[n.ID] = n
		o.ids = append(o.ids, n.ID)
		if n.Mandatory {
			o.mandatory = append(o.mandatory, n.ID)
		}
		for _, d := range n.Dimensions {
			o.byDimension[d] = append(o.byDimension[d], n.ID)
		}
	}

	sort.Strings(o.ids)
	sort.Strings(o.mandatory)
	for d, ids := range o.byDimension {
		sort.Strings(ids)
		o.dimensions = append(o.dimensions, d)
	}
	sort.Strings(o.dimensions)

	o.hash = o.computeHash()
	return o, nil
}

// resolve applies defaults and copies every slice so the caller's records
// never alias ontology state.
func resolve(in TaskNode) (TaskNode, error) {
	n := in.clone()
	n.Dimensions = dedupe(n.Dimensions)
	n.Dependencies = dedupe(n.Dependencies)

	for _, l := range []struct {
		name string
		list []string
	}{
		{"dimension", n.Dimensions},
		{"dependency", n.Dependencies},
		{"required skill", n.RequiredSkills},
	} {
		if i := blankIndex(l.list); i >= 0 {
			return TaskNode{}, invalidf("task %q: %s %d is blank", n.ID, l.name, i)
		}
	}

	switch {
	case math.IsNaN(n.RiskWeight) || math.IsInf(n.RiskWeight, 0):
		return TaskNode{}, invalidf("task %q: risk weight must be finite", n.ID)
	case n.RiskWeight < 0:
		return TaskNode{}, invalidf("task %q: risk weight must be positive (got %v)", n.ID, n.RiskWeight)
	case n.RiskWeight == 0:
		n.RiskWeight = DefaultRiskWeight
	}

	if n.MinValidators < 0 {
		return TaskNode{}, invalidf("task %q: min validators must not be negative", n.ID)
	}
	if n.MinValidators == 0 {
		n.MinValidators = DefaultMinValidators
	}
	if n.EstimatedMinutes < 0 {
		return TaskNode{}, invalidf("task %q: estimated minutes must not be negative", n.ID)
	}
	if n.EstimatedMinutes == 0 {
		n.EstimatedMinutes = DefaultEstimatedMinutes
	}

	if n.RequiredSkills == nil {
		n.RequiredSkills = cloneStrings(n.Dimensions)
		if n.RequiredSkills == nil {
			n.RequiredSkills = []string{}
		}
	}
	return n, nil
}

func blankIndex(list []string) int {
	for i, s := range list {
		if strings.TrimSpace(s) == "" {
			return i
		}
	}
	return -1
}

// MustNew is like New but panics on error. It is intended for ontologies
// declared in source.
func MustNew(version string, nodes []TaskNode) *Ontology {
	o, err := New(version, nodes)
	if err != nil {
		panic(err)
	}
	return o
}

// Version returns the ontology version tag.
func (o *Ontology) Version() string { return o.version }

// Hash returns the stable content identity of the ontology.
func (o *Ontology) Hash() string { return o.hash }

// Len returns the number of nodes.
func (o *Ontology) Len() int { return len(o.nodes) }

// Lookup returns a copy of the node with the given id.
// An unknown id is not an error; ok is false.
func (o *Ontology) Lookup(id string) (TaskNode, bool) {
	n, ok := o.nodes[id]
	if !ok {
		return TaskNode{}, false
	}
	return n.clone(), true
}

// Contains reports whether id names a node.
func (o *Ontology) Contains(id string) bool {
	_, ok := o.nodes[id]
	return ok
}

// AllIDs returns every node id in lexicographic order.
func (o *Ontology) AllIDs() []string { return cloneStrings(o.ids) }

// NodesWithDimension returns the ids of nodes verifying dim, sorted.
func (o *Ontology) NodesWithDimension(dim string) []string {
	return cloneStrings(o.byDimension[dim])
}

// MandatoryNodes returns the ids of mandatory nodes, sorted.
func (o *Ontology) MandatoryNodes() []string { return cloneStrings(o.mandatory) }

// Dimensions returns every dimension tag used by at least one node, sorted.
func (o *Ontology) Dimensions() []string { return cloneStrings(o.dimensions) }

// Nodes returns copies of all nodes in id order.
func (o *Ontology) Nodes() []TaskNode {
	out := make([]TaskNode, 0, len(o.ids))
	for _, id := range o.ids {
		out = append(out, o.nodes[id].clone())
	}
	return out
}

// RiskWeight returns the risk weight of id, or DefaultRiskWeight for unknown ids.
func (o *Ontology) RiskWeight(id string) float64 {
	if n, ok := o.nodes[id]; ok {
		return n.RiskWeight
	}
	return DefaultRiskWeight
}
