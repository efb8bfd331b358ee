package ontology

import (
	"sort"
	"strings"
)

// Validate is the authoring-time lint for an ontology.
//
// It reports, in this order:
//   - dependency references that do not resolve to a node (ErrUnknownReference)
//   - any cycle, with one deterministic witness path (ErrCycle)
//
// A nil result means the ontology is a well-formed DAG.
func (o *Ontology) Validate() error {
	var dangling []string
	for _, id := range o.ids {
		for _, dep := range o.nodes[id].Dependencies {
			if _, ok := o.nodes[dep]; !ok {
				dangling = append(dangling, id+" -> "+dep)
			}
		}
	}
	if len(dangling) > 0 {
		return unknownReferencef("%s", strings.Join(dangling, ", "))
	}

	if cycle := o.FindCycle(o.ids); len(cycle) > 0 {
		return cycleError(cycle)
	}
	return nil
}

// FindCycle performs a deterministic DFS over the subgraph induced by within
// and returns one cycle as a path of ids following dependency edges, with the
// first id repeated at the end. It returns nil when the subgraph is acyclic.
//
// Ids not present in the ontology are ignored. This does not attempt to list
// all cycles; it returns a single stable witness.
func (o *Ontology) FindCycle(within []string) []string {
	members := make(map[string]struct{}, len(within))
	for _, id := range within {
		if _, ok := o.nodes[id]; ok {
			members[id] = struct{}{}
		}
	}
	roots := make([]string, 0, len(members))
	for id := range members {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(members))
	parent := make(map[string]string, len(members))

	edges := func(u string) []string {
		deps := make([]string, 0, len(o.nodes[u].Dependencies))
		for _, d := range o.nodes[u].Dependencies {
			if _, ok := members[d]; ok {
				deps = append(deps, d)
			}
		}
		sort.Strings(deps)
		return deps
	}

	var cycle []string
	var dfs func(u string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range edges(u) {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u -> v. Walk parents from u back to v.
				cycle = append(cycle, v)
				for cur := u; cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, id := range roots {
		if color[id] != white {
			continue
		}
		if dfs(id) {
			break
		}
	}
	if len(cycle) == 0 {
		return nil
	}

	// cycle is [v, u, parent(u), ..., v]; reverse into forward edge order.
	out := make([]string, len(cycle))
	for i := range cycle {
		out[i] = cycle[len(cycle)-1-i]
	}
	return out
}
