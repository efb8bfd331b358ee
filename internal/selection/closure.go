package selection

import "sort"

// close expands the seed set to its transitive dependency closure.
//
// Expansion is breadth-first from the sorted seeds, following each node's
// dependencies in declared order, so requiredBy is deterministic. A dependency
// id missing from the ontology is recorded in d.dropped and left out of the
// closure; in strict mode any such id fails the call instead.
func (e *Engine) close(d *derivation) error {
	d.closure = make(map[string]struct{}, len(d.seeds))
	d.requiredBy = make(map[string]string)

	queue := make([]string, 0, len(d.seeds))
	for _, id := range d.seeds {
		d.closure[id] = struct{}{}
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n, ok := e.nodes[id]
		if !ok {
			continue
		}
		for _, dep := range n.Dependencies {
			if _, known := e.nodes[dep]; !known {
				d.dropped = append(d.dropped, Reference{TaskID: id, Missing: dep})
				continue
			}
			if _, seen := d.closure[dep]; seen {
				continue
			}
			d.closure[dep] = struct{}{}
			d.requiredBy[dep] = id
			queue = append(queue, dep)
		}
	}

	sort.Slice(d.dropped, func(i, j int) bool {
		a, b := d.dropped[i], d.dropped[j]
		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		return a.Missing < b.Missing
	})

	if e.cfg.StrictReferences && len(d.dropped) > 0 {
		refs := append([]Reference(nil), d.dropped...)
		return &UnknownTaskReferenceError{References: refs}
	}
	return nil
}
