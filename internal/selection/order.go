package selection

import (
	"container/heap"
	"sort"
)

type idMinHeap []string

func (h idMinHeap) Len() int           { return len(h) }
func (h idMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idMinHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// order returns the canonical topological order of set.
//
// Only edges between two members count toward in-degree. The ready queue is a
// min-heap keyed by id, so among ready nodes the lexicographically smallest is
// always placed next, independent of map iteration order.
//
// If some members cannot be placed they lie on or behind a cycle, and order
// fails with a StructuralError naming them.
func (e *Engine) order(set map[string]struct{}) ([]string, error) {
	members := make([]string, 0, len(set))
	for id := range set {
		members = append(members, id)
	}
	sort.Strings(members)

	indeg := make(map[string]int, len(members))
	dependents := make(map[string][]string, len(members))
	for _, id := range members {
		for _, dep := range e.nodes[id].Dependencies {
			if _, ok := set[dep]; !ok {
				continue
			}
			indeg[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := &idMinHeap{}
	for _, id := range members {
		if indeg[id] == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	out := make([]string, 0, len(members))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		out = append(out, id)
		for _, m := range dependents[id] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(out) == len(members) {
		return out, nil
	}

	placed := make(map[string]struct{}, len(out))
	for _, id := range out {
		placed[id] = struct{}{}
	}
	var unresolved []string
	for _, id := range members {
		if _, ok := placed[id]; !ok {
			unresolved = append(unresolved, id)
		}
	}
	return nil, &StructuralError{
		Unresolved: unresolved,
		Cycle:      e.ont.FindCycle(unresolved),
	}
}
