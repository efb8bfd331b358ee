// Package selection is the deterministic task selection engine.
//
// Given a Classification (dimension -> weight) it resolves, against an
// immutable Ontology, the complete and ordered list of verification tasks:
//
//  1. Seed: mandatory nodes (when enabled) plus every node with at least one
//     dimension whose weight meets the threshold (inclusive).
//  2. Closure: breadth-first expansion over dependency edges. Dependency ids
//     missing from the ontology are dropped, or rejected in strict mode.
//  3. Order: Kahn's algorithm over the induced subgraph; among ready nodes
//     the lexicographically smallest id is placed first.
//  4. Cycle check: any node left unplaced fails the whole call with a
//     StructuralError. There is no partial result.
//  5. Truncation: when the list exceeds MaxTasks, mandatory nodes are kept
//     and the rest are ranked by risk weight (descending) then declared
//     dependency count (ascending).
//
// The Engine holds only its configuration and a reference to the ontology.
// Every call allocates its own working state, so an Engine is safe for
// concurrent use without locking. Select, Explain and SelectAndExplain share
// one traversal; their outputs can never drift apart.
package selection
