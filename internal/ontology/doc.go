// Package ontology defines the static, versioned verification ontology.
//
// An Ontology is an immutable registry of TaskNodes (verification primitives)
// and their dependency edges. It is constructed once, never mutated, and is
// safe to share by pointer across any number of concurrent readers.
//
// Construction resolves node defaults exactly once and rejects malformed
// records, but it deliberately does not reject cycles or dangling dependency
// references: the selection engine detects those at traversal time. Validate
// is the authoring-time lint that reports both.
//
// The ontology identity (Hash) is computed from node content and is invariant
// to declaration order.
package ontology
