// Package join implements the batched join execution engine that walks a
// compiled request tree and stitches results together.
//
// A JoinType describes one fetchable object type: a lazy field registry and
// a fetch callback that returns one tuple of immediate values per row for a
// set of immediate selections. Scalar fields read straight from those
// tuples; relationship fields fetch their target type once per request tree
// node (not once per parent row) and index the child rows by join-key
// values, so the number of fetches equals the number of relationship edges
// in the tree regardless of result size.
//
// The engine fills the request tree's JoinSelections slot with the hidden
// target key fields a relationship needs; the compiler always leaves that
// slot empty.
package join
