// Package executor ties compilation and fetching together: it compiles an
// incoming query document into a request tree, runs the join engine over it,
// resolves a split-off introspection selection when present, and folds
// everything into one GraphQL response value.
package executor
